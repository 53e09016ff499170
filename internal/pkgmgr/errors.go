package pkgmgr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBackendNotFound reports that the backend executable is not installed.
	ErrBackendNotFound = errors.New("backend not found")
	// ErrBackendReported reports a non-zero exit from a listing command.
	ErrBackendReported = errors.New("backend reported an error")
)

// NotFoundError names the missing executable.
type NotFoundError struct {
	Kind   Kind
	Binary string
	Err    error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("command %q was not found. Make sure %s is installed", e.Binary, e.Binary)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

func (e *NotFoundError) Is(target error) bool { return target == ErrBackendNotFound }

// ReportedError carries the diagnostic text of a failed listing command.
type ReportedError struct {
	Kind     Kind
	ExitCode int
	Message  string
}

func newReportedError(kind Kind, exitCode int, stderr []string) *ReportedError {
	msg := strings.TrimSpace(strings.Join(stderr, "\n"))
	if msg == "" {
		msg = "unknown error"
	}
	return &ReportedError{Kind: kind, ExitCode: exitCode, Message: msg}
}

func (e *ReportedError) Error() string {
	return fmt.Sprintf("failed to check %s updates (exit %d): %s", e.Kind.Label(), e.ExitCode, e.Message)
}

func (e *ReportedError) Is(target error) bool { return target == ErrBackendReported }
