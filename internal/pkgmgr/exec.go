package pkgmgr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/go-cmd/cmd"
)

// CommandConfig describes a single non-interactive command.
type CommandConfig struct {
	Name string
	Args []string
	Env  []string
}

// Argv returns the full argument vector, executable first.
func (c CommandConfig) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// CommandResult holds the buffered output of a finished command.
type CommandResult struct {
	Stdout   []string
	Stderr   []string
	ExitCode int
}

// Executor runs listing commands. A non-zero exit is reported through
// CommandResult.ExitCode, not as an error.
type Executor interface {
	Run(ctx context.Context, cfg CommandConfig) (CommandResult, error)
}

// CmdExecutor runs commands through go-cmd with buffered output.
type CmdExecutor struct{}

// Run implements Executor. A missing executable yields a *NotFoundError.
func (CmdExecutor) Run(ctx context.Context, cfg CommandConfig) (CommandResult, error) {
	if _, err := exec.LookPath(cfg.Name); err != nil {
		return CommandResult{}, &NotFoundError{Binary: cfg.Name, Err: err}
	}
	c := cmd.NewCmdOptions(cmd.Options{Buffered: true}, cfg.Name, cfg.Args...)
	if len(cfg.Env) > 0 {
		c.Env = append(os.Environ(), cfg.Env...)
	}
	statusChan := c.Start()

	var status cmd.Status
	select {
	case status = <-statusChan:
	case <-ctx.Done():
		_ = c.Stop()
		<-statusChan
		return CommandResult{}, ctx.Err()
	}

	if status.Error != nil {
		if errors.Is(status.Error, exec.ErrNotFound) {
			return CommandResult{}, &NotFoundError{Binary: cfg.Name, Err: status.Error}
		}
		return CommandResult{}, fmt.Errorf("run %s: %w", cfg.Name, status.Error)
	}
	return CommandResult{
		Stdout:   status.Stdout,
		Stderr:   status.Stderr,
		ExitCode: status.Exit,
	}, nil
}
