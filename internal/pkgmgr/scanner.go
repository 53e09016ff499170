package pkgmgr

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/atomicstack/update-control/internal/logging/events"
)

// Scanner checks registered backends for pending updates. It never elevates.
type Scanner struct {
	exec     Executor
	backends map[Kind]Backend
	order    []Kind
}

// NewScanner builds a scanner over the given backends. A nil executor uses
// CmdExecutor and an empty backend list uses DefaultBackends.
func NewScanner(exec Executor, backends ...Backend) *Scanner {
	if exec == nil {
		exec = CmdExecutor{}
	}
	if len(backends) == 0 {
		backends = DefaultBackends()
	}
	s := &Scanner{exec: exec, backends: make(map[Kind]Backend, len(backends))}
	for _, b := range backends {
		if _, dup := s.backends[b.Kind]; !dup {
			s.order = append(s.order, b.Kind)
		}
		s.backends[b.Kind] = b
	}
	return s
}

// Kinds returns the registered backends in scan order.
func (s *Scanner) Kinds() []Kind {
	return append([]Kind(nil), s.order...)
}

// Scan runs the listing command for kind. Errors match ErrBackendNotFound or
// ErrBackendReported via errors.Is; anything else is an execution failure.
func (s *Scanner) Scan(ctx context.Context, kind Kind) (UpdateSet, error) {
	b, ok := s.backends[kind]
	if !ok {
		return Empty(kind), fmt.Errorf("backend %s is not registered", kind)
	}
	listCmd := b.ListCommand()
	events.Scan.Exec(kind.String(), listCmd.Argv())

	res, err := s.exec.Run(ctx, listCmd)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			nf.Kind = kind
		} else {
			err = fmt.Errorf("check %s updates: %w", kind.Label(), err)
		}
		events.Scan.Error(kind.String(), err)
		return Empty(kind), err
	}
	if res.ExitCode != 0 {
		rerr := newReportedError(kind, res.ExitCode, res.Stderr)
		events.Scan.Error(kind.String(), rerr)
		return Empty(kind), rerr
	}

	parse := b.Parse
	if parse == nil {
		parse = NewBackend(kind, "").Parse
	}
	set := parse(res.Stdout)
	set.Kind = kind
	events.Scan.Result(kind.String(), len(set.Records))
	return set, nil
}

// ScanAll scans every backend in order. A failing backend contributes an
// empty set and its error is aggregated; the remaining backends still run.
// A non-nil each is called after every backend with its outcome.
func (s *Scanner) ScanAll(ctx context.Context, each func(Kind, UpdateSet, error)) ([]UpdateSet, error) {
	var result *multierror.Error
	sets := make([]UpdateSet, 0, len(s.order))
	for _, kind := range s.order {
		set, err := s.Scan(ctx, kind)
		if err != nil {
			result = multierror.Append(result, err)
		}
		if each != nil {
			each(kind, set, err)
		}
		sets = append(sets, set)
	}
	return sets, result.ErrorOrNil()
}
