package runner

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/atomicstack/update-control/internal/logging/events"
)

const (
	eventBuffer  = 64
	maxLineBytes = 1 << 20
)

var (
	// ErrBusy is returned by Start while another invocation is running.
	ErrBusy = errors.New("another command is already running")
	// ErrRuntimeFailure marks a spawn, read or write failure.
	ErrRuntimeFailure = errors.New("command failed to run")
	// ErrNonZeroExit marks a command that ran but exited unsuccessfully.
	ErrNonZeroExit = errors.New("command exited with non-zero status")
	// ErrIncorrectPassword is reported when sudo rejected the secret.
	ErrIncorrectPassword = errors.New("incorrect password")
	// ErrNotSudoer is reported when the user may not use sudo.
	ErrNotSudoer = errors.New("user is not in the sudoers file")
)

// State is the lifecycle of the current invocation.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Invocation describes a single command run. Require lists executables that
// must resolve on PATH before anything is spawned.
type Invocation struct {
	Argv    []string
	Secret  Secret
	Require []string
}

// Runner executes one invocation at a time on a background goroutine and
// publishes its output as events.
type Runner struct {
	mu    sync.Mutex
	state State
	wg    sync.WaitGroup
}

// New returns an idle runner.
func New() *Runner {
	return &Runner{}
}

// State returns the lifecycle state of the most recent invocation.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Start launches inv. The returned channel delivers Line events in output
// order followed by exactly one terminal Progress(100) event, after which it
// is closed. Failures are reported on the channel; the only error returned
// here is ErrBusy.
func (r *Runner) Start(inv Invocation) (<-chan Event, error) {
	r.mu.Lock()
	if r.state == StateRunning {
		r.mu.Unlock()
		events.Runner.Busy(inv.Argv)
		return nil, ErrBusy
	}
	r.state = StateRunning
	r.mu.Unlock()

	events.Runner.Start(inv.Argv, inv.Secret.IsSet())
	out := make(chan Event, eventBuffer)
	r.wg.Add(1)
	go r.run(inv, out)
	return out, nil
}

// Wait blocks until the current invocation's goroutine has exited.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) run(inv Invocation, out chan<- Event) {
	defer r.wg.Done()
	defer close(out)

	res := execute(inv, func(ev Event) { out <- ev })

	final := StateCompleted
	if res.cause != nil {
		final = StateFailed
	}
	r.mu.Lock()
	r.state = final
	r.mu.Unlock()

	events.Runner.Finish(res.exitCode, res.lines, res.cause)
	out <- Event{Kind: KindProgress, Percent: 100, ExitCode: res.exitCode, Err: res.cause}
}

type result struct {
	exitCode int
	lines    int
	cause    error
}

func execute(inv Invocation, emit func(Event)) result {
	res := result{exitCode: -1}
	fail := func(stage string, err error) {
		events.Runner.Failure(stage, err)
		emit(Line(fmt.Sprintf("Error: failed to run command: %v", err)))
		if res.cause == nil {
			res.cause = fmt.Errorf("%w: %s: %v", ErrRuntimeFailure, stage, err)
		}
	}
	missing := func(bin string, err error) result {
		events.Runner.Missing(bin)
		emit(Line(fmt.Sprintf("Error: command %q was not found. Make sure it is installed.", bin)))
		res.cause = fmt.Errorf("%w: %v", ErrRuntimeFailure, err)
		return res
	}

	if len(inv.Argv) == 0 || strings.TrimSpace(inv.Argv[0]) == "" {
		fail("spawn", errors.New("empty command"))
		return res
	}
	for _, bin := range inv.Require {
		if _, err := exec.LookPath(bin); err != nil {
			return missing(bin, err)
		}
	}

	cmd := exec.Command(inv.Argv[0], inv.Argv[1:]...)
	var stdin io.WriteCloser
	var err error
	if inv.Secret.IsSet() {
		if stdin, err = cmd.StdinPipe(); err != nil {
			fail("stdin", err)
			return res
		}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		fail("stdout", err)
		return res
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		fail("stderr", err)
		return res
	}
	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return missing(inv.Argv[0], err)
		}
		fail("spawn", err)
		return res
	}

	var errBuf bytes.Buffer
	errDone := make(chan struct{})
	go func() {
		defer close(errDone)
		_, _ = io.Copy(&errBuf, stderr)
	}()

	if stdin != nil {
		if _, err := io.WriteString(stdin, inv.Secret.reveal()+"\n"); err != nil {
			fail("write", err)
		}
		if err := stdin.Close(); err != nil && res.cause == nil {
			fail("write", err)
		}
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r\n")
		if line == "" {
			continue
		}
		res.lines++
		emit(Line(line))
	}
	if err := scanner.Err(); err != nil {
		fail("read", err)
		_, _ = io.Copy(io.Discard, stdout)
	}
	<-errDone

	waitErr := cmd.Wait()
	stderrText := strings.TrimSpace(errBuf.String())
	if stderrText != "" {
		emit(Line("Error: " + stderrText))
	}
	if cmd.ProcessState != nil {
		res.exitCode = cmd.ProcessState.ExitCode()
	}
	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		fail("wait", waitErr)
	}

	if cause := classify(stderrText); cause != nil {
		res.cause = cause
	} else if res.cause == nil && res.exitCode != 0 {
		res.cause = fmt.Errorf("%w: %d", ErrNonZeroExit, res.exitCode)
	}
	return res
}

// classify recognises sudo's own failure messages.
func classify(stderr string) error {
	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "incorrect password"):
		return ErrIncorrectPassword
	case strings.Contains(lower, "is not in the sudoers file"):
		return ErrNotSudoer
	default:
		return nil
	}
}
