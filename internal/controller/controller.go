package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/atomicstack/update-control/internal/logging/events"
	"github.com/atomicstack/update-control/internal/pkgmgr"
	"github.com/atomicstack/update-control/internal/runner"
	"github.com/atomicstack/update-control/internal/state"
)

// State is the phase of the update workflow.
type State int

const (
	StateIdle State = iota
	StateScanning
	StateScanned
	StateConfirmingCredential
	StateUpdating
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateScanned:
		return "scanned"
	case StateConfirmingCredential:
		return "confirming-credential"
	case StateUpdating:
		return "updating"
	default:
		return "unknown"
	}
}

var (
	// ErrCredentialRejected aborts an update whose credential prompt was
	// cancelled or left empty. Nothing is spawned.
	ErrCredentialRejected = errors.New("root password is required")
	// ErrPromptCancelled is returned by a Prompter when the user backs out.
	ErrPromptCancelled = errors.New("prompt cancelled")
	// ErrInvalidTransition reports an operation not allowed in the current state.
	ErrInvalidTransition = errors.New("operation not allowed in current state")
	// ErrUpdateUnavailable reports an update request for a backend whose
	// action is disabled.
	ErrUpdateUnavailable = errors.New("no updates available for backend")
)

// DefaultElevate runs the command as root, reading the password from stdin
// without printing a prompt.
var DefaultElevate = []string{"sudo", "-S", "-p", ""}

// Prompter asks the user for a credential. Implementations return
// ErrPromptCancelled when the user declines.
type Prompter interface {
	Prompt(ctx context.Context, label string) (runner.Secret, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, label string) (runner.Secret, error)

func (f PrompterFunc) Prompt(ctx context.Context, label string) (runner.Secret, error) {
	return f(ctx, label)
}

// Notice is a blocking message the front-end must show and the user must
// dismiss.
type Notice struct {
	Title   string
	Text    string
	Warning bool
}

// Config describes the backends under control and how updates are elevated.
type Config struct {
	Backends []pkgmgr.Backend
	Elevate  []string
}

// Controller owns the display log, the action triggers and the workflow
// state. It is not safe for concurrent use; front-ends call it from their
// single control loop.
type Controller struct {
	state     State
	resume    State
	log       state.DisplayLog
	triggers  state.Triggers
	backends  map[pkgmgr.Kind]pkgmgr.Backend
	order     []pkgmgr.Kind
	available map[pkgmgr.Kind]bool
	elevate   []string

	scanQueue []pkgmgr.Kind
	scanIndex int
	pending   pkgmgr.Kind
	notices   []Notice
	status    string
	progress  int
	lastErr   error
}

// New builds an idle controller. Empty Backends selects pkgmgr.DefaultBackends
// and a nil Elevate selects DefaultElevate.
func New(cfg Config) *Controller {
	backends := cfg.Backends
	if len(backends) == 0 {
		backends = pkgmgr.DefaultBackends()
	}
	elevate := cfg.Elevate
	if elevate == nil {
		elevate = DefaultElevate
	}
	c := &Controller{
		state:     StateIdle,
		log:       state.NewDisplayLog(),
		triggers:  state.NewTriggers(),
		backends:  make(map[pkgmgr.Kind]pkgmgr.Backend, len(backends)),
		available: map[pkgmgr.Kind]bool{},
		elevate:   append([]string(nil), elevate...),
		status:    "Ready.",
	}
	for _, b := range backends {
		if _, dup := c.backends[b.Kind]; !dup {
			c.order = append(c.order, b.Kind)
		}
		c.backends[b.Kind] = b
	}
	return c
}

func (c *Controller) State() State          { return c.state }
func (c *Controller) Status() string        { return c.status }
func (c *Controller) Progress() int         { return c.progress }
func (c *Controller) Lines() []string       { return c.log.Lines() }
func (c *Controller) Log() state.DisplayLog { return c.log }
func (c *Controller) Kinds() []pkgmgr.Kind  { return append([]pkgmgr.Kind(nil), c.order...) }
func (c *Controller) Pending() pkgmgr.Kind  { return c.pending }

// LastError is the failure cause reported by the most recent update, if any.
func (c *Controller) LastError() error { return c.lastErr }

// ScanEnabled reports whether a new scan may be started.
func (c *Controller) ScanEnabled() bool { return c.triggers.ScanEnabled() }

// UpdateEnabled reports whether the update action for kind is enabled.
func (c *Controller) UpdateEnabled(kind pkgmgr.Kind) bool { return c.triggers.UpdateEnabled(kind) }

// Available reports whether the last scan found updates for kind.
func (c *Controller) Available(kind pkgmgr.Kind) bool { return c.available[kind] }

// Notices returns the queued notices without removing them.
func (c *Controller) Notices() []Notice {
	return append([]Notice(nil), c.notices...)
}

// PopNotice removes and returns the oldest queued notice.
func (c *Controller) PopNotice() (Notice, bool) {
	if len(c.notices) == 0 {
		return Notice{}, false
	}
	n := c.notices[0]
	c.notices = c.notices[1:]
	return n, true
}

// BeginScan starts a new scan section: the display log is cleared, every
// trigger is disabled and the backends to scan are returned in order.
func (c *Controller) BeginScan() ([]pkgmgr.Kind, error) {
	if c.state != StateIdle && c.state != StateScanned {
		events.Controller.Rejected("scan", c.state.String())
		return nil, fmt.Errorf("scan: %w (%s)", ErrInvalidTransition, c.state)
	}
	c.log.Reset()
	c.triggers.SetScanEnabled(false)
	c.triggers.DisableUpdates()
	for kind := range c.available {
		delete(c.available, kind)
	}
	c.scanQueue = append([]pkgmgr.Kind(nil), c.order...)
	c.scanIndex = 0
	c.progress = 0
	c.lastErr = nil
	c.setState(StateScanning)

	names := make([]string, 0, len(c.scanQueue))
	for _, kind := range c.scanQueue {
		names = append(names, kind.String())
	}
	events.Scan.Begin(names)
	return append([]pkgmgr.Kind(nil), c.scanQueue...), nil
}

// NextScan advances to the next backend of the current scan, updating the
// status label and progress. It returns false once every backend is done.
func (c *Controller) NextScan() (pkgmgr.Kind, bool) {
	if c.state != StateScanning || c.scanIndex >= len(c.scanQueue) {
		return 0, false
	}
	kind := c.scanQueue[c.scanIndex]
	c.scanIndex++
	c.progress = c.scanIndex * 50 / len(c.scanQueue)
	c.status = fmt.Sprintf("Checking %s updates...", kind.Label())
	return kind, true
}

// RecordScan appends the outcome of one backend scan to the display log. A
// scan error queues a blocking notice and the backend is shown as having no
// updates.
func (c *Controller) RecordScan(kind pkgmgr.Kind, set pkgmgr.UpdateSet, err error) {
	if c.state != StateScanning {
		events.Controller.Rejected("record-scan", c.state.String())
		return
	}
	if err != nil {
		c.queueNotice(scanNotice(kind, err))
		set = pkgmgr.Empty(kind)
	}
	if set.HasUpdates {
		if c.log.Len() > 0 {
			c.log.Append("")
		}
		c.log.Append(fmt.Sprintf("%s updates:", kind.Label()))
		c.log.Append(set.Lines...)
		c.available[kind] = true
		return
	}
	c.log.Append(fmt.Sprintf("No %s updates found.", kind.Label()))
	c.available[kind] = false
}

// FinishScan completes the scan: scanning is re-enabled and each update
// action is enabled exactly when its backend reported updates.
func (c *Controller) FinishScan() {
	if c.state != StateScanning {
		events.Controller.Rejected("finish-scan", c.state.String())
		return
	}
	c.scanQueue = nil
	c.scanIndex = 0
	c.progress = 100
	c.status = "Update check complete."
	c.setState(StateScanned)
	c.restoreTriggers()

	var names []string
	for _, kind := range c.triggers.EnabledUpdates() {
		names = append(names, kind.String())
	}
	events.Scan.Finish(names)
}

// RequestUpdate asks for confirmation of an update of kind. The front-end
// must follow up with SubmitCredential or CancelCredential.
func (c *Controller) RequestUpdate(kind pkgmgr.Kind) error {
	if c.state != StateScanned && c.state != StateIdle {
		events.Controller.Rejected("update", c.state.String())
		return fmt.Errorf("update %s: %w (%s)", kind, ErrInvalidTransition, c.state)
	}
	if !c.triggers.UpdateEnabled(kind) {
		events.Controller.Rejected("update", c.state.String())
		return fmt.Errorf("update %s: %w", kind, ErrUpdateUnavailable)
	}
	c.resume = c.state
	c.pending = kind
	c.setState(StateConfirmingCredential)
	events.Controller.CredentialRequested(kind.String())
	return nil
}

// SubmitCredential accepts the credential for the pending update and returns
// the invocation to run. An empty secret is rejected exactly like a
// cancellation.
func (c *Controller) SubmitCredential(secret runner.Secret) (runner.Invocation, error) {
	if c.state != StateConfirmingCredential {
		events.Controller.Rejected("submit-credential", c.state.String())
		return runner.Invocation{}, fmt.Errorf("submit credential: %w (%s)", ErrInvalidTransition, c.state)
	}
	if !secret.IsSet() {
		return runner.Invocation{}, c.reject(events.CredentialReasonEmpty)
	}
	kind := c.pending
	backend := c.backends[kind]

	c.triggers.SetScanEnabled(false)
	c.triggers.DisableUpdates()
	c.progress = 0
	c.lastErr = nil
	c.status = fmt.Sprintf("Updating %s...", kind.Label())
	c.setState(StateUpdating)
	events.Controller.CredentialAccepted(kind.String())

	argv := append(append([]string(nil), c.elevate...), backend.UpdateArgv()...)
	var require []string
	if len(c.elevate) > 0 {
		require = append(require, c.elevate[0])
	}
	require = append(require, backend.Binary)
	return runner.Invocation{Argv: argv, Secret: secret, Require: require}, nil
}

// CancelCredential aborts the pending update without spawning anything.
func (c *Controller) CancelCredential() error {
	if c.state != StateConfirmingCredential {
		events.Controller.Rejected("cancel-credential", c.state.String())
		return fmt.Errorf("cancel credential: %w (%s)", ErrInvalidTransition, c.state)
	}
	return c.reject(events.CredentialReasonCancel)
}

// HandleEvent applies one runner event. Lines are appended verbatim; the
// terminal progress event ends the update and restores the triggers from
// the last scan's results.
func (c *Controller) HandleEvent(ev runner.Event) {
	switch ev.Kind {
	case runner.KindLine:
		c.log.Append(ev.Text)
	case runner.KindProgress:
		c.progress = ev.Percent
		if !ev.Terminal() || c.state != StateUpdating {
			return
		}
		label := c.pending.Label()
		c.lastErr = ev.Err
		c.status = completionStatus(label, ev.Err)
		c.setState(StateIdle)
		c.restoreTriggers()
	}
}

// Confirm runs RequestUpdate, the prompt and SubmitCredential in one step
// for front-ends with a blocking prompt.
func (c *Controller) Confirm(ctx context.Context, kind pkgmgr.Kind, prompter Prompter) (runner.Invocation, error) {
	if err := c.RequestUpdate(kind); err != nil {
		return runner.Invocation{}, err
	}
	secret, err := prompter.Prompt(ctx, kind.Label())
	if err != nil {
		rejected := c.reject(events.CredentialReasonCancel)
		if errors.Is(err, ErrPromptCancelled) {
			return runner.Invocation{}, rejected
		}
		return runner.Invocation{}, fmt.Errorf("%w: %w", rejected, err)
	}
	return c.SubmitCredential(secret)
}

func (c *Controller) reject(reason events.CredentialReason) error {
	kind := c.pending
	events.Controller.CredentialRejected(kind.String(), reason)
	c.queueNotice(Notice{Title: "Error", Text: "Root password is required.", Warning: true})
	c.setState(c.resume)
	return ErrCredentialRejected
}

func (c *Controller) restoreTriggers() {
	c.triggers.SetScanEnabled(true)
	for _, kind := range c.order {
		c.triggers.SetUpdateEnabled(kind, c.available[kind])
	}
}

func (c *Controller) queueNotice(n Notice) {
	events.Controller.Notice(n.Title, n.Text)
	c.notices = append(c.notices, n)
}

func (c *Controller) setState(next State) {
	if c.state == next {
		return
	}
	events.Controller.Transition(c.state.String(), next.String())
	c.state = next
}
