package command

import (
	"context"
	"fmt"

	"github.com/atomicstack/update-control/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// Handler performs blocking work off the control loop and reports its outcome
// as a message.
type Handler func(ctx context.Context) tea.Msg

// Request encapsulates an action invocation.
type Request struct {
	ID      string
	Label   string
	Handler Handler
}

// Bus coordinates the execution of background actions.
type Bus struct {
	ctx context.Context
}

// New initialises a command bus whose handlers run under ctx. A nil context
// selects context.Background.
func New(ctx context.Context) *Bus {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Bus{ctx: ctx}
}

// Execute wraps a handler into a Bubble Tea command while emitting trace logs.
func (b *Bus) Execute(req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Label)
	return func() tea.Msg {
		if req.Handler == nil {
			events.Command.Skip(req.ID, req.Label)
			return nil
		}
		msg := req.Handler(b.ctx)
		if msg == nil {
			events.Command.NoOp(req.ID, req.Label)
			return nil
		}
		events.Command.Result(req.ID, req.Label, fmt.Sprintf("%T", msg))
		return msg
	}
}
