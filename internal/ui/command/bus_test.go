package command

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type doneMsg struct{ value string }

type ctxKey struct{}

func TestExecuteRunsHandlerWithBusContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), ctxKey{}, "scan")
	bus := New(ctx)
	cmd := bus.Execute(Request{ID: "scan:flatpak", Label: "Flatpak", Handler: func(ctx context.Context) tea.Msg {
		return doneMsg{value: ctx.Value(ctxKey{}).(string)}
	}})
	msg, ok := cmd().(doneMsg)
	if !ok {
		t.Fatalf("expected doneMsg, got %T", msg)
	}
	if msg.value != "scan" {
		t.Fatalf("expected handler to see bus context, got %q", msg.value)
	}
}

func TestExecuteWithoutHandlerYieldsNil(t *testing.T) {
	cmd := New(nil).Execute(Request{ID: "noop"})
	if msg := cmd(); msg != nil {
		t.Fatalf("expected nil message, got %#v", msg)
	}
}
