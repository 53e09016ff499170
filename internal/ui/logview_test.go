package ui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/atomicstack/update-control/internal/controller"
	"github.com/atomicstack/update-control/internal/pkgmgr"
	"github.com/atomicstack/update-control/internal/runner"
	tea "github.com/charmbracelet/bubbletea"
)

func TestStreamedLinesAreRenderedOnce(t *testing.T) {
	m := newTestModel(t, &fakeExecutor{}, nil)
	const total = 500
	for i := 0; i < total; i++ {
		m.Update(runnerEventMsg{event: runner.Line(fmt.Sprintf("Retrieving package %d", i))})
	}
	if m.logView.renders != total {
		t.Fatalf("expected %d renders, got %d", total, m.logView.renders)
	}
	if got := m.viewport.TotalLineCount(); got != total {
		t.Fatalf("expected %d viewport lines, got %d", total, got)
	}
	if !strings.Contains(m.View(), fmt.Sprintf("Retrieving package %d", total-1)) {
		t.Fatalf("expected the newest line to be visible, view =\n%s", m.View())
	}
}

func TestLogIsRenderedAgainAfterResize(t *testing.T) {
	m := NewModel(Options{
		Controller: controller.New(controller.Config{}),
		Scanner:    pkgmgr.NewScanner(&fakeExecutor{}),
	})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	for i := 0; i < 3; i++ {
		m.Update(runnerEventMsg{event: runner.Line(fmt.Sprintf("line %d", i))})
	}
	if m.logView.renders != 3 {
		t.Fatalf("expected 3 renders, got %d", m.logView.renders)
	}

	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if m.logView.renders != 6 {
		t.Fatalf("expected every line rendered again after resize, got %d renders", m.logView.renders)
	}
}

func TestNewScanDropsRenderedLog(t *testing.T) {
	h := NewHarness(newTestModel(t, &fakeExecutor{}, nil))
	for i := 0; i < 5; i++ {
		h.Send(runnerEventMsg{event: runner.Line(fmt.Sprintf("old line %d", i))})
	}

	h.Send(keyRunes("s"))

	m := h.Model()
	if got := m.viewport.TotalLineCount(); got != len(m.Controller().Lines()) {
		t.Fatalf("expected viewport to hold only the new scan, got %d lines for %d log lines", got, len(m.Controller().Lines()))
	}
	if strings.Contains(h.View(), "old line") {
		t.Fatalf("expected previous output to be gone, view =\n%s", h.View())
	}
}

func TestFilterOnlyRendersMatchingLines(t *testing.T) {
	h := NewHarness(newTestModel(t, &fakeExecutor{}, nil))
	h.Send(runnerEventMsg{event: runner.Line("Installing firefox")})
	h.Send(runnerEventMsg{event: runner.Line("Installing calculator")})

	h.Send(keyRunes("/"))
	h.Send(keyRunes("fire"))
	h.Send(runnerEventMsg{event: runner.Line("Removing firefox cache")})

	m := h.Model()
	if got := m.viewport.TotalLineCount(); got != 2 {
		t.Fatalf("expected 2 matching lines, got %d", got)
	}
	if len(m.Controller().Lines()) != 3 {
		t.Fatalf("expected the log to keep every line, got %v", m.Controller().Lines())
	}
}
