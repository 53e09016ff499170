package ui

import (
	"github.com/atomicstack/update-control/internal/logging"
	"github.com/atomicstack/update-control/internal/logging/events"
	"github.com/atomicstack/update-control/internal/runner"
	tea "github.com/charmbracelet/bubbletea"
)

func waitForRunnerEvent(ch <-chan runner.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return runnerDoneMsg{}
		}
		return runnerEventMsg{event: evt}
	}
}

type runnerEventMsg struct {
	event runner.Event
}

type runnerDoneMsg struct{}

func (m *Model) handleRunnerEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(runnerEventMsg)
	if !ok {
		return nil
	}
	evt := eventMsg.event
	m.ctrl.HandleEvent(evt)
	if evt.Terminal() {
		if evt.Err != nil {
			logging.Error(evt.Err)
			events.Action.Error(evt.Err)
		} else {
			events.Action.Success(m.ctrl.Status())
		}
		if m.verbose {
			m.setInfo(m.ctrl.Status())
		}
	}
	if m.events != nil {
		return waitForRunnerEvent(m.events)
	}
	return nil
}

func (m *Model) handleRunnerDoneMsg(tea.Msg) tea.Cmd {
	m.events = nil
	return nil
}

// startUpdate hands an accepted invocation to the runner and starts draining
// its events. A refused start is fed back through the controller so the
// workflow still completes.
func (m *Model) startUpdate(inv runner.Invocation) tea.Cmd {
	ch, err := m.runner.Start(inv)
	if err != nil {
		logging.Error(err)
		m.ctrl.HandleEvent(runner.Line("Error: " + err.Error()))
		m.ctrl.HandleEvent(runner.Event{Kind: runner.KindProgress, Percent: 100, ExitCode: -1, Err: err})
		return nil
	}
	m.events = ch
	m.follow = true
	return waitForRunnerEvent(ch)
}
