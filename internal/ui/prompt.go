package ui

import (
	"github.com/atomicstack/update-control/internal/logging/events"
	"github.com/atomicstack/update-control/internal/pkgmgr"
	tea "github.com/charmbracelet/bubbletea"
)

type promptResult struct {
	Cmd  tea.Cmd
	Info string
	Err  error
}

// withPrompt centralises the common prompt flow: reset transient state and
// execute the provided action. The action can return a promptResult to
// control follow-up behaviour (command to run, informational message, or
// error).
func (m *Model) withPrompt(action func() promptResult) tea.Cmd {
	m.forceClearInfo()
	m.errMsg = ""
	if action == nil {
		return nil
	}
	result := action()
	if result.Err != nil {
		m.errMsg = result.Err.Error()
		events.Action.Error(result.Err)
		return nil
	}
	if result.Info != "" && m.verbose {
		m.setInfo(result.Info)
	}
	return result.Cmd
}

// requestUpdate asks the controller to confirm an update of kind and opens
// the credential form when it agrees.
func (m *Model) requestUpdate(kind pkgmgr.Kind) tea.Cmd {
	return m.withPrompt(func() promptResult {
		if err := m.ctrl.RequestUpdate(kind); err != nil {
			return promptResult{Err: err}
		}
		m.startCredentialForm(kind)
		return promptResult{Info: "Waiting for the root password."}
	})
}
