package ui

import (
	"fmt"

	"github.com/atomicstack/update-control/internal/logging/events"
	"github.com/atomicstack/update-control/internal/pkgmgr"
	"github.com/atomicstack/update-control/internal/runner"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// CredentialForm collects the root password for one update. The value is
// masked on screen and handed over as a runner.Secret.
type CredentialForm struct {
	input textinput.Model
	kind  pkgmgr.Kind
	title string
	help  string
}

func NewCredentialForm(kind pkgmgr.Kind) *CredentialForm {
	ti := textinput.New()
	ti.Placeholder = "root password"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 256
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()
	return &CredentialForm{
		input: ti,
		kind:  kind,
		title: fmt.Sprintf("Update %s", kind.Label()),
		help:  "Enter the root password. Press Enter to update. Esc to cancel.",
	}
}

func (f *CredentialForm) Kind() pkgmgr.Kind     { return f.kind }
func (f *CredentialForm) Secret() runner.Secret { return runner.NewSecret(f.input.Value()) }
func (f *CredentialForm) InputView() string     { return f.input.View() }
func (f *CredentialForm) Title() string         { return f.title }
func (f *CredentialForm) Help() string          { return f.help }

// Update returns the input command plus whether the form was submitted or
// cancelled.
func (f *CredentialForm) Update(msg tea.Msg) (tea.Cmd, bool, bool) {
	if m, ok := msg.(tea.KeyMsg); ok {
		switch m.String() {
		case "ctrl+u":
			f.input.SetValue("")
			f.input.CursorStart()
			return nil, false, false
		}
		switch m.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			return nil, false, true
		case tea.KeyEnter:
			return nil, true, false
		}
	}
	updated, cmd := f.input.Update(msg)
	f.input = updated
	return cmd, false, false
}

func (m *Model) startCredentialForm(kind pkgmgr.Kind) {
	m.credential = NewCredentialForm(kind)
	m.mode = ModeCredential
}

func (m *Model) handleCredentialForm(msg tea.Msg) (bool, tea.Cmd) {
	if m.credential == nil {
		m.mode = ModeLog
		return false, nil
	}
	cmd, done, cancel := m.credential.Update(msg)
	if cancel {
		m.credential = nil
		m.mode = ModeLog
		if err := m.ctrl.CancelCredential(); err != nil {
			m.errMsg = err.Error()
		}
		return true, nil
	}
	if done {
		secret := m.credential.Secret()
		m.credential = nil
		m.mode = ModeLog
		inv, err := m.ctrl.SubmitCredential(secret)
		if err != nil {
			events.Action.Error(err)
			return true, nil
		}
		return true, m.startUpdate(inv)
	}
	return true, cmd
}

func newFilterInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter log"
	ti.CharLimit = 128
	ti.Cursor.SetMode(cursor.CursorStatic)
	if styles.FilterPrompt != nil {
		ti.PromptStyle = *styles.FilterPrompt
	}
	if styles.Filter != nil {
		ti.TextStyle = *styles.Filter
	}
	return ti
}

func (m *Model) openFilter() tea.Cmd {
	m.mode = ModeFilter
	m.filter.SetValue(m.filterQuery)
	m.filter.CursorEnd()
	return m.filter.Focus()
}

func (m *Model) clearFilter() {
	if m.filterQuery == "" && m.filter.Value() == "" {
		return
	}
	m.filterQuery = ""
	m.filter.SetValue("")
	m.follow = true
	events.Filter.Cleared()
}

func (m *Model) handleFilterInput(msg tea.Msg) (bool, tea.Cmd) {
	keyMsg, _ := msg.(tea.KeyMsg)
	switch keyMsg.Type {
	case tea.KeyEsc:
		m.filter.Blur()
		m.clearFilter()
		m.mode = ModeLog
		return true, nil
	case tea.KeyEnter:
		m.filter.Blur()
		m.mode = ModeLog
		return true, nil
	case tea.KeyCtrlC:
		return true, tea.Quit
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if query := m.filter.Value(); query != m.filterQuery {
		m.filterQuery = query
		if query == "" {
			events.Filter.Cleared()
		} else {
			events.Filter.Apply(query, len(m.ctrl.Log().Filter(query)))
		}
		m.follow = true
	}
	return true, cmd
}

func (m *Model) handleNoticeKey(msg tea.Msg) (bool, tea.Cmd) {
	keyMsg, _ := msg.(tea.KeyMsg)
	switch keyMsg.Type {
	case tea.KeyEnter, tea.KeyEsc, tea.KeySpace:
		if m.notice != nil {
			events.UI.NoticeDismissed(m.notice.Title)
		}
		m.notice = nil
		m.mode = ModeLog
		return true, nil
	case tea.KeyCtrlC:
		return true, tea.Quit
	}
	return true, nil
}

// showNextNotice opens the oldest queued notice when the log has focus.
func (m *Model) showNextNotice() {
	if m.mode != ModeLog || m.notice != nil {
		return
	}
	notice, ok := m.ctrl.PopNotice()
	if !ok {
		return
	}
	m.notice = &notice
	m.mode = ModeNotice
}
