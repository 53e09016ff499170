package ui

import (
	"github.com/atomicstack/update-control/internal/controller"
	"github.com/atomicstack/update-control/internal/logging/events"
	"github.com/atomicstack/update-control/internal/pkgmgr"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Scan          key.Binding
	UpdateFlatpak key.Binding
	UpdateZypper  key.Binding
	Filter        key.Binding
	ClearFilter   key.Binding
	Up            key.Binding
	Down          key.Binding
	PageUp        key.Binding
	PageDown      key.Binding
	Top           key.Binding
	Bottom        key.Binding
	Quit          key.Binding
	ForceQuit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Scan:          key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "check updates")),
		UpdateFlatpak: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "update Flatpak")),
		UpdateZypper:  key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "update openSUSE")),
		Filter:        key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		ClearFilter:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear filter")),
		Up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:        key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown:      key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Top:           key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:        key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Quit:          key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:     key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// ShortHelp feeds the help footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Scan, k.UpdateFlatpak, k.UpdateZypper, k.Filter, k.Quit}
}

// applyViewport replaces the viewport's default bindings, which would
// otherwise claim the update keys.
func (k keyMap) applyViewport(vp *viewport.Model) {
	vp.KeyMap.Up = k.Up
	vp.KeyMap.Down = k.Down
	vp.KeyMap.PageUp = k.PageUp
	vp.KeyMap.PageDown = k.PageDown
	vp.KeyMap.HalfPageUp = key.NewBinding(key.WithKeys("ctrl+u"))
	vp.KeyMap.HalfPageDown = key.NewBinding(key.WithKeys("ctrl+d"))
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	events.UI.Key(m.mode.String(), keyMsg.String())
	switch {
	case key.Matches(keyMsg, m.keys.ForceQuit):
		return tea.Quit
	case key.Matches(keyMsg, m.keys.Quit):
		if m.ctrl.State() == controller.StateUpdating {
			m.setInfo("An update is running. Wait for it to finish before quitting.")
			return nil
		}
		return tea.Quit
	case key.Matches(keyMsg, m.keys.Scan):
		m.errMsg = ""
		return requestScan
	case key.Matches(keyMsg, m.keys.UpdateFlatpak):
		return m.requestUpdate(pkgmgr.KindFlatpak)
	case key.Matches(keyMsg, m.keys.UpdateZypper):
		return m.requestUpdate(pkgmgr.KindZypper)
	case key.Matches(keyMsg, m.keys.Filter):
		return m.openFilter()
	case key.Matches(keyMsg, m.keys.ClearFilter):
		m.clearFilter()
		return nil
	case key.Matches(keyMsg, m.keys.Top):
		m.viewport.GotoTop()
		m.follow = m.viewport.AtBottom()
		return nil
	case key.Matches(keyMsg, m.keys.Bottom):
		m.viewport.GotoBottom()
		m.follow = true
		return nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(keyMsg)
	m.follow = m.viewport.AtBottom()
	return cmd
}
