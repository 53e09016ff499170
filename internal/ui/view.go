package ui

import (
	"strings"

	"github.com/atomicstack/update-control/internal/controller"
	"github.com/atomicstack/update-control/internal/logging/events"
	"github.com/atomicstack/update-control/internal/pkgmgr"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// chromeRows counts the lines View draws around the log: title, status,
// progress bar, two blank separators, triggers, bottom bar and help.
const chromeRows = 8

// View renders the current UI state.
func (m *Model) View() string {
	sections := []string{
		m.renderLine(appTitle, styles.Header),
		m.renderLine(m.ctrl.Status(), styles.Status),
		m.progress.ViewAs(float64(m.ctrl.Progress()) / 100),
		"",
		m.viewBody(),
		"",
		m.viewTriggers(),
		m.viewBottomBar(),
		m.renderLine(m.help.ShortHelpView(m.keys.ShortHelp()), nil),
	}
	return strings.Join(sections, "\n")
}

func (m *Model) viewBody() string {
	switch m.mode {
	case ModeCredential:
		if m.credential != nil {
			return m.viewCredentialForm()
		}
	case ModeNotice:
		if m.notice != nil {
			return m.viewNotice(*m.notice)
		}
	}
	return m.viewport.View()
}

func (m *Model) viewCredentialForm() string {
	lines := []string{
		m.renderLine(m.credential.Title(), styles.FormTitle),
		"",
		m.credential.InputView(),
		"",
		m.renderLine(m.credential.Help(), styles.Info),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewNotice(n controller.Notice) string {
	titleStyle := styles.NoticeTitle
	if n.Warning {
		titleStyle = styles.NoticeWarning
	}
	body := []string{render(n.Title, titleStyle), ""}
	for _, line := range strings.Split(n.Text, "\n") {
		body = append(body, render(truncateText(line, m.noticeWidth()), styles.NoticeBody))
	}
	body = append(body, "", render("Press Enter to dismiss.", styles.Footer))
	content := strings.Join(body, "\n")
	if styles.NoticeBox != nil {
		return styles.NoticeBox.Render(content)
	}
	return content
}

func (m *Model) noticeWidth() int {
	if m.width <= 0 {
		return 0
	}
	// border plus horizontal padding
	if w := m.width - 4; w > 0 {
		return w
	}
	return 1
}

func (m *Model) viewTriggers() string {
	parts := []string{m.trigger("s", "Check for updates", m.ctrl.ScanEnabled())}
	keys := map[pkgmgr.Kind]string{pkgmgr.KindFlatpak: "f", pkgmgr.KindZypper: "z"}
	for _, kind := range m.ctrl.Kinds() {
		hotkey, ok := keys[kind]
		if !ok {
			continue
		}
		parts = append(parts, m.trigger(hotkey, "Update "+kind.Label(), m.ctrl.UpdateEnabled(kind)))
	}
	return strings.Join(parts, " ")
}

func (m *Model) trigger(hotkey, label string, enabled bool) string {
	text := "[" + hotkey + "] " + label
	if enabled {
		return render(text, styles.TriggerEnabled)
	}
	return render(text, styles.TriggerDisabled)
}

func (m *Model) viewBottomBar() string {
	if m.mode == ModeFilter {
		return m.filter.View()
	}
	if m.errMsg != "" {
		return m.renderLine(m.errMsg, styles.Error)
	}
	if info := m.currentInfo(); info != "" {
		return m.renderLine(info, styles.Info)
	}
	if m.filterQuery != "" {
		return m.renderLine("filter: "+m.filterQuery, styles.Filter)
	}
	return ""
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	events.UI.Resize(resize.Width, resize.Height)
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.layout()
	return nil
}

// layout sizes the viewport and progress bar to the current window.
func (m *Model) layout() {
	if m.width > 0 {
		m.viewport.Width = m.width
		m.help.Width = m.width
		width := m.width
		if width > maxProgressWidth {
			width = maxProgressWidth
		}
		m.progress.Width = width
	}
	m.viewport.Height = m.logHeight()
}

func (m *Model) logHeight() int {
	if m.height <= 0 {
		if n := m.viewport.TotalLineCount(); n > 0 {
			return n
		}
		return 1
	}
	if remain := m.height - chromeRows; remain > 0 {
		return remain
	}
	return 1
}

func (m *Model) renderLine(text string, style *lipgloss.Style) string {
	return render(truncateText(text, m.width), style)
}

func render(text string, style *lipgloss.Style) string {
	if style == nil {
		return text
	}
	return style.Render(text)
}

func truncateText(text string, width int) string {
	if width <= 0 || lipgloss.Width(text) <= width {
		return text
	}
	if width == 1 {
		return truncate.String(text, 1)
	}
	return truncate.StringWithTail(text, uint(width), "…")
}
