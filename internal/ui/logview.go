package ui

import (
	"strings"

	"github.com/atomicstack/update-control/internal/state"
	"github.com/charmbracelet/lipgloss"
)

// logView holds the rendered display log. Lines are rendered once when they
// are appended; the whole log is rendered again only after a reset, a width
// change or a new filter query.
type logView struct {
	ready      bool
	generation uint64
	width      int
	query      string
	consumed   int
	rows       int
	content    strings.Builder
	renders    int
}

func (v *logView) stale(log state.DisplayLog, width int, query string) bool {
	return !v.ready ||
		v.generation != log.Generation() ||
		v.width != width ||
		v.query != query ||
		v.consumed > log.Len()
}

func (v *logView) reset(log state.DisplayLog, width int, query string) {
	v.ready = true
	v.generation = log.Generation()
	v.width = width
	v.query = query
	v.consumed = 0
	v.rows = 0
	v.content.Reset()
}

func (v *logView) add(rendered string) {
	if v.rows > 0 {
		v.content.WriteByte('\n')
	}
	v.content.WriteString(rendered)
	v.rows++
	v.renders++
}

// refreshLog brings the viewport up to date with the display log, rendering
// only the lines appended since the last call.
func (m *Model) refreshLog() {
	log := m.ctrl.Log()
	view := &m.logView
	changed := false
	if view.stale(log, m.width, m.filterQuery) {
		view.reset(log, m.width, m.filterQuery)
		changed = true
	}
	for _, line := range log.Since(view.consumed) {
		view.consumed++
		changed = true
		if state.Matches(view.query, line) {
			view.add(m.renderLogLine(line))
		}
	}
	if changed {
		m.viewport.SetContent(view.content.String())
		if m.height <= 0 {
			m.viewport.Height = m.logHeight()
		}
	}
	if m.follow {
		m.viewport.GotoBottom()
	}
}

// renderLogLine styles a log line and soft-wraps it to the window width so
// wide package rows stay readable.
func (m *Model) renderLogLine(line string) string {
	style := styles.Log
	switch {
	case strings.HasPrefix(line, "Error:"):
		style = styles.LogError
	case strings.HasSuffix(line, " updates:"):
		style = styles.LogSection
	}
	if m.width <= 0 {
		return render(line, style)
	}
	base := lipgloss.NewStyle()
	if style != nil {
		base = *style
	}
	return base.Width(m.width).Render(line)
}
