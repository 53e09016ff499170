package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Header          *lipgloss.Style
	Status          *lipgloss.Style
	Log             *lipgloss.Style
	LogSection      *lipgloss.Style
	LogError        *lipgloss.Style
	Error           *lipgloss.Style
	Info            *lipgloss.Style
	Footer          *lipgloss.Style
	TriggerEnabled  *lipgloss.Style
	TriggerDisabled *lipgloss.Style
	NoticeTitle     *lipgloss.Style
	NoticeWarning   *lipgloss.Style
	NoticeBody      *lipgloss.Style
	NoticeBox       *lipgloss.Style
	Filter          *lipgloss.Style
	FilterPrompt    *lipgloss.Style
	FormTitle       *lipgloss.Style
}

var defaultStyles = Styles{
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Status: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Italic(true),
	),
	Log: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	LogSection: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
	),
	LogError: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	TriggerEnabled: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true).Padding(0, 1),
	),
	TriggerDisabled: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 1),
	),
	NoticeTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	NoticeWarning: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	),
	NoticeBody: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	NoticeBox: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1),
	),
	Filter: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	FilterPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	FormTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
