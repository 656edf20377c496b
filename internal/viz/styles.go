package viz

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	canvas  lipgloss.Style
	running lipgloss.Style
	paused  lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	graph   lipgloss.Style
	help    lipgloss.Style
	err     lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(t.Title),
		canvas:  lipgloss.NewStyle().Foreground(t.Marble),
		running: lipgloss.NewStyle().Bold(true).Foreground(t.Running),
		paused:  lipgloss.NewStyle().Bold(true).Foreground(t.Paused),
		label:   lipgloss.NewStyle().Foreground(t.Muted),
		value:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		graph:   lipgloss.NewStyle().Foreground(t.Muted),
		help:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		err:     lipgloss.NewStyle().Bold(true).Foreground(t.Error),
	}
}
