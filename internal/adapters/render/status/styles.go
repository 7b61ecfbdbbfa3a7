package status

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	heading  lipgloss.Style
	name     lipgloss.Style
	position lipgloss.Style
	session  lipgloss.Style
	active   lipgloss.Style
	complete lipgloss.Style
	meta     lipgloss.Style
	warning  lipgloss.Style
	section  lipgloss.Style
	empty    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		heading:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250")),
		name:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		position: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		session:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		active:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("114")),
		complete: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		meta:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		warning:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:  lipgloss.NewStyle().MarginTop(1),
		empty:    lipgloss.NewStyle().Faint(true),
	}
}
