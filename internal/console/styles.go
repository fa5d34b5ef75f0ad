package console

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

	facetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	statusStyles = map[string]lipgloss.Style{
		"breaking": lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		"live":     lipgloss.NewStyle().Foreground(lipgloss.Color("202")),
		"headline": lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		"topstory": lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	}
)
