package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true)

	menuStyle     = lipgloss.NewStyle().Padding(0, 1)
	menuOpenStyle = lipgloss.NewStyle().Padding(0, 1).Reverse(true)

	controlStyle  = lipgloss.NewStyle().Padding(0, 1)
	activeStyle   = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("42")).Bold(true)
	disabledStyle = lipgloss.NewStyle().Padding(0, 1).Faint(true)

	// Inverted colors for the focused control or block.
	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("255")).
			Foreground(lipgloss.Color("0"))

	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("24"))
	tagStyle      = lipgloss.NewStyle().Faint(true).Width(10)

	statusStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	formStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Bold(true).Width(8)
)
