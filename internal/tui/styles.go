package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	styleSidebar = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(lipgloss.Color("238"))

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	styleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("23"))

	styleDim = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	styleUnread = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	styleBubbleIn = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	styleBubbleOut = lipgloss.NewStyle().
			Foreground(lipgloss.Color("115"))

	styleError = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("203"))

	styleStatus = lipgloss.NewStyle().
			Foreground(lipgloss.Color("115"))

	styleRecording = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("203"))

	styleHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)
