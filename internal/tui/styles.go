package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorMuted  = lipgloss.Color("241")
	colorSubtle = lipgloss.Color("245")
	colorError  = lipgloss.Color("196")
)

var (
	appStyle = lipgloss.NewStyle().Padding(1, 2)

	tabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(colorSubtle)

	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(1, 0)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	noticeStyle = lipgloss.NewStyle().
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)
)

func activeTabStyle(accent lipgloss.Color) lipgloss.Style {
	return tabStyle.
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(accent)
}
