package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pluqqy/taxo-terminal/pkg/models"
)

func renderHeader(width int, sheet, modeLabel string, mode models.Mode) string {
	logo := "▀█▀ ▄▀█ ▀▄▀ █▀█\n █  █▀█ █ █ █▄█"

	logoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)

	headerPadding := lipgloss.NewStyle().
		PaddingLeft(1).
		PaddingRight(1).
		Width(width)

	left := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(sheet),
		GetModeBadgeStyle(mode).Render(modeLabel),
	)
	logoRendered := logoStyle.Render(logo)

	contentWidth := width - 2
	gap := contentWidth - lipgloss.Width(left) - lipgloss.Width(logoRendered)
	if gap < 1 {
		gap = 1
	}

	headerContent := lipgloss.JoinHorizontal(
		lipgloss.Top,
		left,
		lipgloss.NewStyle().Width(gap).Render(""),
		logoRendered,
	)

	return headerPadding.Render(headerContent)
}
