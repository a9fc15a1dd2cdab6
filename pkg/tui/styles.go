package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pluqqy/taxo-terminal/pkg/models"
)

// ANSI 256 palette
const (
	ColorActive   = "170" // magenta: focused pane, cursor
	ColorInactive = "240"
	ColorSelected = "236" // selection background
	ColorNormal   = "245"
	ColorDim      = "241"
	ColorVeryDim  = "242"
	ColorWarning  = "214"
	ColorDanger   = "196"
	ColorSuccess  = "28"
	ColorWhite    = "255"
	ColorDark     = "235"
	ColorPrimary  = "33"
	ColorInfo     = "62"
)

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func bordered(color string) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(color))
}

var (
	ActiveBorderStyle   = bordered(ColorActive)
	InactiveBorderStyle = bordered(ColorInactive)
	InputStyle          = bordered(ColorActive).Padding(0, 1)
	ContentPaddingStyle = lipgloss.NewStyle().Padding(0, 1)

	// Grid cells
	NormalStyle     = fg(ColorNormal)
	SelectedStyle   = fg(ColorActive).Background(lipgloss.Color(ColorSelected))
	CursorStyle     = fg(ColorWhite).Background(lipgloss.Color(ColorActive)).Bold(true)
	GridHeaderStyle = fg(ColorDim).Bold(true)

	HeaderStyle = fg(ColorWarning).Bold(true)
	LabelStyle  = fg(ColorDim)
	HelpStyle   = fg(ColorDim)
	EmptyStyle  = fg(ColorVeryDim).Italic(true)

	// Unified diff lines
	DiffAddStyle    = fg(ColorSuccess)
	DiffRemoveStyle = fg(ColorDanger)
	DiffHunkStyle   = fg(ColorPrimary)
)

func badge(bg, text string) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color(text)).
		Padding(0, 1)
}

// GetModeBadgeStyle colors the header badge: blue for taxonomy, amber for targeting
func GetModeBadgeStyle(mode models.Mode) lipgloss.Style {
	if mode == models.ModeTargeting {
		return badge(ColorWarning, ColorDark).Bold(true)
	}
	return badge(ColorPrimary, ColorDark).Bold(true)
}

// GetStatusStyle colors the status bar by message type
func GetStatusStyle(statusType StatusType) lipgloss.Style {
	switch statusType {
	case StatusTypeSuccess:
		return badge(ColorSuccess, ColorWhite)
	case StatusTypeWarning:
		return badge(ColorWarning, ColorWhite)
	case StatusTypeError:
		return badge(ColorDanger, ColorWhite)
	default:
		return badge(ColorInfo, ColorWhite)
	}
}
