package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmationType defines the visual style of the confirmation
type ConfirmationType int

const (
	ConfirmTypeInline ConfirmationType = iota // Single line above the status bar
	ConfirmTypeDialog                         // Bordered box with details
)

// ConfirmationConfig holds the configuration for a confirmation prompt
type ConfirmationConfig struct {
	Title       string
	Message     string
	Details     []string
	Destructive bool // Yes is rendered red
	Type        ConfirmationType
	YesLabel    string
	NoLabel     string
	Width       int
}

// ConfirmationModel handles y/n prompts
type ConfirmationModel struct {
	active    bool
	config    ConfirmationConfig
	onConfirm func() tea.Cmd
	onCancel  func() tea.Cmd
}

// NewConfirmation creates a new confirmation model
func NewConfirmation() *ConfirmationModel {
	return &ConfirmationModel{}
}

// Show activates the confirmation with the given configuration
func (m *ConfirmationModel) Show(config ConfirmationConfig, onConfirm, onCancel func() tea.Cmd) {
	m.active = true
	m.config = config
	m.onConfirm = onConfirm
	m.onCancel = onCancel

	if m.config.YesLabel == "" {
		m.config.YesLabel = "Yes"
	}
	if m.config.NoLabel == "" {
		m.config.NoLabel = "No"
	}
}

// ShowInline shows a one-line confirmation
func (m *ConfirmationModel) ShowInline(message string, destructive bool, onConfirm, onCancel func() tea.Cmd) {
	m.Show(ConfirmationConfig{
		Message:     message,
		Destructive: destructive,
		Type:        ConfirmTypeInline,
	}, onConfirm, onCancel)
}

// Hide deactivates the confirmation
func (m *ConfirmationModel) Hide() {
	m.active = false
}

// Active returns whether the confirmation is currently shown
func (m *ConfirmationModel) Active() bool {
	return m.active
}

// Update handles key events for the confirmation. Any other key is swallowed
// while the prompt is open.
func (m *ConfirmationModel) Update(msg tea.KeyMsg) tea.Cmd {
	if !m.active {
		return nil
	}

	switch msg.String() {
	case "y", "Y", "enter":
		m.active = false
		if m.onConfirm != nil {
			return m.onConfirm()
		}
	case "n", "N", "esc":
		m.active = false
		if m.onCancel != nil {
			return m.onCancel()
		}
	}

	return nil
}

// View renders the confirmation based on its type
func (m *ConfirmationModel) View() string {
	if !m.active {
		return ""
	}
	if m.config.Type == ConfirmTypeDialog {
		return m.renderDialog()
	}
	return m.renderInline()
}

func (m *ConfirmationModel) renderInline() string {
	return fmt.Sprintf("%s %s", m.config.Message, formatConfirmOptions(m.config.Destructive))
}

func (m *ConfirmationModel) renderDialog() string {
	width := m.config.Width
	if width == 0 {
		width = 60
	}

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorActive)).
		Padding(0, 1).
		Width(width)

	var b strings.Builder
	if m.config.Title != "" {
		b.WriteString(HeaderStyle.Render(m.config.Title))
		b.WriteString("\n\n")
	}
	b.WriteString(m.config.Message)
	b.WriteString("\n")
	if len(m.config.Details) > 0 {
		b.WriteString("\n")
		for _, detail := range m.config.Details {
			b.WriteString(LabelStyle.Render("  • " + detail))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(formatConfirmOptions(m.config.Destructive))
	b.WriteString(fmt.Sprintf("  (%s / %s)",
		strings.ToLower(m.config.YesLabel),
		strings.ToLower(m.config.NoLabel)))

	return borderStyle.Render(b.String())
}

func formatConfirmOptions(destructive bool) string {
	yes := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Bold(true)
	no := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDanger)).Bold(true)
	if destructive {
		yes, no = no, yes
	}
	return fmt.Sprintf("[%s/%s]", yes.Render("y"), no.Render("n"))
}
