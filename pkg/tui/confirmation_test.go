package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestConfirmation_Keys(t *testing.T) {
	tests := []struct {
		name      string
		key       tea.KeyMsg
		confirmed bool
		cancelled bool
		active    bool
	}{
		{"y confirms", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}, true, false, false},
		{"enter confirms", tea.KeyMsg{Type: tea.KeyEnter}, true, false, false},
		{"n cancels", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")}, false, true, false},
		{"esc cancels", tea.KeyMsg{Type: tea.KeyEsc}, false, true, false},
		{"other keys are swallowed", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var confirmed, cancelled bool
			m := NewConfirmation()
			m.ShowInline("Apply?", false,
				func() tea.Cmd { confirmed = true; return nil },
				func() tea.Cmd { cancelled = true; return nil },
			)

			m.Update(tt.key)

			assert.Equal(t, tt.confirmed, confirmed)
			assert.Equal(t, tt.cancelled, cancelled)
			assert.Equal(t, tt.active, m.Active())
		})
	}
}

func TestConfirmation_InactiveIgnoresKeys(t *testing.T) {
	m := NewConfirmation()
	assert.Nil(t, m.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Empty(t, m.View())
}

func TestConfirmation_DialogView(t *testing.T) {
	m := NewConfirmation()
	m.Show(ConfirmationConfig{
		Title:   "Undo",
		Message: `Undo "Extract segment 3"?`,
		Details: []string{"4 cell(s)"},
		Type:    ConfirmTypeDialog,
	}, nil, nil)

	view := m.View()
	assert.Contains(t, view, "Undo")
	assert.Contains(t, view, `"Extract segment 3"`)
	assert.Contains(t, view, "4 cell(s)")
	assert.Contains(t, view, "(yes / no)")

	m.Hide()
	assert.False(t, m.Active())
}
