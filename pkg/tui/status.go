package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pluqqy/taxo-terminal/pkg/mutators"
)

// StatusType classifies a status bar message
type StatusType int

const (
	StatusTypeSuccess StatusType = iota
	StatusTypeWarning
	StatusTypeError
	StatusTypeInfo
)

// Icon is the glyph shown before a message of this type
func (t StatusType) Icon() string {
	switch t {
	case StatusTypeSuccess:
		return "✓"
	case StatusTypeWarning:
		return "⚠"
	case StatusTypeError:
		return "×"
	default:
		return "ℹ"
	}
}

type statusLine struct {
	text  string
	kind  StatusType
	until time.Time
}

// StatusManager holds the transient status message and an optional sticky one
// shown when nothing transient is active.
type StatusManager struct {
	TTL time.Duration

	current *statusLine
	sticky  *statusLine
	now     func() time.Time
}

// NewStatusManager creates a manager whose messages last three seconds
func NewStatusManager() *StatusManager {
	return &StatusManager{TTL: 3 * time.Second, now: time.Now}
}

// Show replaces the transient message and schedules a ClearStatusMsg
func (sm *StatusManager) Show(kind StatusType, text string) tea.Cmd {
	sm.current = &statusLine{text: text, kind: kind, until: sm.now().Add(sm.TTL)}
	return tea.Tick(sm.TTL, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

func (sm *StatusManager) ShowSuccess(text string) tea.Cmd {
	return sm.Show(StatusTypeSuccess, text)
}

func (sm *StatusManager) ShowWarning(text string) tea.Cmd {
	return sm.Show(StatusTypeWarning, text)
}

func (sm *StatusManager) ShowError(text string) tea.Cmd {
	return sm.Show(StatusTypeError, text)
}

func (sm *StatusManager) ShowInfo(text string) tea.Cmd {
	return sm.Show(StatusTypeInfo, text)
}

// ShowResult picks the message type for a mutation or undo result. A partial
// undo succeeded but still warns; an empty undo is informational.
func (sm *StatusManager) ShowResult(res mutators.Result) tea.Cmd {
	switch {
	case res.Success && res.Error != nil:
		return sm.ShowWarning(res.Message)
	case res.Success:
		return sm.ShowSuccess(res.Message)
	case res.Blocked:
		return sm.ShowWarning(res.Message)
	case res.Error == nil:
		return sm.ShowInfo(res.Message)
	default:
		return sm.ShowError(res.Message)
	}
}

// SetSticky sets a message that stays until ClearSticky
func (sm *StatusManager) SetSticky(kind StatusType, text string) {
	sm.sticky = &statusLine{text: text, kind: kind}
}

func (sm *StatusManager) ClearSticky() {
	sm.sticky = nil
}

// Clear drops the transient message
func (sm *StatusManager) Clear() {
	sm.current = nil
}

// IsActive reports whether a transient message is still within its TTL
func (sm *StatusManager) IsActive() bool {
	if sm.current == nil {
		return false
	}
	if sm.now().After(sm.current.until) {
		sm.current = nil
		return false
	}
	return true
}

func (sm *StatusManager) visible() *statusLine {
	if sm.IsActive() {
		return sm.current
	}
	return sm.sticky
}

// Text returns the visible message with its icon
func (sm *StatusManager) Text() (string, bool) {
	line := sm.visible()
	if line == nil {
		return "", false
	}
	return line.kind.Icon() + " " + line.text, true
}

// Type returns the type of the visible message, Info when there is none
func (sm *StatusManager) Type() StatusType {
	if line := sm.visible(); line != nil {
		return line.kind
	}
	return StatusTypeInfo
}

// ClearStatusMsg is sent when a transient message expires
type ClearStatusMsg struct{}
