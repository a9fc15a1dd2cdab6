package tui

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluqqy/taxo-terminal/pkg/mutators"
)

func TestStatusManager_Expiry(t *testing.T) {
	clock := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	sm := NewStatusManager()
	sm.now = func() time.Time { return clock }

	assert.False(t, sm.IsActive())
	_, ok := sm.Text()
	assert.False(t, ok)

	require.NotNil(t, sm.ShowSuccess("Processed 2 cell(s)"))
	text, ok := sm.Text()
	assert.True(t, ok)
	assert.Equal(t, "✓ Processed 2 cell(s)", text)

	clock = clock.Add(sm.TTL + time.Millisecond)
	assert.False(t, sm.IsActive())
	_, ok = sm.Text()
	assert.False(t, ok)
}

func TestStatusManager_Sticky(t *testing.T) {
	sm := NewStatusManager()
	sm.SetSticky(StatusTypeWarning, "Review before apply")

	text, _ := sm.Text()
	assert.Equal(t, "⚠ Review before apply", text)

	sm.ShowError("boom")
	text, _ = sm.Text()
	assert.Equal(t, "× boom", text, "transient message wins over sticky")

	sm.Clear()
	assert.Equal(t, StatusTypeWarning, sm.Type())

	sm.ClearSticky()
	_, ok := sm.Text()
	assert.False(t, ok)
	assert.Equal(t, StatusTypeInfo, sm.Type())
}

func TestStatusManager_ShowResult(t *testing.T) {
	tests := []struct {
		name   string
		result mutators.Result
		want   StatusType
	}{
		{"success", mutators.Result{Success: true, Message: "Processed 2 cell(s)"}, StatusTypeSuccess},
		{"partial undo", mutators.Result{Success: true, Error: errors.New("partial")}, StatusTypeWarning},
		{"blocked", mutators.Result{Blocked: true, Message: "busy"}, StatusTypeWarning},
		{"nothing to undo", mutators.Result{Message: "Nothing to undo"}, StatusTypeInfo},
		{"failed", mutators.Result{Message: "Operation failed", Error: errors.New("boom")}, StatusTypeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := NewStatusManager()
			require.NotNil(t, sm.ShowResult(tt.result))
			assert.Equal(t, tt.want, sm.Type())
			assert.True(t, sm.IsActive())
		})
	}
}
