package state

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluqqy/taxo-terminal/pkg/models"
)

func recordChanges(s *Store) *[]Change {
	var changes []Change
	s.Subscribe(func(c Change) {
		changes = append(changes, c)
	})
	return &changes
}

func makeOperation(id int64) models.UndoOperation {
	return models.UndoOperation{
		Description: fmt.Sprintf("op %d", id),
		OperationID: id,
		CellCount:   1,
		CellChanges: []models.CellChange{{CellAddress: "Sheet1!A1", OriginalValue: models.StringCell("x")}},
		Timestamp:   time.Date(2025, 1, 1, 0, 0, int(id), 0, time.UTC),
	}
}

func TestNewStore_DefaultState(t *testing.T) {
	s := NewStore()
	st := s.GetState()

	assert.Equal(t, 0, st.SelectedCellCount)
	assert.Nil(t, st.ParsedData)
	assert.Empty(t, st.UndoStack)
	assert.Equal(t, models.ModeNormal, st.CurrentMode)
	assert.False(t, st.IsProcessing)
	assert.False(t, st.IsInitialized)
	assert.Equal(t, DefaultUndoCapacity, s.UndoCapacity())
}

func TestSetState_NotifiesWithDiff(t *testing.T) {
	s := NewStore()
	changes := recordChanges(s)

	s.SetState(func(st *models.AppState) {
		st.IsProcessing = true
		st.SelectedCellCount = 4
	})

	require.Len(t, *changes, 1)
	c := (*changes)[0]
	assert.ElementsMatch(t, []string{FieldIsProcessing, FieldSelectedCellCount}, c.ChangedProperties)
	assert.False(t, c.PreviousState.IsProcessing)
	assert.True(t, c.CurrentState.IsProcessing)
	assert.True(t, c.Has(FieldIsProcessing))
	assert.False(t, c.Has(FieldUndoStack))
}

func TestSetState_NoOpCommitIsSilent(t *testing.T) {
	s := NewStore()
	record := &models.ParsedRecord{OriginalText: "a|b", SelectedCellCount: 2}
	record.Segments[0] = "a"
	s.SetParsedData(record)
	_, err := s.PushUndoOperation(makeOperation(1))
	require.NoError(t, err)

	changes := recordChanges(s)

	same := *record
	s.SetParsedData(&same)
	s.SetProcessing(false)
	s.SetState(func(st *models.AppState) {
		op := makeOperation(1)
		op.Timestamp = op.Timestamp.In(time.FixedZone("UTC+2", 2*60*60))
		st.UndoStack = []models.UndoOperation{op}
	})
	s.SetState(func(st *models.AppState) {})

	assert.Empty(t, *changes)
}

func TestSetState_NilAndEmptyStackAreEqual(t *testing.T) {
	s := NewStore()
	changes := recordChanges(s)

	s.SetState(func(st *models.AppState) {
		st.UndoStack = []models.UndoOperation{}
	})

	assert.Empty(t, *changes)
}

func TestSetState_ReentrantUpdateDropped(t *testing.T) {
	s := NewStore()
	calls := 0
	s.Subscribe(func(c Change) {
		calls++
		s.SetState(func(st *models.AppState) {
			st.SelectedCellCount = 99
		})
	})

	s.SetProcessing(true)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, s.DroppedUpdates())
	st := s.GetState()
	assert.True(t, st.IsProcessing)
	assert.Equal(t, 0, st.SelectedCellCount)

	// The guard resets once notification is over.
	s.SetProcessing(false)
	assert.False(t, s.GetState().IsProcessing)
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	s := NewStore()
	first, second := 0, 0
	unsubscribe := s.Subscribe(func(Change) { first++ })
	s.Subscribe(func(Change) { second++ })

	s.SetProcessing(true)
	unsubscribe()
	s.SetProcessing(false)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestGetState_ReturnsCopy(t *testing.T) {
	s := NewStore()
	_, err := s.PushUndoOperation(makeOperation(1))
	require.NoError(t, err)
	s.SetParsedData(&models.ParsedRecord{OriginalText: "a|b"})

	st := s.GetState()
	st.UndoStack[0].Description = "mutated"
	st.UndoStack[0].CellChanges[0].CellAddress = "Z9"
	st.ParsedData.OriginalText = "mutated"

	fresh := s.GetState()
	assert.Equal(t, "op 1", fresh.UndoStack[0].Description)
	assert.Equal(t, "Sheet1!A1", fresh.UndoStack[0].CellChanges[0].CellAddress)
	assert.Equal(t, "a|b", fresh.ParsedData.OriginalText)
}

func TestSetParsedData_SingleCommit(t *testing.T) {
	tests := []struct {
		name      string
		record    *models.ParsedRecord
		wantMode  models.Mode
		wantCount int
	}{
		{
			name:      "targeting record",
			record:    &models.ParsedRecord{OriginalText: "^AT^ x", HasTargetingPattern: true, TargetingText: "^AT^ ", SelectedCellCount: 3},
			wantMode:  models.ModeTargeting,
			wantCount: 3,
		},
		{
			name:      "taxonomy record",
			record:    &models.ParsedRecord{OriginalText: "a|b", SelectedCellCount: 5},
			wantMode:  models.ModeNormal,
			wantCount: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			changes := recordChanges(s)

			s.SetParsedData(tt.record)

			require.Len(t, *changes, 1)
			st := (*changes)[0].CurrentState
			assert.Equal(t, tt.wantMode, st.CurrentMode)
			assert.Equal(t, tt.wantCount, st.SelectedCellCount)
			if diff := cmp.Diff(tt.record, st.ParsedData); diff != "" {
				t.Errorf("ParsedData mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("clearing resets mode and count", func(t *testing.T) {
		s := NewStore()
		s.SetParsedData(&models.ParsedRecord{HasTargetingPattern: true, SelectedCellCount: 2})
		s.SetParsedData(nil)
		st := s.GetState()
		assert.Nil(t, st.ParsedData)
		assert.Equal(t, models.ModeNormal, st.CurrentMode)
		assert.Equal(t, 0, st.SelectedCellCount)
	})
}

// Fifteen pushes leave the ten most recent, popped newest first.
func TestUndoStack_CapacityEvictsOldest(t *testing.T) {
	s := NewStore()
	var evicted []int64
	for i := int64(1); i <= 15; i++ {
		ev, err := s.PushUndoOperation(makeOperation(i))
		require.NoError(t, err)
		for _, op := range ev {
			evicted = append(evicted, op.OperationID)
		}
	}

	assert.Len(t, s.GetState().UndoStack, 10)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, evicted)

	var popped []int64
	for {
		op, ok := s.PopUndoOperation()
		if !ok {
			break
		}
		popped = append(popped, op.OperationID)
	}
	assert.Equal(t, []int64{15, 14, 13, 12, 11, 10, 9, 8, 7, 6}, popped)
}

func TestUndoStack_CustomCapacity(t *testing.T) {
	s := NewStore(WithUndoCapacity(3))
	for i := int64(1); i <= 5; i++ {
		_, err := s.PushUndoOperation(makeOperation(i))
		require.NoError(t, err)
	}
	st := s.GetState()
	require.Len(t, st.UndoStack, 3)
	assert.Equal(t, int64(3), st.UndoStack[0].OperationID)
}

func TestPopUndoOperation_Empty(t *testing.T) {
	s := NewStore()
	changes := recordChanges(s)
	_, ok := s.PopUndoOperation()
	assert.False(t, ok)
	assert.Empty(t, *changes)
}

func TestPushUndoOperation_DuringNotification(t *testing.T) {
	s := NewStore()
	var pushErr error
	s.Subscribe(func(c Change) {
		if c.Has(FieldIsProcessing) {
			_, pushErr = s.PushUndoOperation(makeOperation(1))
		}
	})

	s.SetProcessing(true)

	assert.ErrorIs(t, pushErr, ErrReentrantUpdate)
	assert.Empty(t, s.GetState().UndoStack)
}

func TestRemoveUndoOperation(t *testing.T) {
	s := NewStore()
	_, _ = s.PushUndoOperation(makeOperation(1))
	_, _ = s.PushUndoOperation(makeOperation(2))

	assert.False(t, s.RemoveUndoOperation(1), "only the tail can be removed")
	assert.True(t, s.RemoveUndoOperation(2))
	op, ok := s.PeekUndoOperation()
	require.True(t, ok)
	assert.Equal(t, int64(1), op.OperationID)
}
