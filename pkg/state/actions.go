package state

import (
	"go.uber.org/zap"

	"github.com/pluqqy/taxo-terminal/pkg/models"
)

// SetParsedData publishes a new preview record. Mode and selected count are
// derived from it inside the same commit so subscribers never observe a
// record paired with a stale mode.
func (s *Store) SetParsedData(record *models.ParsedRecord) {
	s.SetState(func(st *models.AppState) {
		st.ParsedData = record
		st.CurrentMode = models.ModeNormal
		st.SelectedCellCount = 0
		if record != nil {
			st.SelectedCellCount = record.SelectedCellCount
			if record.HasTargetingPattern {
				st.CurrentMode = models.ModeTargeting
			}
		}
	})
}

// PushUndoOperation appends op to the undo stack. When the stack exceeds
// capacity the oldest operation is evicted and returned. The push itself
// always changes state, so a false commit means the re-entrancy guard fired.
func (s *Store) PushUndoOperation(op models.UndoOperation) (evicted []models.UndoOperation, err error) {
	committed := s.commit(func(st *models.AppState) {
		evicted = nil
		st.UndoStack = append(st.UndoStack, op)
		if over := len(st.UndoStack) - s.undoCapacity; over > 0 {
			evicted = append(evicted, st.UndoStack[:over]...)
			st.UndoStack = append([]models.UndoOperation(nil), st.UndoStack[over:]...)
		}
	})
	if !committed {
		return nil, ErrReentrantUpdate
	}
	for _, ev := range evicted {
		s.logger.Debug("Evicted undo operation",
			zap.Int64("operation_id", ev.OperationID),
			zap.String("description", ev.Description))
	}
	return evicted, nil
}

// PopUndoOperation removes and returns the most recent undo operation
func (s *Store) PopUndoOperation() (op models.UndoOperation, ok bool) {
	committed := s.commit(func(st *models.AppState) {
		ok = false
		if len(st.UndoStack) == 0 {
			return
		}
		last := len(st.UndoStack) - 1
		op = st.UndoStack[last]
		st.UndoStack = st.UndoStack[:last]
		ok = true
	})
	return op, ok && committed
}

// RemoveUndoOperation drops the operation with the given id if it is the most
// recent one. It reports whether anything was removed.
func (s *Store) RemoveUndoOperation(operationID int64) (removed bool) {
	s.SetState(func(st *models.AppState) {
		removed = false
		last := len(st.UndoStack) - 1
		if last < 0 || st.UndoStack[last].OperationID != operationID {
			return
		}
		st.UndoStack = st.UndoStack[:last]
		removed = true
	})
	return removed
}

// PeekUndoOperation returns the most recent undo operation without removing it
func (s *Store) PeekUndoOperation() (models.UndoOperation, bool) {
	st := s.GetState()
	if len(st.UndoStack) == 0 {
		return models.UndoOperation{}, false
	}
	return st.UndoStack[len(st.UndoStack)-1], true
}

// SetProcessing flips the mutator mutual-exclusion flag
func (s *Store) SetProcessing(processing bool) {
	s.SetState(func(st *models.AppState) {
		st.IsProcessing = processing
	})
}

// SetInitialized marks startup as complete
func (s *Store) SetInitialized(initialized bool) {
	s.SetState(func(st *models.AppState) {
		st.IsInitialized = initialized
	})
}
