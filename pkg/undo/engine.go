// Package undo records a cell-level snapshot before every batch mutation and
// restores it on demand. Operations live on the state store's undo stack;
// this package never touches the stack except through the store.
package undo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/pluqqy/taxo-terminal/pkg/host"
	"github.com/pluqqy/taxo-terminal/pkg/models"
	"github.com/pluqqy/taxo-terminal/pkg/state"
)

// ErrNothingToUndo is returned by UndoLast when the stack is empty
var ErrNothingToUndo = errors.New("nothing to undo")

// CellFailure is one cell that could not be restored
type CellFailure struct {
	Address string
	Err     error
}

// PartialRestoreError reports the cells UndoLast skipped. The operation is
// still popped and every other cell is restored.
type PartialRestoreError struct {
	OperationID int64
	Failures    []CellFailure
}

func (e *PartialRestoreError) Error() string {
	addrs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		addrs[i] = f.Address
	}
	return fmt.Sprintf("undo %d: %d cell(s) not restored: %s",
		e.OperationID, len(e.Failures), strings.Join(addrs, ", "))
}

// Unwrap exposes the per-cell causes to errors.Is and errors.As
func (e *PartialRestoreError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

// Report describes a completed undo
type Report struct {
	Operation models.UndoOperation
	Restored  int
	Failed    int
}

// Engine snapshots ranges into undo operations and restores them
type Engine struct {
	store  *state.Store
	host   host.Host
	logger *zap.Logger
	nextID atomic.Int64
	now    func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger used for restoration diagnostics
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock replaces time.Now for operation timestamps
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an engine that records onto store and restores through h
func New(store *state.Store, h host.Host, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		host:   h,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddOperation captures every non-empty cell of sel in row-major order and
// pushes the operation onto the undo stack. It returns only after the push,
// so the caller may mutate the range once it returns without error.
func (e *Engine) AddOperation(ctx context.Context, description string, sel models.RawSelection) (models.UndoOperation, error) {
	if err := ctx.Err(); err != nil {
		return models.UndoOperation{}, err
	}

	var changes []models.CellChange
	for r, row := range sel.Values {
		for c, v := range row {
			if v.IsEmpty() {
				continue
			}
			addr, err := e.host.ResolveAddress(sel.Address, r, c)
			if err != nil {
				return models.UndoOperation{}, fmt.Errorf("snapshot %s: %w", sel.Address, err)
			}
			changes = append(changes, models.CellChange{CellAddress: addr, OriginalValue: v})
		}
	}

	op := models.UndoOperation{
		Description: description,
		CellChanges: changes,
		CellCount:   len(changes),
		OperationID: e.nextID.Add(1),
		Timestamp:   e.now(),
	}
	if _, err := e.store.PushUndoOperation(op); err != nil {
		return models.UndoOperation{}, fmt.Errorf("record undo operation: %w", err)
	}

	e.logger.Debug("Recorded undo operation",
		zap.Int64("operation_id", op.OperationID),
		zap.String("description", description),
		zap.Int("cells", op.CellCount))
	return op, nil
}

// Discard drops a just-recorded operation whose mutation never happened.
// It reports false if op is no longer the most recent operation.
func (e *Engine) Discard(op models.UndoOperation) bool {
	removed := e.store.RemoveUndoOperation(op.OperationID)
	if removed {
		e.logger.Debug("Discarded undo operation", zap.Int64("operation_id", op.OperationID))
	}
	return removed
}

// UndoLast restores the most recent operation cell by cell and then pops it.
// A cell that fails to restore is logged and skipped; the failures come back
// as a *PartialRestoreError alongside a report of what was restored.
func (e *Engine) UndoLast(ctx context.Context) (Report, error) {
	op, ok := e.store.PeekUndoOperation()
	if !ok {
		return Report{}, ErrNothingToUndo
	}

	report := Report{Operation: op}
	var failures []CellFailure
	for _, change := range op.CellChanges {
		if err := e.host.SetCellValue(ctx, change.CellAddress, change.OriginalValue); err != nil {
			e.logger.Warn("Failed to restore cell",
				zap.Int64("operation_id", op.OperationID),
				zap.String("address", change.CellAddress),
				zap.Error(err))
			failures = append(failures, CellFailure{Address: change.CellAddress, Err: err})
			continue
		}
		report.Restored++
	}
	report.Failed = len(failures)

	if _, popped := e.store.PopUndoOperation(); !popped {
		return report, fmt.Errorf("undo %d: %w", op.OperationID, state.ErrReentrantUpdate)
	}

	e.logger.Info("Undid operation",
		zap.Int64("operation_id", op.OperationID),
		zap.String("description", op.Description),
		zap.Int("restored", report.Restored),
		zap.Int("failed", report.Failed))

	if len(failures) > 0 {
		return report, &PartialRestoreError{OperationID: op.OperationID, Failures: failures}
	}
	return report, nil
}

// History returns the recorded operations, most recent first
func (e *Engine) History() []models.UndoOperation {
	stack := e.store.GetState().UndoStack
	out := make([]models.UndoOperation, len(stack))
	for i, op := range stack {
		out[len(stack)-1-i] = op
	}
	return out
}

// Depth returns the number of operations that can be undone
func (e *Engine) Depth() int {
	return e.store.GetState().UndoDepth()
}
