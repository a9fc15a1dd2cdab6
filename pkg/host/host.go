// Package host defines the boundary between the taxonomy tools and the
// spreadsheet that owns the cells. Everything above this package talks to a
// Host; the concrete workbook (SQLite, in-memory) lives behind it.
package host

import (
	"context"
	"fmt"
	"sync"

	"github.com/pluqqy/taxo-terminal/pkg/models"
)

// Host is the collaborator the mutators and the undo engine need
type Host interface {
	// GetSelection returns the current selection with its values
	GetSelection(ctx context.Context) (models.RawSelection, error)
	// SetValues writes a full grid over the range at ref. The write is atomic:
	// either every cell is written or none is.
	SetValues(ctx context.Context, ref string, values models.Grid) error
	// ResolveAddress returns the single-cell address at (row, col) relative to
	// the top-left corner of ref.
	ResolveAddress(ref string, row, col int) (string, error)
	// SetCellValue writes one cell
	SetCellValue(ctx context.Context, address string, value models.CellValue) error
}

// Workbook is a Host that can also be navigated
type Workbook interface {
	Host
	Select(ctx context.Context, ref string) error
	ReadRange(ctx context.Context, ref string) (models.Grid, error)
	// Bounds returns the used extent of a sheet as rows and columns
	Bounds(ctx context.Context, sheet string) (rows, cols int, err error)
	SheetNames(ctx context.Context) ([]string, error)
	// OnSelectionChanged registers fn to run after every selection change
	OnSelectionChanged(fn func()) (unsubscribe func())
}

// OperationError wraps a failed host call with the operation and address
type OperationError struct {
	Op      string
	Address string
	Err     error
}

func (e *OperationError) Error() string {
	if e.Address == "" {
		return fmt.Sprintf("host %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("host %s %s: %v", e.Op, e.Address, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// ResolveAddress implements Host.ResolveAddress for any A1-addressed host
func ResolveAddress(ref string, row, col int) (string, error) {
	r, err := ParseRange(ref)
	if err != nil {
		return "", &OperationError{Op: "resolve", Address: ref, Err: err}
	}
	addr, err := r.Offset(row, col)
	if err != nil {
		return "", &OperationError{Op: "resolve", Address: ref, Err: err}
	}
	return addr, nil
}

// SelectionTracker keeps the current selection range and its listeners. Hosts
// embed it to share selection bookkeeping.
type SelectionTracker struct {
	mu        sync.Mutex
	current   Range
	listeners map[int]func()
	nextID    int
}

// Current returns the selected range
func (t *SelectionTracker) Current() Range {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Set replaces the selection and runs every listener outside the lock
func (t *SelectionTracker) Set(r Range) {
	t.mu.Lock()
	t.current = r
	listeners := make([]func(), 0, len(t.listeners))
	for id := 1; id <= t.nextID; id++ {
		if fn, ok := t.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	t.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// OnSelectionChanged registers fn and returns its unsubscribe function
func (t *SelectionTracker) OnSelectionChanged(fn func()) func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.listeners == nil {
		t.listeners = make(map[int]func())
	}
	t.nextID++
	id := t.nextID
	t.listeners[id] = fn
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.listeners, id)
	}
}

// SelectionFromGrid builds the RawSelection for r holding values
func SelectionFromGrid(r Range, values models.Grid) models.RawSelection {
	return models.RawSelection{
		Address:     r.String(),
		Values:      values,
		RowCount:    r.Rows(),
		ColumnCount: r.Cols(),
	}
}

// CheckShape verifies values matches the dimensions of r exactly
func CheckShape(r Range, values models.Grid) error {
	if len(values) != r.Rows() {
		return fmt.Errorf("grid has %d rows, range %s needs %d", len(values), r, r.Rows())
	}
	for i, row := range values {
		if len(row) != r.Cols() {
			return fmt.Errorf("grid row %d has %d columns, range %s needs %d", i, len(row), r, r.Cols())
		}
	}
	return nil
}
