package host

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pluqqy/taxo-terminal/pkg/models"
)

type cellKey struct {
	row, col int
}

// MemoryHost is a sparse in-memory workbook. It is safe for concurrent use.
type MemoryHost struct {
	SelectionTracker

	mu           sync.RWMutex
	sheets       map[string]map[cellKey]models.CellValue
	order        []string
	defaultSheet string
}

// NewMemoryHost creates a workbook with one empty sheet, selected at A1
func NewMemoryHost(defaultSheet string) *MemoryHost {
	if defaultSheet == "" {
		defaultSheet = "Sheet1"
	}
	h := &MemoryHost{
		sheets:       make(map[string]map[cellKey]models.CellValue),
		defaultSheet: defaultSheet,
	}
	h.ensureSheet(defaultSheet)
	h.SelectionTracker.current = Range{Sheet: defaultSheet}
	return h
}

func (h *MemoryHost) ensureSheet(name string) map[cellKey]models.CellValue {
	cells, ok := h.sheets[name]
	if !ok {
		cells = make(map[cellKey]models.CellValue)
		h.sheets[name] = cells
		h.order = append(h.order, name)
	}
	return cells
}

func (h *MemoryHost) resolve(ref string) (Range, error) {
	r, err := ParseRange(ref)
	if err != nil {
		return Range{}, err
	}
	return r.WithSheet(h.defaultSheet), nil
}

// Load writes values with their top-left corner at ref, growing the sheet as needed
func (h *MemoryHost) Load(ref string, values models.Grid) error {
	r, err := h.resolve(ref)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	cells := h.ensureSheet(r.Sheet)
	for i, row := range values {
		for j, v := range row {
			h.put(cells, r.StartRow+i, r.StartCol+j, v)
		}
	}
	return nil
}

func (h *MemoryHost) put(cells map[cellKey]models.CellValue, row, col int, v models.CellValue) {
	k := cellKey{row, col}
	if v.IsEmpty() {
		delete(cells, k)
		return
	}
	cells[k] = v
}

// GetSelection returns the selected range with its current values
func (h *MemoryHost) GetSelection(ctx context.Context) (models.RawSelection, error) {
	if err := ctx.Err(); err != nil {
		return models.RawSelection{}, &OperationError{Op: "get selection", Err: err}
	}
	r := h.Current()
	values, err := h.read(r)
	if err != nil {
		return models.RawSelection{}, &OperationError{Op: "get selection", Address: r.String(), Err: err}
	}
	return SelectionFromGrid(r, values), nil
}

// ReadRange returns the values of ref
func (h *MemoryHost) ReadRange(ctx context.Context, ref string) (models.Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, &OperationError{Op: "read", Address: ref, Err: err}
	}
	r, err := h.resolve(ref)
	if err != nil {
		return nil, &OperationError{Op: "read", Address: ref, Err: err}
	}
	values, err := h.read(r)
	if err != nil {
		return nil, &OperationError{Op: "read", Address: ref, Err: err}
	}
	return values, nil
}

func (h *MemoryHost) read(r Range) (models.Grid, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	cells, ok := h.sheets[r.Sheet]
	if !ok {
		return nil, fmt.Errorf("no sheet %q", r.Sheet)
	}
	g := models.NewGrid(r.Rows(), r.Cols())
	for i := range g {
		for j := range g[i] {
			if v, ok := cells[cellKey{r.StartRow + i, r.StartCol + j}]; ok {
				g[i][j] = v
			}
		}
	}
	return g, nil
}

// SetValues writes values over ref. Shape mismatches are rejected before any cell changes.
func (h *MemoryHost) SetValues(ctx context.Context, ref string, values models.Grid) error {
	if err := ctx.Err(); err != nil {
		return &OperationError{Op: "write", Address: ref, Err: err}
	}
	r, err := h.resolve(ref)
	if err != nil {
		return &OperationError{Op: "write", Address: ref, Err: err}
	}
	if err := CheckShape(r, values); err != nil {
		return &OperationError{Op: "write", Address: ref, Err: err}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	cells, ok := h.sheets[r.Sheet]
	if !ok {
		return &OperationError{Op: "write", Address: ref, Err: fmt.Errorf("no sheet %q", r.Sheet)}
	}
	for i, row := range values {
		for j, v := range row {
			h.put(cells, r.StartRow+i, r.StartCol+j, v)
		}
	}
	return nil
}

// SetCellValue writes a single cell
func (h *MemoryHost) SetCellValue(ctx context.Context, address string, value models.CellValue) error {
	r, err := h.resolve(address)
	if err != nil {
		return &OperationError{Op: "write cell", Address: address, Err: err}
	}
	if !r.IsCell() {
		return &OperationError{Op: "write cell", Address: address, Err: fmt.Errorf("not a single cell")}
	}
	return h.SetValues(ctx, address, models.Grid{{value}})
}

// ResolveAddress returns the address of the cell at (row, col) within ref
func (h *MemoryHost) ResolveAddress(ref string, row, col int) (string, error) {
	r, err := h.resolve(ref)
	if err != nil {
		return "", &OperationError{Op: "resolve", Address: ref, Err: err}
	}
	return ResolveAddress(r.String(), row, col)
}

// Select changes the selection and notifies listeners
func (h *MemoryHost) Select(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r, err := h.resolve(ref)
	if err != nil {
		return &OperationError{Op: "select", Address: ref, Err: err}
	}
	h.mu.Lock()
	h.ensureSheet(r.Sheet)
	h.mu.Unlock()
	h.Set(r)
	return nil
}

// Bounds returns the used extent of sheet
func (h *MemoryHost) Bounds(ctx context.Context, sheet string) (rows, cols int, err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	cells, ok := h.sheets[sheet]
	if !ok {
		return 0, 0, &OperationError{Op: "bounds", Address: sheet, Err: fmt.Errorf("no sheet %q", sheet)}
	}
	for k := range cells {
		if k.row+1 > rows {
			rows = k.row + 1
		}
		if k.col+1 > cols {
			cols = k.col + 1
		}
	}
	return rows, cols, nil
}

// SheetNames lists sheets in creation order
func (h *MemoryHost) SheetNames(ctx context.Context) ([]string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.order...), nil
}

// Addresses returns the sorted addresses of non-empty cells on sheet
func (h *MemoryHost) Addresses(sheet string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	keys := make([]cellKey, 0, len(h.sheets[sheet]))
	for k := range h.sheets[sheet] {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].row != keys[j].row {
			return keys[i].row < keys[j].row
		}
		return keys[i].col < keys[j].col
	})
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = FormatAddress(sheet, k.row, k.col)
	}
	return out
}

var _ Workbook = (*MemoryHost)(nil)
