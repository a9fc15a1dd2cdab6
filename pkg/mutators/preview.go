package mutators

import (
	"context"

	"github.com/pluqqy/taxo-terminal/pkg/diff"
	"github.com/pluqqy/taxo-terminal/pkg/models"
)

// PreviewResult describes what Apply would do to the current selection
type PreviewResult struct {
	Address string
	// Allowed is false when the preview mode would block the operation
	Allowed   bool
	Before    models.Grid
	After     models.Grid
	Cells     []diff.Cell
	Processed int
	Rejected  int
	Diff      string
	Message   string
}

// Changed returns only the cells the operation would rewrite
func (r PreviewResult) Changed() []diff.Cell {
	return diff.OnlyChanged(r.Cells)
}

// Preview computes the result of op on the current selection without
// recording an undo operation or writing to the host.
func (p *Processor) Preview(ctx context.Context, op Operation) (PreviewResult, error) {
	if err := op.Validate(); err != nil {
		return PreviewResult{}, err
	}
	sel, err := p.host.GetSelection(ctx)
	if err != nil {
		return PreviewResult{}, err
	}

	pl := p.plan(sel, op)
	res := PreviewResult{
		Address:   sel.Address,
		Allowed:   op.AllowedIn(p.store.GetState().CurrentMode),
		Before:    sel.Values,
		After:     pl.grid,
		Cells:     pl.cells,
		Processed: pl.processed,
		Rejected:  pl.rejected,
		Diff:      diff.Unified(pl.cells, diff.Options{From: sel.Address, To: op.Description(p.loc)}),
	}
	res.Message = p.message("result.preview", pl.processed, pl.rejected)
	return res, nil
}
