// Package diff renders before/after cell values as a unified diff, one line
// per cell, so a pending mutation can be reviewed before it is applied.
package diff

import (
	"fmt"
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"

	"github.com/pluqqy/taxo-terminal/pkg/models"
)

// Options controls diff rendering
type Options struct {
	// Context is the number of unchanged cells around each hunk. If 0, default to 2.
	Context int
	// From and To label the two sides. Default to "before" and "after".
	From string
	To   string
}

// Cell is one cell of a range before and after a mutation
type Cell struct {
	Address string
	Before  models.CellValue
	After   models.CellValue
}

// Changed reports whether the mutation alters the cell
func (c Cell) Changed() bool {
	return c.Before != c.After
}

// OnlyChanged filters cells down to the ones whose value differs
func OnlyChanged(cells []Cell) []Cell {
	var out []Cell
	for _, c := range cells {
		if c.Changed() {
			out = append(out, c)
		}
	}
	return out
}

// Unified produces a unified diff of cells. It returns "" when nothing changed.
func Unified(cells []Cell, opt Options) string {
	if len(OnlyChanged(cells)) == 0 {
		return ""
	}
	ctx := opt.Context
	if ctx <= 0 {
		ctx = 2
	}
	from, to := opt.From, opt.To
	if from == "" {
		from = "before"
	}
	if to == "" {
		to = "after"
	}

	a := make([]string, 0, len(cells))
	b := make([]string, 0, len(cells))
	for _, c := range cells {
		a = append(a, line(c.Address, c.Before))
		b = append(b, line(c.Address, c.After))
	}

	u := difflib.UnifiedDiff{
		A:        a,
		B:        b,
		FromFile: from,
		ToFile:   to,
		Context:  ctx,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return fmt.Sprintf("--- %s\n+++ %s\n# diff unavailable: %v\n", from, to, err)
	}
	return s
}

func line(address string, v models.CellValue) string {
	text := v.String()
	if v.Kind == models.CellString {
		text = fmt.Sprintf("%q", v.Str)
	}
	return strings.TrimSpace(address+" "+text) + "\n"
}
