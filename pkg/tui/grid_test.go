package tui

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluqqy/taxo-terminal/pkg/host"
	"github.com/pluqqy/taxo-terminal/pkg/models"
)

func TestGridModel_MoveAndExtend(t *testing.T) {
	g := NewGridModel(host.NewMemoryHost("Sheet1"), "Sheet1", 10, 5)

	g.Move(-1, -1, false)
	row, col := g.Cursor()
	assert.Equal(t, 0, row, "cursor should not go above row 1")
	assert.Equal(t, 0, col, "cursor should not go left of column A")

	g.Move(1, 1, false)
	assert.Equal(t, "Sheet1!B2", g.Selection().String())

	g.Move(2, 1, true)
	assert.Equal(t, "Sheet1!B2:C4", g.Selection().String())

	g.Move(-3, 0, true)
	assert.Equal(t, "Sheet1!B1:C2", g.Selection().String(), "selection corners are normalized")

	g.Move(0, 0, false)
	assert.True(t, g.Selection().IsCell())
}

func TestGridModel_ScrollFollowsCursor(t *testing.T) {
	g := NewGridModel(host.NewMemoryHost("Sheet1"), "Sheet1", 10, 3)
	g.SetSize(rowHeaderWidth+2*11, 4)

	g.Move(5, 4, false)
	assert.Equal(t, 3, g.top)
	assert.Equal(t, 3, g.left)

	g.Move(-5, -4, false)
	assert.Equal(t, 0, g.top)
	assert.Equal(t, 0, g.left)
}

func TestGridModel_GoTo(t *testing.T) {
	g := NewGridModel(host.NewMemoryHost("Sheet1"), "Sheet1", 10, 5)
	g.Move(3, 3, false)

	r, err := host.ParseRange("Other!B2:C3")
	require.NoError(t, err)
	g.GoTo(r)

	assert.Equal(t, "Other", g.Sheet())
	assert.Equal(t, "Other!B2:C3", g.Selection().String())
}

func TestGridModel_LoadAndView(t *testing.T) {
	ctx := context.Background()
	wb := host.NewMemoryHost("Sheet1")
	require.NoError(t, wb.Load("A1", models.Grid{
		{models.StringCell("FY25|Q2|Brand|NSW|Summer Launch:ABC123"), models.NumberCell(850.5)},
		{models.StringCell("multi\nline"), models.BoolCell(true)},
	}))

	g := NewGridModel(wb, "Sheet1", 12, 4)
	g.SetSize(rowHeaderWidth+3*13, 5)
	require.NoError(t, g.Load(ctx))

	assert.Equal(t, "2 × 2", g.Extent())

	view := g.View()
	lines := strings.Split(view, "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "A")
	assert.Contains(t, lines[0], "C")
	assert.Contains(t, lines[1], "FY25|Q2|Br…")
	assert.Contains(t, lines[1], "850.5")
	assert.Contains(t, lines[2], "multi line")
	assert.Contains(t, lines[2], "TRUE")
	assert.Contains(t, lines[4], "4")
}

func TestGridModel_LoadUnknownSheet(t *testing.T) {
	g := NewGridModel(host.NewMemoryHost("Sheet1"), "Missing", 10, 5)
	assert.Error(t, g.Load(context.Background()))
}
