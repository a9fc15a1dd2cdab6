package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/pluqqy/taxo-terminal/pkg/host"
	"github.com/pluqqy/taxo-terminal/pkg/models"
)

const (
	rowHeaderWidth = 5
	minColWidth    = 6
)

// GridModel is a scrolling window onto one sheet. The cursor and anchor span
// the selection; the window is re-read from the workbook after every change.
type GridModel struct {
	wb    host.Workbook
	sheet string

	cursorRow, cursorCol int
	anchorRow, anchorCol int
	top, left            int

	usedRows, usedCols int
	values             models.Grid

	colWidth    int
	visibleRows int
	visibleCols int
}

// NewGridModel creates a grid over sheet
func NewGridModel(wb host.Workbook, sheet string, colWidth, visibleRows int) *GridModel {
	if colWidth < minColWidth {
		colWidth = minColWidth
	}
	if visibleRows < 1 {
		visibleRows = 1
	}
	return &GridModel{
		wb:          wb,
		sheet:       sheet,
		colWidth:    colWidth,
		visibleRows: visibleRows,
		visibleCols: 3,
	}
}

// Sheet returns the sheet shown
func (g *GridModel) Sheet() string {
	return g.sheet
}

// SetSheet switches sheets and puts the cursor back at A1
func (g *GridModel) SetSheet(sheet string) {
	g.sheet = sheet
	g.cursorRow, g.cursorCol = 0, 0
	g.anchorRow, g.anchorCol = 0, 0
	g.top, g.left = 0, 0
}

// SetSize fits the window to the pane the grid is drawn in
func (g *GridModel) SetSize(width, height int) {
	if cols := (width - rowHeaderWidth) / (g.colWidth + 1); cols > 0 {
		g.visibleCols = cols
	} else {
		g.visibleCols = 1
	}
	if height > 1 {
		g.visibleRows = height - 1
	}
	g.scroll()
}

// Load reads the visible window from the workbook
func (g *GridModel) Load(ctx context.Context) error {
	rows, cols, err := g.wb.Bounds(ctx, g.sheet)
	if err != nil {
		return err
	}
	g.usedRows, g.usedCols = rows, cols

	window := host.Range{
		Sheet:    g.sheet,
		StartRow: g.top,
		StartCol: g.left,
		EndRow:   g.top + g.visibleRows - 1,
		EndCol:   g.left + g.visibleCols - 1,
	}
	values, err := g.wb.ReadRange(ctx, window.String())
	if err != nil {
		return err
	}
	g.values = values
	return nil
}

// Move shifts the cursor. With extend the anchor stays put and the selection grows.
func (g *GridModel) Move(dRow, dCol int, extend bool) {
	g.cursorRow = clamp(g.cursorRow+dRow, 0, host.MaxRows-1)
	g.cursorCol = clamp(g.cursorCol+dCol, 0, host.MaxColumns-1)
	if !extend {
		g.anchorRow, g.anchorCol = g.cursorRow, g.cursorCol
	}
	g.scroll()
}

// GoTo selects r, switching sheets when r names one
func (g *GridModel) GoTo(r host.Range) {
	if r.Sheet != "" && r.Sheet != g.sheet {
		g.SetSheet(r.Sheet)
	}
	g.anchorRow, g.anchorCol = r.StartRow, r.StartCol
	g.cursorRow, g.cursorCol = r.EndRow, r.EndCol
	g.scroll()
}

// Selection returns the range between the anchor and the cursor
func (g *GridModel) Selection() host.Range {
	return host.Range{
		Sheet:    g.sheet,
		StartRow: min(g.anchorRow, g.cursorRow),
		StartCol: min(g.anchorCol, g.cursorCol),
		EndRow:   max(g.anchorRow, g.cursorRow),
		EndCol:   max(g.anchorCol, g.cursorCol),
	}
}

// Cursor returns the zero-based cursor position
func (g *GridModel) Cursor() (row, col int) {
	return g.cursorRow, g.cursorCol
}

// scroll keeps the cursor inside the window
func (g *GridModel) scroll() {
	if g.cursorRow < g.top {
		g.top = g.cursorRow
	}
	if g.cursorRow >= g.top+g.visibleRows {
		g.top = g.cursorRow - g.visibleRows + 1
	}
	if g.cursorCol < g.left {
		g.left = g.cursorCol
	}
	if g.cursorCol >= g.left+g.visibleCols {
		g.left = g.cursorCol - g.visibleCols + 1
	}
}

func (g *GridModel) cell(row, col int) string {
	r, c := row-g.top, col-g.left
	if r < 0 || r >= len(g.values) || c < 0 || c >= len(g.values[r]) {
		return ""
	}
	text := g.values[r][c].String()
	return strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(text)
}

// View renders column letters, row numbers and the visible cells
func (g *GridModel) View() string {
	sel := g.Selection()
	cellStyle := lipgloss.NewStyle().Width(g.colWidth).MaxWidth(g.colWidth)

	var b strings.Builder
	b.WriteString(GridHeaderStyle.Render(strings.Repeat(" ", rowHeaderWidth)))
	for col := g.left; col < g.left+g.visibleCols; col++ {
		b.WriteString(" ")
		b.WriteString(GridHeaderStyle.Inherit(cellStyle).Render(host.ColumnName(col)))
	}
	b.WriteString("\n")

	for row := g.top; row < g.top+g.visibleRows; row++ {
		label := strconv.Itoa(row + 1)
		b.WriteString(GridHeaderStyle.Render(strings.Repeat(" ", max(rowHeaderWidth-len(label), 0)) + label))
		for col := g.left; col < g.left+g.visibleCols; col++ {
			text := truncate.StringWithTail(g.cell(row, col), uint(g.colWidth-1), "…")
			style := NormalStyle
			switch {
			case row == g.cursorRow && col == g.cursorCol:
				style = CursorStyle
			case sel.Contains(row, col):
				style = SelectedStyle
			}
			b.WriteString(" ")
			b.WriteString(style.Inherit(cellStyle).Render(text))
		}
		if row < g.top+g.visibleRows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Extent describes the used area, e.g. "12 × 3"
func (g *GridModel) Extent() string {
	return strconv.Itoa(g.usedRows) + " × " + strconv.Itoa(g.usedCols)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
