package workbook

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluqqy/taxo-terminal/pkg/host"
	"github.com/pluqqy/taxo-terminal/pkg/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesDefaultSheet(t *testing.T) {
	s := openTestStore(t)
	names, err := s.SheetNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet1"}, names)
	assert.Equal(t, "Sheet1!A1", s.Current().String())
}

func TestOpen_PersistsToFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "workbook.db")

	s, err := Open(ctx, path, WithDefaultSheet("Plan"))
	require.NoError(t, err)
	require.NoError(t, s.SetCellValue(ctx, "B2", models.StringCell("FY24|Q1")))
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, path, WithDefaultSheet("Plan"))
	require.NoError(t, err)
	defer reopened.Close()

	g, err := reopened.ReadRange(ctx, "Plan!B2")
	require.NoError(t, err)
	assert.Equal(t, models.StringCell("FY24|Q1"), g[0][0])
}

func TestSetValues_RoundTripsEveryKind(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	grid := models.Grid{
		{models.StringCell("a|b"), models.NumberCell(42.5)},
		{models.BoolCell(true), models.EmptyCell()},
	}
	require.NoError(t, s.SetValues(ctx, "Sheet1!C3:D4", grid))

	got, err := s.ReadRange(ctx, "C3:D4")
	require.NoError(t, err)
	assert.Equal(t, grid, got)

	rows, cols, err := s.Bounds(ctx, "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, 4, rows)
	assert.Equal(t, 4, cols)
}

func TestSetValues_EmptyClearsCell(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.SetCellValue(ctx, "A1", models.StringCell("x")))
	require.NoError(t, s.SetCellValue(ctx, "A1", models.EmptyCell()))

	rows, cols, err := s.Bounds(ctx, "Sheet1")
	require.NoError(t, err)
	assert.Zero(t, rows)
	assert.Zero(t, cols)
}

func TestSetValues_ShapeMismatchWritesNothing(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.SetCellValue(ctx, "A1", models.StringCell("keep")))

	err := s.SetValues(ctx, "A1:A2", models.StringGrid([]string{"x"}))
	var opErr *host.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "write", opErr.Op)

	g, err := s.ReadRange(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, "keep", g[0][0].Str)
}

func TestSelect_NotifiesAndReadsSelection(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.SetValues(ctx, "Other!A1:A2", models.StringGrid([]string{"^AT^ x"}, []string{"y"})))

	calls := 0
	s.OnSelectionChanged(func() { calls++ })
	require.NoError(t, s.Select(ctx, "Other!A1:A2"))
	assert.Equal(t, 1, calls)

	sel, err := s.GetSelection(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Other!A1:A2", sel.Address)
	assert.Equal(t, 2, sel.RowCount)
	assert.Equal(t, 1, sel.ColumnCount)
	assert.Equal(t, "^AT^ x", sel.Values[0][0].Str)

	addr, err := s.ResolveAddress(sel.Address, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, "Other!A2", addr)
}

func TestReadRange_UnknownSheet(t *testing.T) {
	s := openTestStore(t)
	_, err := s.ReadRange(context.Background(), "Missing!A1")
	assert.Error(t, err)
}

func TestInferCell(t *testing.T) {
	tests := []struct {
		field string
		want  models.CellValue
	}{
		{"", models.EmptyCell()},
		{"  ", models.EmptyCell()},
		{"12", models.NumberCell(12)},
		{"-0.5", models.NumberCell(-0.5)},
		{"true", models.BoolCell(true)},
		{"FALSE", models.BoolCell(false)},
		{"Inf", models.StringCell("Inf")},
		{"FY24|Q1:ID", models.StringCell("FY24|Q1:ID")},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, InferCell(tt.field))
		})
	}
}

func TestImportExportCSV(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.SetCellValue(ctx, "Data!Z99", models.StringCell("stale")))

	input := "taxonomy,count,flag\n\"FY24|Q1|Brand, Inc:ID1\",3,TRUE\n^AT^ text,,\n"
	n, err := s.ImportCSV(ctx, strings.NewReader(input), "Data")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	g, err := s.ReadRange(ctx, "Data!A2:C2")
	require.NoError(t, err)
	assert.Equal(t, models.StringCell("FY24|Q1|Brand, Inc:ID1"), g[0][0])
	assert.Equal(t, models.NumberCell(3), g[0][1])
	assert.Equal(t, models.BoolCell(true), g[0][2])

	var out bytes.Buffer
	require.NoError(t, s.ExportCSV(ctx, &out, "Data"))
	assert.Equal(t, input, out.String())
}
