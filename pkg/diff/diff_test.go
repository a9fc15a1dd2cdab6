package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pluqqy/taxo-terminal/pkg/models"
)

func TestUnified(t *testing.T) {
	cells := []Cell{
		{Address: "Sheet1!A1", Before: models.StringCell("FY24|Q1:ID1"), After: models.StringCell("ID1")},
		{Address: "Sheet1!A2", Before: models.NumberCell(5), After: models.NumberCell(5)},
		{Address: "Sheet1!A3", Before: models.StringCell("no id"), After: models.StringCell("no id")},
	}

	got := Unified(cells, Options{Context: 1, From: "Sheet1!A1:A3", To: "extract activation"})

	assert.True(t, strings.HasPrefix(got, "--- Sheet1!A1:A3\n+++ extract activation\n"))
	assert.Contains(t, got, "-Sheet1!A1 \"FY24|Q1:ID1\"\n")
	assert.Contains(t, got, "+Sheet1!A1 \"ID1\"\n")
	assert.Contains(t, got, " Sheet1!A2 5\n")
	assert.NotContains(t, got, "Sheet1!A3", "outside the context window")
}

func TestUnified_NoChanges(t *testing.T) {
	cells := []Cell{{Address: "A1", Before: models.StringCell("x"), After: models.StringCell("x")}}
	assert.Empty(t, Unified(cells, Options{}))
	assert.Empty(t, OnlyChanged(cells))
}

func TestOnlyChanged(t *testing.T) {
	cells := []Cell{
		{Address: "A1", Before: models.StringCell("x"), After: models.StringCell("y")},
		{Address: "A2", Before: models.EmptyCell(), After: models.EmptyCell()},
	}
	got := OnlyChanged(cells)
	assert.Len(t, got, 1)
	assert.Equal(t, "A1", got[0].Address)
}
