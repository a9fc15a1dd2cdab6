package models

import (
	"encoding/json"
	"strconv"
)

// CellKind tags the variant held by a CellValue
type CellKind int

const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
	CellBool
)

func (k CellKind) String() string {
	switch k {
	case CellString:
		return "string"
	case CellNumber:
		return "number"
	case CellBool:
		return "bool"
	default:
		return "empty"
	}
}

// CellValue is the value of a single spreadsheet cell as the host reports it.
// Only string cells carry taxonomy semantics; the other kinds are inert.
type CellValue struct {
	Kind CellKind
	Str  string
	Num  float64
	Bool bool
}

// Grid is a row-major block of cell values
type Grid [][]CellValue

func EmptyCell() CellValue {
	return CellValue{}
}

func StringCell(s string) CellValue {
	return CellValue{Kind: CellString, Str: s}
}

func NumberCell(n float64) CellValue {
	return CellValue{Kind: CellNumber, Num: n}
}

func BoolCell(b bool) CellValue {
	return CellValue{Kind: CellBool, Bool: b}
}

// IsEmpty reports whether the cell holds nothing. An empty string counts as empty.
func (v CellValue) IsEmpty() bool {
	return v.Kind == CellEmpty || (v.Kind == CellString && v.Str == "")
}

// Text returns the string payload and true only for non-empty string cells.
func (v CellValue) Text() (string, bool) {
	if v.Kind != CellString || v.Str == "" {
		return "", false
	}
	return v.Str, true
}

// String renders the cell the way a spreadsheet would display it
func (v CellValue) String() string {
	switch v.Kind {
	case CellString:
		return v.Str
	case CellNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case CellBool:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	default:
		return ""
	}
}

// Scalar returns the natural Go value for serialization (nil for empty cells)
func (v CellValue) Scalar() interface{} {
	switch v.Kind {
	case CellString:
		return v.Str
	case CellNumber:
		return v.Num
	case CellBool:
		return v.Bool
	default:
		return nil
	}
}

func (v CellValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Scalar())
}

func (v *CellValue) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = CellFromScalar(raw)
	return nil
}

func (v CellValue) MarshalYAML() (interface{}, error) {
	return v.Scalar(), nil
}

// CellFromScalar converts a decoded JSON/YAML scalar back into a CellValue.
// Unknown types become empty cells.
func CellFromScalar(raw interface{}) CellValue {
	switch t := raw.(type) {
	case string:
		return StringCell(t)
	case float64:
		return NumberCell(t)
	case int:
		return NumberCell(float64(t))
	case bool:
		return BoolCell(t)
	default:
		return EmptyCell()
	}
}

// NewGrid allocates a rows x cols grid of empty cells
func NewGrid(rows, cols int) Grid {
	g := make(Grid, rows)
	for r := range g {
		g[r] = make([]CellValue, cols)
	}
	return g
}

// Clone returns a deep copy of the grid
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for r, row := range g {
		out[r] = append([]CellValue(nil), row...)
	}
	return out
}

// Dimensions returns the row count and the widest row's column count
func (g Grid) Dimensions() (rows, cols int) {
	rows = len(g)
	for _, row := range g {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return rows, cols
}

// StringGrid builds a grid of string cells; "" becomes an empty cell.
func StringGrid(rows ...[]string) Grid {
	g := make(Grid, len(rows))
	for r, row := range rows {
		g[r] = make([]CellValue, len(row))
		for c, s := range row {
			if s != "" {
				g[r][c] = StringCell(s)
			}
		}
	}
	return g
}
