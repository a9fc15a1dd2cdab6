package host

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// MaxColumns and MaxRows bound addresses to what common spreadsheet hosts accept
const (
	MaxColumns = 16384
	MaxRows    = 1048576
)

// Range is a rectangular block of cells on one sheet. Rows and columns are
// zero-based and inclusive on both ends.
type Range struct {
	Sheet    string
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// Rows returns the number of rows the range spans
func (r Range) Rows() int { return r.EndRow - r.StartRow + 1 }

// Cols returns the number of columns the range spans
func (r Range) Cols() int { return r.EndCol - r.StartCol + 1 }

// Cells returns the number of cells in the range
func (r Range) Cells() int { return r.Rows() * r.Cols() }

// IsCell reports whether the range is a single cell
func (r Range) IsCell() bool { return r.StartRow == r.EndRow && r.StartCol == r.EndCol }

// Contains reports whether the zero-based cell lies inside the range
func (r Range) Contains(row, col int) bool {
	return row >= r.StartRow && row <= r.EndRow && col >= r.StartCol && col <= r.EndCol
}

// Offset returns the address of the cell at (row, col) relative to the
// top-left corner of the range.
func (r Range) Offset(row, col int) (string, error) {
	if row < 0 || col < 0 || row >= r.Rows() || col >= r.Cols() {
		return "", fmt.Errorf("offset (%d,%d) outside %s", row, col, r)
	}
	return FormatAddress(r.Sheet, r.StartRow+row, r.StartCol+col), nil
}

// WithSheet returns r with an empty sheet name replaced by sheet
func (r Range) WithSheet(sheet string) Range {
	if r.Sheet == "" {
		r.Sheet = sheet
	}
	return r
}

// String formats the range in A1 notation. Single cells omit the end corner.
func (r Range) String() string {
	start := FormatAddress(r.Sheet, r.StartRow, r.StartCol)
	if r.IsCell() {
		return start
	}
	return start + ":" + ColumnName(r.EndCol) + strconv.Itoa(r.EndRow+1)
}

// ColumnName converts a zero-based column index to letters (0 -> A, 26 -> AA)
func ColumnName(col int) string {
	if col < 0 {
		return ""
	}
	var buf []byte
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		buf = append([]byte{byte('A' + (n-1)%26)}, buf...)
	}
	return string(buf)
}

// ColumnIndex converts column letters to a zero-based index
func ColumnIndex(letters string) (int, error) {
	if letters == "" {
		return 0, fmt.Errorf("empty column")
	}
	n := 0
	for _, ch := range strings.ToUpper(letters) {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("invalid column %q", letters)
		}
		n = n*26 + int(ch-'A'+1)
		if n > MaxColumns {
			return 0, fmt.Errorf("column %q out of range", letters)
		}
	}
	return n - 1, nil
}

// FormatAddress renders a single cell address. The sheet prefix is omitted
// when sheet is empty and quoted when the name needs it.
func FormatAddress(sheet string, row, col int) string {
	cell := ColumnName(col) + strconv.Itoa(row+1)
	if sheet == "" {
		return cell
	}
	return QuoteSheet(sheet) + "!" + cell
}

// QuoteSheet wraps a sheet name in single quotes unless it is a plain identifier
func QuoteSheet(sheet string) string {
	plain := sheet != ""
	for _, ch := range sheet {
		if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && ch != '_' && ch != '.' {
			plain = false
			break
		}
	}
	if plain {
		return sheet
	}
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}

// ParseRange parses "A1", "B2:D9", "Sheet1!A1:C3" or "'My Sheet'!C4".
// Corners are normalized so StartRow <= EndRow and StartCol <= EndCol.
func ParseRange(ref string) (Range, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Range{}, fmt.Errorf("empty range")
	}

	var r Range
	cells := ref
	if i := strings.LastIndex(ref, "!"); i >= 0 {
		sheet, err := parseSheet(ref[:i])
		if err != nil {
			return Range{}, fmt.Errorf("parse range %q: %w", ref, err)
		}
		r.Sheet = sheet
		cells = ref[i+1:]
	}

	start, end, found := strings.Cut(cells, ":")
	var err error
	r.StartRow, r.StartCol, err = parseCell(start)
	if err != nil {
		return Range{}, fmt.Errorf("parse range %q: %w", ref, err)
	}
	r.EndRow, r.EndCol = r.StartRow, r.StartCol
	if found {
		r.EndRow, r.EndCol, err = parseCell(end)
		if err != nil {
			return Range{}, fmt.Errorf("parse range %q: %w", ref, err)
		}
	}

	if r.StartRow > r.EndRow {
		r.StartRow, r.EndRow = r.EndRow, r.StartRow
	}
	if r.StartCol > r.EndCol {
		r.StartCol, r.EndCol = r.EndCol, r.StartCol
	}
	return r, nil
}

func parseSheet(s string) (string, error) {
	if strings.HasPrefix(s, "'") {
		if len(s) < 2 || !strings.HasSuffix(s, "'") {
			return "", fmt.Errorf("unterminated sheet name %s", s)
		}
		s = strings.ReplaceAll(s[1:len(s)-1], "''", "'")
	}
	if s == "" {
		return "", fmt.Errorf("empty sheet name")
	}
	return s, nil
}

func parseCell(s string) (row, col int, err error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "$", "")
	i := 0
	for i < len(s) && unicode.IsLetter(rune(s[i])) {
		i++
	}
	if i == 0 || i == len(s) {
		return 0, 0, fmt.Errorf("invalid cell %q", s)
	}
	col, err = ColumnIndex(s[:i])
	if err != nil {
		return 0, 0, err
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil || n < 1 || n > MaxRows {
		return 0, 0, fmt.Errorf("invalid row in cell %q", s)
	}
	return n - 1, col, nil
}
