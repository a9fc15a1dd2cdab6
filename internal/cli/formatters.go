package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/pluqqy/taxo-terminal/pkg/host"
	"github.com/pluqqy/taxo-terminal/pkg/models"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// TableFormatter aligns tab-separated columns with two spaces of padding
type TableFormatter struct {
	writer *tabwriter.Writer
}

func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

// Header writes the table header
func (t *TableFormatter) Header(columns ...string) {
	fmt.Fprintln(t.writer, strings.Join(columns, "\t"))
	fmt.Fprintln(t.writer, strings.Repeat("-", 60))
}

// Row writes a table row
func (t *TableFormatter) Row(values ...string) {
	fmt.Fprintln(t.writer, strings.Join(values, "\t"))
}

// Flush writes the buffered table to output
func (t *TableFormatter) Flush() {
	t.writer.Flush()
}

// OutputResults formats and outputs results based on the specified format
func OutputResults(w io.Writer, format string, data interface{}) error {
	switch OutputFormat(format) {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)

	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(data); err != nil {
			return err
		}
		return encoder.Close()

	case FormatText:
		fmt.Fprintf(w, "%v\n", data)
		return nil

	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteRecord renders a parsed record as a two-column table
func WriteRecord(w io.Writer, record models.ParsedRecord) {
	table := NewTableFormatter(w)
	table.Header("FIELD", "VALUE")
	table.Row("text", strconv.Quote(record.OriginalText))
	table.Row("cells", strconv.Itoa(record.SelectedCellCount))
	if record.HasTargetingPattern {
		table.Row("mode", models.ModeTargeting.String())
		table.Row("targeting", record.TargetingText)
	} else {
		table.Row("mode", models.ModeNormal.String())
		for i := 1; i <= models.SegmentCount; i++ {
			table.Row(fmt.Sprintf("segment %d", i), record.Segment(i))
		}
		table.Row("activation", record.ActivationID)
	}
	table.Flush()
}

// WriteGrid renders a grid with spreadsheet row and column headers. top and
// left are the 0-based origin of the grid.
func WriteGrid(w io.Writer, values models.Grid, top, left, width int) {
	table := NewTableFormatter(w)
	_, cols := values.Dimensions()
	header := []string{""}
	for c := 0; c < cols; c++ {
		header = append(header, host.ColumnName(left+c))
	}
	table.Header(header...)
	for r, row := range values {
		cells := []string{strconv.Itoa(top + r + 1)}
		for _, v := range row {
			cells = append(cells, TruncateString(v.String(), width))
		}
		table.Row(cells...)
	}
	table.Flush()
}

// TruncateString truncates a string to the specified length
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if maxLen <= 0 || len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// PadRight pads a string with spaces to the right
func PadRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
