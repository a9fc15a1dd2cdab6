package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/pluqqy/taxo-terminal/internal/cli"
	"github.com/pluqqy/taxo-terminal/pkg/models"
	"github.com/pluqqy/taxo-terminal/pkg/taxonomy"
)

// clipboardWrite is replaced in tests
var clipboardWrite = clipboard.WriteAll

// NewParseCommand creates the parse command
func NewParseCommand() *cobra.Command {
	var copyField string

	cmd := &cobra.Command{
		Use:   "parse <text>",
		Short: "Classify a taxonomy string or targeting pattern",
		Long: `Parse a single cell value without touching the workbook.

A value containing a pipe is a taxonomy string: up to nine pipe-delimited
segments, optionally followed by an activation id after the first colon.
A value without a pipe that contains a ^CODE^ pattern is a targeting
pattern.

Use --copy to put one field on the system clipboard. The field is a
segment number (1-9), "activation" or "targeting".`,
		Example: `  taxo parse "FY25|Q2|Brand|NSW|Summer Launch:ABC123"
  taxo parse "FY25|Q2|Brand:ABC123" --copy 3
  taxo parse "^AT^ Adults 25-54" -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := outputFormat(cmd)
			if err := cli.ValidateOutputFormat(format); err != nil {
				return err
			}

			record := taxonomy.Parse(args[0])
			if strings.TrimSpace(args[0]) != "" {
				record.SelectedCellCount = 1
			}

			if copyField != "" {
				value, err := recordField(record, copyField)
				if err != nil {
					return err
				}
				if err := clipboardWrite(value); err != nil {
					return fmt.Errorf("failed to copy to clipboard: %w", err)
				}
				cli.PrintSuccess("Copied %s to clipboard", strconv.Quote(value))
			}

			if format != string(cli.FormatText) {
				return cli.OutputResults(cmd.OutOrStdout(), format, record)
			}
			cli.WriteRecord(cmd.OutOrStdout(), record)
			return nil
		},
	}

	cmd.Flags().StringVar(&copyField, "copy", "", "Copy a field to the clipboard (1-9, activation, targeting)")

	return cmd
}

// recordField looks up a field of record by name for --copy
func recordField(record models.ParsedRecord, field string) (string, error) {
	switch strings.ToLower(field) {
	case "activation":
		if record.HasTargetingPattern {
			return "", fmt.Errorf("a targeting pattern has no activation id")
		}
		return record.ActivationID, nil
	case "targeting":
		if !record.HasTargetingPattern {
			return "", fmt.Errorf("no targeting pattern found")
		}
		return record.TargetingText, nil
	}

	n, err := strconv.Atoi(field)
	if err != nil {
		return "", fmt.Errorf("unknown field %q (must be 1-9, activation, or targeting)", field)
	}
	if err := cli.ValidateSegment(n); err != nil {
		return "", err
	}
	return record.Segment(n), nil
}
