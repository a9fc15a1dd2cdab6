package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/taxo-terminal/internal/cli"
	"github.com/pluqqy/taxo-terminal/pkg/host"
)

var (
	showSheet string
	showWidth int
)

// NewShowCommand creates the show command
func NewShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [range]",
		Short: "Display workbook cells",
		Long: `Display the cells of a range. Without a range the used area of the
sheet is shown.

Examples:
  # Show everything on the default sheet
  taxo show

  # Show a block of another sheet
  taxo show Campaigns!A1:C5

  # Output as JSON
  taxo show A1:A3 -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runShow,
	}

	cmd.Flags().StringVar(&showSheet, "sheet", "", "Sheet to show when no range is given")
	cmd.Flags().IntVar(&showWidth, "width", 32, "Truncate cell text to this many characters")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	ref := rangeArg(args, 0)
	if err := cli.ValidateRange(ref); err != nil {
		return err
	}
	format := outputFormat(cmd)
	if err := cli.ValidateOutputFormat(format); err != nil {
		return err
	}

	session, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer session.Close()

	ctx := commandContext(cmd)
	wb := session.Workbook

	var r host.Range
	if ref != "" {
		r, err = host.ParseRange(ref)
		if err != nil {
			return err
		}
		r = r.WithSheet(wb.DefaultSheet())
	} else {
		sheet := showSheet
		if sheet == "" {
			sheet = wb.DefaultSheet()
		}
		rows, cols, err := wb.Bounds(ctx, sheet)
		if err != nil {
			return err
		}
		if rows == 0 {
			cli.PrintInfo("Sheet %s is empty", sheet)
			return nil
		}
		r = host.Range{Sheet: sheet, EndRow: rows - 1, EndCol: cols - 1}
	}

	values, err := wb.ReadRange(ctx, r.String())
	if err != nil {
		return err
	}

	if format != string(cli.FormatText) {
		return cli.OutputResults(cmd.OutOrStdout(), format, map[string]interface{}{
			"range":  r.String(),
			"values": values,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n", r.String())
	cli.WriteGrid(cmd.OutOrStdout(), values, r.StartRow, r.StartCol, showWidth)
	return nil
}
