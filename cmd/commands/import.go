package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pluqqy/taxo-terminal/internal/cli"
)

// NewImportCommand creates the import command
func NewImportCommand() *cobra.Command {
	var sheet string
	var force bool

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Load a CSV file into a workbook sheet",
		Long: `Replace the contents of a sheet with the rows of a CSV file.

Numbers and TRUE/FALSE become typed cells, blank fields become empty cells
and everything else is text. The sheet defaults to the file name.`,
		Example: `  taxo import media-plan.csv
  taxo import media-plan.csv --sheet Campaigns --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := cli.ValidateFilePath(path); err != nil {
				return err
			}
			if sheet == "" {
				sheet = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}
			if err := cli.ValidateSheetName(sheet); err != nil {
				return err
			}

			session, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer session.Close()

			ctx := commandContext(cmd)
			if !force {
				rows, _, err := session.Workbook.Bounds(ctx, sheet)
				if err == nil && rows > 0 {
					ok, err := cli.Confirm(fmt.Sprintf("Sheet %s already has %d row(s). Replace it?", sheet, rows), false)
					if err != nil {
						return err
					}
					if !ok {
						cli.PrintInfo("Import cancelled")
						return nil
					}
				}
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()

			n, err := session.Workbook.ImportCSV(ctx, f, sheet)
			if err != nil {
				return err
			}

			cli.PrintSuccess("Imported %d row(s) into %s", n, sheet)
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Target sheet (defaults to the file name)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace a sheet that already has data without asking")

	return cmd
}
