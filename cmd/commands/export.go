package commands

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/pluqqy/taxo-terminal/internal/cli"
	"github.com/pluqqy/taxo-terminal/pkg/files"
)

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "export [sheet]",
		Short: "Write a workbook sheet as CSV",
		Long: `Write the used area of a sheet as CSV to stdout or a file.

Examples:
  # Print the default sheet
  taxo export

  # Save a sheet to a file
  taxo export Campaigns --file campaigns.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer session.Close()

			sheet := rangeArg(args, 0)
			if sheet == "" {
				sheet = session.Workbook.DefaultSheet()
			}

			var buf bytes.Buffer
			if err := session.Workbook.ExportCSV(commandContext(cmd), &buf, sheet); err != nil {
				return err
			}

			if outputFile == "" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}

			if err := files.WriteFile(outputFile, buf.String()); err != nil {
				return err
			}
			cli.PrintSuccess("Exported %s to %s", sheet, outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "file", "f", "", "Write to this file instead of stdout")

	return cmd
}
