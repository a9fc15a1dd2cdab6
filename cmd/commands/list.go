package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pluqqy/taxo-terminal/internal/cli"
	"github.com/pluqqy/taxo-terminal/pkg/files"
)

type sheetInfo struct {
	Name    string `json:"name" yaml:"name"`
	Rows    int    `json:"rows" yaml:"rows"`
	Columns int    `json:"columns" yaml:"columns"`
	Default bool   `json:"default" yaml:"default"`
}

type listOutput struct {
	Sheets  []sheetInfo `json:"sheets" yaml:"sheets"`
	Recipes []string    `json:"recipes" yaml:"recipes"`
}

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List workbook sheets and saved recipes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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
			names, err := session.Workbook.SheetNames(ctx)
			if err != nil {
				return err
			}

			var out listOutput
			for _, name := range names {
				rows, cols, err := session.Workbook.Bounds(ctx, name)
				if err != nil {
					return err
				}
				out.Sheets = append(out.Sheets, sheetInfo{
					Name:    name,
					Rows:    rows,
					Columns: cols,
					Default: name == session.Workbook.DefaultSheet(),
				})
			}

			out.Recipes, err = files.ListRecipes()
			if err != nil {
				return err
			}

			if format != string(cli.FormatText) {
				return cli.OutputResults(cmd.OutOrStdout(), format, out)
			}

			table := cli.NewTableFormatter(cmd.OutOrStdout())
			table.Header("SHEET", "ROWS", "COLUMNS", "DEFAULT")
			for _, s := range out.Sheets {
				def := ""
				if s.Default {
					def = "*"
				}
				table.Row(s.Name, strconv.Itoa(s.Rows), strconv.Itoa(s.Columns), def)
			}
			table.Flush()

			fmt.Fprintln(cmd.OutOrStdout())
			if len(out.Recipes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recipes found. Run 'taxo examples' to add some.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Recipes:")
			for _, r := range out.Recipes {
				fmt.Fprintf(cmd.OutOrStdout(), "  • %s\n", r)
			}
			return nil
		},
	}

	return cmd
}
