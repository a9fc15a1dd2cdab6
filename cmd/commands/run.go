package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pluqqy/taxo-terminal/internal/cli"
	"github.com/pluqqy/taxo-terminal/pkg/files"
	"github.com/pluqqy/taxo-terminal/pkg/recipe"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <recipe>",
		Short: "Run a recipe of selections, mutations and undos",
		Long: `Run a YAML recipe against the workbook in one session.

Each step optionally selects a range and then runs an action:
extract-segment, extract-activation, trim-targeting, keep-targeting or undo.
Undo history lives for the duration of the run, so a recipe can apply a
mutation and roll it back. The run stops at the first failed or blocked
step unless the recipe sets continue_on_error.

A recipe is looked up as a path first and then under .taxo/recipes.`,
		Example: `  taxo run example-extract-client.yaml
  taxo run ./cleanup.yaml -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := outputFormat(cmd)
			if err := cli.ValidateOutputFormat(format); err != nil {
				return err
			}

			r, err := recipe.Load(files.RecipePath(args[0]))
			if err != nil {
				return err
			}

			session, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer session.Close()

			runner := recipe.NewRunner(session.Workbook, session.Processor, session.Logger)
			report, err := runner.Run(commandContext(cmd), r)
			if err != nil {
				return err
			}

			if format != string(cli.FormatText) {
				if err := cli.OutputResults(cmd.OutOrStdout(), format, report); err != nil {
					return err
				}
			} else {
				writeReport(cmd, report)
			}

			if report.Failed > 0 {
				return fmt.Errorf("recipe %s finished with %d failed step(s)", r.Name, report.Failed)
			}
			return nil
		},
	}

	return cmd
}

func writeReport(cmd *cobra.Command, report *recipe.Report) {
	table := cli.NewTableFormatter(cmd.OutOrStdout())
	table.Header("STEP", "ACTION", "RANGE", "STATUS", "MESSAGE")
	for _, s := range report.Steps {
		table.Row(strconv.Itoa(s.Index), s.Action, s.Select, s.Status, s.Detail)
	}
	table.Flush()

	fmt.Fprintf(cmd.OutOrStdout(), "\n%s: %d succeeded, %d failed in %s\n",
		report.Name, report.Succeeded, report.Failed, report.Duration.Round(time.Millisecond))
}
