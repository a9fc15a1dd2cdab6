package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pluqqy/taxo-terminal/internal/cli"
	"github.com/pluqqy/taxo-terminal/pkg/models"
)

type inspectOutput struct {
	Range     string               `json:"range" yaml:"range"`
	Mode      string               `json:"mode" yaml:"mode"`
	UndoDepth int                  `json:"undo_depth" yaml:"undo_depth"`
	Record    *models.ParsedRecord `json:"record" yaml:"record"`
}

// NewInspectCommand creates the inspect command
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [range]",
		Short: "Show the preview record for a range",
		Long: `Select a range and print the record the preview pane would show: the
first text cell of the range parsed, the number of text cells, and the
resulting mode.`,
		Example: `  taxo inspect Campaigns!A2:A20
  taxo inspect A2 -o yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			if err := session.Select(ctx, ref); err != nil {
				return err
			}

			st := session.Store.GetState()
			out := inspectOutput{
				Range:     session.Workbook.Current().String(),
				Mode:      st.CurrentMode.String(),
				UndoDepth: st.UndoDepth(),
				Record:    st.ParsedData,
			}

			if format != string(cli.FormatText) {
				return cli.OutputResults(cmd.OutOrStdout(), format, out)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Range: %s\n\n", out.Range)
			if st.ParsedData == nil {
				fmt.Fprintln(cmd.OutOrStdout(), session.Catalog.GetString("preview.empty", nil))
				return nil
			}
			cli.WriteRecord(cmd.OutOrStdout(), *st.ParsedData)
			return nil
		},
	}

	return cmd
}
