package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pluqqy/taxo-terminal/internal/cli"
	"github.com/pluqqy/taxo-terminal/pkg/mutators"
)

// NewExtractCommand creates the extract command with its segment and
// activation subcommands
func NewExtractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Replace taxonomy cells with one of their parts",
		Long: `Rewrite every taxonomy cell in a range with a single part of it.

The range is selected first, so the preview mode follows the first text
cell of the range. Extraction only runs in normal mode: a range whose first
text cell is a targeting pattern is refused.`,
	}

	cmd.AddCommand(newExtractSegmentCommand())
	cmd.AddCommand(newExtractActivationCommand())

	return cmd
}

func newExtractSegmentCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "segment <n> [range]",
		Short: "Keep only the n-th pipe-delimited segment (1-9)",
		Example: `  # Keep the client segment of a column
  taxo extract segment 3 Campaigns!A2:A20

  # Show the changes without writing them
  taxo extract segment 3 A2:A20 --dry-run`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("segment must be a number: %s", args[0])
			}
			if err := cli.ValidateSegment(n); err != nil {
				return err
			}
			return runMutation(cmd, rangeArg(args, 1), mutators.ExtractSegment(n), dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the changes without writing them")

	return cmd
}

func newExtractActivationCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "activation [range]",
		Short:   "Keep only the activation id after the first colon",
		Example: `  taxo extract activation Campaigns!A2:A20`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutation(cmd, rangeArg(args, 0), mutators.ExtractActivation(), dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the changes without writing them")

	return cmd
}

func rangeArg(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return ""
}
