package commands

import (
	"github.com/spf13/cobra"

	"github.com/pluqqy/taxo-terminal/pkg/mutators"
)

// NewTargetingCommand creates the targeting command with trim and keep
func NewTargetingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "targeting",
		Aliases: []string{"target"},
		Short:   "Trim or keep caret targeting patterns",
		Long: `Rewrite cells holding caret targeting patterns such as ^AT^.

Only runs in targeting mode, when the first text cell of the range holds a
targeting pattern and no pipe.`,
	}

	cmd.AddCommand(newTargetingSubcommand("trim", "Remove every ^CODE^ pattern", mutators.TrimTargeting()))
	cmd.AddCommand(newTargetingSubcommand("keep", "Keep only the ^CODE^ patterns", mutators.KeepTargeting()))

	return cmd
}

func newTargetingSubcommand(use, short string, op mutators.Operation) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   use + " [range]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutation(cmd, rangeArg(args, 0), op, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the changes without writing them")

	return cmd
}
