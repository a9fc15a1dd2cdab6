package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pluqqy/taxo-terminal/internal/cli"
	"github.com/pluqqy/taxo-terminal/pkg/diff"
	"github.com/pluqqy/taxo-terminal/pkg/models"
	"github.com/pluqqy/taxo-terminal/pkg/mutators"
)

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// openSession opens the project workbook with a file logger attached
func openSession(cmd *cobra.Command) (*cli.Session, error) {
	cmdCtx, err := cli.NewCommandContext()
	if err != nil {
		return nil, err
	}
	if err := cmdCtx.ValidateProject(); err != nil {
		return nil, err
	}
	if err := cmdCtx.InitLogger(); err != nil {
		return nil, err
	}
	return cmdCtx.OpenSession(commandContext(cmd))
}

// outputFormat reads the global --output flag, defaulting to text
func outputFormat(cmd *cobra.Command) string {
	format, err := cmd.Flags().GetString("output")
	if err != nil || format == "" {
		return string(cli.FormatText)
	}
	return format
}

type cellChange struct {
	Address string           `json:"address" yaml:"address"`
	Before  models.CellValue `json:"before" yaml:"before"`
	After   models.CellValue `json:"after" yaml:"after"`
}

type mutationOutput struct {
	Action      string       `json:"action" yaml:"action"`
	Range       string       `json:"range" yaml:"range"`
	DryRun      bool         `json:"dry_run" yaml:"dry_run"`
	Success     bool         `json:"success" yaml:"success"`
	Processed   int          `json:"processed" yaml:"processed"`
	Rejected    int          `json:"rejected" yaml:"rejected"`
	OperationID int64        `json:"operation_id,omitempty" yaml:"operation_id,omitempty"`
	Message     string       `json:"message" yaml:"message"`
	Changes     []cellChange `json:"changes,omitempty" yaml:"changes,omitempty"`
}

func toChanges(cells []diff.Cell) []cellChange {
	changes := make([]cellChange, 0, len(cells))
	for _, c := range cells {
		changes = append(changes, cellChange{Address: c.Address, Before: c.Before, After: c.After})
	}
	return changes
}

// runMutation applies op to ref, or previews it when dryRun is set
func runMutation(cmd *cobra.Command, ref string, op mutators.Operation, dryRun bool) error {
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

	if dryRun {
		preview, err := session.Processor.Preview(ctx, op)
		if err != nil {
			return err
		}
		out := mutationOutput{
			Action:    op.Kind.String(),
			Range:     preview.Address,
			DryRun:    true,
			Success:   preview.Allowed,
			Processed: preview.Processed,
			Rejected:  preview.Rejected,
			Message:   preview.Message,
			Changes:   toChanges(preview.Changed()),
		}
		if format != string(cli.FormatText) {
			return cli.OutputResults(cmd.OutOrStdout(), format, out)
		}
		writePreview(cmd.OutOrStdout(), preview)
		if !preview.Allowed {
			cli.PrintWarning("%s would be blocked in %s mode", op.Kind, session.Store.GetState().CurrentMode)
		}
		return nil
	}

	res := session.Processor.Apply(ctx, op)
	if format != string(cli.FormatText) {
		if err := cli.OutputResults(cmd.OutOrStdout(), format, mutationOutput{
			Action:      op.Kind.String(),
			Range:       ref,
			Success:     res.Success,
			Processed:   res.ProcessedCount,
			Rejected:    res.Rejected,
			OperationID: res.OperationID,
			Message:     res.Message,
		}); err != nil {
			return err
		}
	} else if res.Success {
		cli.PrintSuccess("%s", res.Message)
	}

	if !res.Success {
		return errors.New(res.Message)
	}
	return nil
}

func writePreview(w io.Writer, preview mutators.PreviewResult) {
	if preview.Diff != "" {
		fmt.Fprint(w, preview.Diff)
	}
	fmt.Fprintln(w, preview.Message)
}
