package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/usawrapco/wrapdoc/pkg/errors"
	"github.com/usawrapco/wrapdoc/pkg/export"
	"github.com/usawrapco/wrapdoc/pkg/finance"
	"github.com/usawrapco/wrapdoc/pkg/job"
	"github.com/usawrapco/wrapdoc/pkg/storage"
)

// exportCommand creates the "salesorder export" subcommand.
func (c *CLI) exportCommand() *cobra.Command {
	var sample bool

	cmd := &cobra.Command{
		Use:   "export <job-record> [output.xlsx]",
		Short: "Write the sales order cost breakdown as a workbook",
		Long: `Write the sales order cost breakdown as an Excel workbook.

The workbook has a COGS sheet with one row per line item and a Summary
sheet with gross profit, margin tier and commission. The output defaults to
<ref>.xlsx and may be an s3://bucket/key URL.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, output := "", ""
			switch {
			case sample && len(args) > 1:
				return errors.New(errors.ErrCodeInvalidInput, "--sample takes at most an output path")
			case sample && len(args) == 1:
				output = args[0]
			case !sample && len(args) == 0:
				return errors.New(errors.ErrCodeInvalidInput, "no job record given (pass a path, - for stdin, or --sample)")
			case !sample:
				input = args[0]
				if len(args) == 2 {
					output = args[1]
				}
			}
			return c.runExport(cmd.Context(), input, output, sample)
		},
	}

	cmd.Flags().BoolVar(&sample, "sample", false, "export the built-in sample record")
	return cmd
}

func (c *CLI) runExport(ctx context.Context, input, output string, sample bool) error {
	rec, err := c.loadRecord(ctx, job.SalesOrder, input, sample)
	if err != nil {
		return err
	}
	if output == "" {
		if err := errors.ValidateRef(rec.Ref); err != nil {
			return fmt.Errorf("cannot name the output after ref: %w", err)
		}
		output = rec.Ref + ".xlsx"
	}

	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	fin, err := runner.Financials(rec, finance.RevenueSalePrice)
	if err != nil {
		return err
	}
	data, err := export.SalesOrder(rec, fin, time.Now())
	if err != nil {
		return err
	}
	loc, err := runner.Store(ctx, output, data, storage.ContentType(output))
	if err != nil {
		return err
	}

	printSuccess("Sales order workbook %s", rec.Ref)
	printFile(loc)
	printDetail("%s margin · %s", fin.MarginDisplay(), fin.Tier)
	return nil
}
