package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/usawrapco/wrapdoc/pkg/errors"
	"github.com/usawrapco/wrapdoc/pkg/finance"
	"github.com/usawrapco/wrapdoc/pkg/job"
	"github.com/usawrapco/wrapdoc/pkg/money"
)

// financialsCommand creates the financials command.
func (c *CLI) financialsCommand() *cobra.Command {
	var (
		revenue string
		sample  string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "financials <job-record>",
		Short: "Print the derived figures of a job record",
		Long: `Print the figures derived from a job record: tax, cost of goods, gross
profit, margin tier, commission and balance due.

Revenue is the line item subtotal by default; use --revenue sale-price to
measure against the sales order's sale price.`,
		Example: `  wrapdoc financials job.json
  wrapdoc financials job.json --revenue sale-price --json
  wrapdoc financials --sample salesorder`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := finance.ParseRevenueSource(revenue)
			if err != nil {
				return err
			}
			if sample == "" && len(args) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "no job record given (pass a path, - for stdin, or --sample TYPE)")
			}
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runFinancials(cmd.Context(), input, sample, src, asJSON)
		},
	}

	cmd.Flags().StringVar(&revenue, "revenue", finance.RevenueSubtotal.String(), "revenue source: subtotal, sale-price")
	cmd.Flags().StringVar(&sample, "sample", "", "use the built-in sample record of this document type")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the figures as JSON")
	return cmd
}

func (c *CLI) runFinancials(ctx context.Context, input, sample string, src finance.RevenueSource, asJSON bool) error {
	var t job.DocType
	if sample != "" {
		var err error
		if t, err = job.ParseDocType(sample); err != nil {
			return err
		}
	}
	rec, err := c.loadRecord(ctx, t, input, sample != "")
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	fin, err := runner.Financials(rec, src)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(fin)
	}
	printFinancials(rec, fin)
	return nil
}

// printFinancials prints fin as aligned key/value lines.
func printFinancials(rec *job.Record, fin *finance.Financials) {
	fmt.Println(StyleTitle.Render(rec.Ref) + " " + StyleDim.Render(rec.ClientName))
	printNewline()

	printKeyValue("Subtotal", money.Format(fin.Subtotal))
	printKeyValue("Tax", fmt.Sprintf("%s  %s", money.Format(fin.Tax.Amount), StyleDim.Render(fin.Tax.Label)))
	printKeyValue("Revenue", fmt.Sprintf("%s  %s", money.Format(fin.Revenue), StyleDim.Render(fin.Source.String())))
	printNewline()

	printKeyValue("Material", money.Format(fin.COGS.Material))
	printKeyValue("Labor", money.Format(fin.COGS.Labor))
	printKeyValue("Design", money.Format(fin.COGS.Design))
	printKeyValue("COGS", money.Format(fin.COGS.Total))
	printKeyValue("Gross profit", money.Format(fin.GrossProfit))
	printKeyValue("Margin", StyleNumber.Render(fin.MarginDisplay())+"  "+tierStyle(fin.Tier).Render(fin.Tier.String()))
	printNewline()

	comm := fin.Commission
	printKeyValue("Commission", fmt.Sprintf("%s  %s", money.Format(comm.Amount),
		StyleDim.Render(fmt.Sprintf("%s · %s", comm.Type, money.FormatPercent(comm.EffectiveRatePct, 1)))))
	if len(comm.Applied) > 0 {
		printDetail("bonus: %s", strings.Join(comm.Applied, ", "))
	}

	if !fin.Deposit.IsZero() || !fin.Payments.IsZero() {
		printNewline()
		printKeyValue("Deposit", money.Format(fin.Deposit))
		printKeyValue("Payments", money.Format(fin.Payments))
	}
	if fin.BalanceDue.GreaterThan(decimal.Zero) {
		printKeyValue("Balance due", StyleHighlight.Render(money.Format(fin.BalanceDue)))
	}
}
