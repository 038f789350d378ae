package finance_test

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/usawrapco/wrapdoc/pkg/finance"
	"github.com/usawrapco/wrapdoc/pkg/job"
	"github.com/usawrapco/wrapdoc/pkg/money"
)

func ExampleCompute() {
	rec := &job.Record{
		LineItems: []job.LineItem{
			{Name: "Full Commercial Wrap", Amount: money.MustParse("$4,250.00")},
			{Name: "Window Perf", Amount: money.MustParse("750")},
		},
		DepositPaid: money.MustParse("250"),
	}

	f, err := finance.Compute(rec, finance.DefaultConfig())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("subtotal:", money.Format(f.Subtotal))
	fmt.Println(f.Tax.Label+":", money.Format(f.Tax.Amount))
	fmt.Println("balance:", money.Format(f.BalanceDue))
	// Output:
	// subtotal: $5,000.00
	// Sales Tax (8.1%): $405.00
	// balance: $5,155.00
}

func ExampleClassifyMargin() {
	for _, pct := range []string{"75", "74.999", "73", "72.999"} {
		tier := finance.ClassifyMargin(decimal.RequireFromString(pct), 75, 73)
		fmt.Println(pct, tier)
	}
	// Output:
	// 75 ABOVE TARGET
	// 74.999 BONUS ELIGIBLE
	// 73 BONUS ELIGIBLE
	// 72.999 BELOW THRESHOLD
}
