package finance

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/usawrapco/wrapdoc/pkg/errors"
	"github.com/usawrapco/wrapdoc/pkg/job"
	"github.com/usawrapco/wrapdoc/pkg/money"
)

var hundred = decimal.NewFromInt(100)

// RevenueSource selects which figure counts as revenue for margin and
// commission purposes.
type RevenueSource int

const (
	// RevenueSubtotal uses the sum of line amounts.
	RevenueSubtotal RevenueSource = iota
	// RevenueSalePrice uses the negotiated sale price.
	RevenueSalePrice
)

func (s RevenueSource) String() string {
	if s == RevenueSalePrice {
		return "sale-price"
	}
	return "subtotal"
}

// ParseRevenueSource accepts "subtotal" and "sale-price".
func ParseRevenueSource(s string) (RevenueSource, error) {
	switch s {
	case "", "subtotal":
		return RevenueSubtotal, nil
	case "sale-price", "sale_price", "saleprice":
		return RevenueSalePrice, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown revenue source %q (valid: subtotal, sale-price)", s)
}

func (s RevenueSource) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *RevenueSource) UnmarshalText(b []byte) error {
	v, err := ParseRevenueSource(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Tier is the margin classification of a job.
type Tier int

const (
	BelowThreshold Tier = iota
	BonusEligible
	AboveTarget
)

// String returns the label printed on sales orders.
func (t Tier) String() string {
	switch t {
	case AboveTarget:
		return "ABOVE TARGET"
	case BonusEligible:
		return "BONUS ELIGIBLE"
	}
	return "BELOW THRESHOLD"
}

func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Tier) UnmarshalText(b []byte) error {
	for _, v := range []Tier{BelowThreshold, BonusEligible, AboveTarget} {
		if v.String() == string(b) {
			*t = v
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown tier %q", b)
}

// ClassifyMargin maps a margin percentage to its tier. Both bounds are
// inclusive: a margin equal to the target is AboveTarget and a margin equal
// to the bonus threshold is BonusEligible.
func ClassifyMargin(marginPct decimal.Decimal, targetPct, bonusThresholdPct float64) Tier {
	switch {
	case marginPct.GreaterThanOrEqual(decimal.NewFromFloat(targetPct)):
		return AboveTarget
	case marginPct.GreaterThanOrEqual(decimal.NewFromFloat(bonusThresholdPct)):
		return BonusEligible
	}
	return BelowThreshold
}

// Tax is the derived sales tax of a job.
type Tax struct {
	Applies bool
	RatePct decimal.Decimal
	Amount  decimal.Decimal
	Label   string // "Sales Tax (8.1%)" or "Tax Exempt"
	Note    string // jurisdiction note, or the resale certificate line when exempt
	Statute string
}

// CostOfGoods is the cost side of a job. Labor includes any production bonus.
type CostOfGoods struct {
	Material decimal.Decimal
	Labor    decimal.Decimal
	Design   decimal.Decimal
	Total    decimal.Decimal
}

// Commission is the sales agent's commission for a job.
type Commission struct {
	Type               string // display label, e.g. "Inbound"
	BaseRatePct        decimal.Decimal
	BonusAdjustmentPct decimal.Decimal
	EffectiveRatePct   decimal.Decimal
	Amount             decimal.Decimal
	Applied            []string // bonus conditions that contributed
}

// LineFinancials is the per-line breakdown shown on sales orders.
type LineFinancials struct {
	Name        string
	Revenue     decimal.Decimal
	Material    decimal.Decimal
	Labor       decimal.Decimal
	Design      decimal.Decimal
	COGS        decimal.Decimal
	GrossProfit decimal.Decimal
	MarginPct   decimal.Decimal
	Tier        Tier
}

// Financials are the figures derived from a job record. They are computed
// fresh for every render and never persisted.
type Financials struct {
	Source      RevenueSource
	Subtotal    decimal.Decimal
	Tax         Tax
	Revenue     decimal.Decimal
	COGS        CostOfGoods
	GrossProfit decimal.Decimal
	MarginPct   decimal.Decimal // full precision, used for classification
	Tier        Tier
	Commission  Commission

	Deposit    decimal.Decimal
	Payments   decimal.Decimal
	BalanceDue decimal.Decimal

	Lines      []LineFinancials
	LineTotals LineFinancials

	TargetPct         float64
	BonusThresholdPct float64
}

// MarginDisplay returns the margin rounded to one decimal, e.g. "75.0%".
func (f *Financials) MarginDisplay() string {
	return money.FormatPercent(f.MarginPct, 1)
}

type options struct {
	source         RevenueSource
	defaultDeposit bool
	pricedLines    bool
}

// Option configures [Compute].
type Option func(*options)

// WithRevenue selects the revenue source. Defaults to [RevenueSubtotal].
func WithRevenue(s RevenueSource) Option {
	return func(o *options) { o.source = s }
}

// WithDefaultDeposit applies the configured design deposit when the record
// does not carry one. Estimates quote the balance after the deposit.
func WithDefaultDeposit() Option {
	return func(o *options) { o.defaultDeposit = true }
}

// WithPricedLines makes a line without an amount or revenue an error
// instead of a zero. Customer-facing documents bill every line.
func WithPricedLines() Option {
	return func(o *options) { o.pricedLines = true }
}

// Compute derives the financial figures of rec under cfg.
//
// It fails with INVALID_AMOUNT when any amount it reads is not numeric, or
// when a line is unpriced under [WithPricedLines]; the error names the field. Negative revenue is allowed and flows through to a
// negative gross profit and commission.
func Compute(rec *job.Record, cfg Config, opts ...Option) (*Financials, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	f := &Financials{
		Source:            o.source,
		TargetPct:         cfg.MarginTargetPct,
		BonusThresholdPct: cfg.MarginBonusThresholdPct,
	}

	r := amountReader{}
	lineRevenue := decimal.Zero
	hasLineRevenue := false
	for i, item := range rec.LineItems {
		amt := item.Amount
		if !amt.IsSet() {
			amt = item.Revenue
		}
		if o.pricedLines && !amt.IsSet() {
			r.missing("line_items[%d].amount", i)
		}
		f.Subtotal = f.Subtotal.Add(r.read(amt, "line_items[%d].amount", i))

		rev := item.Revenue
		if !rev.IsSet() {
			rev = item.Amount
		}
		hasLineRevenue = hasLineRevenue || rev.IsSet()
		lf := LineFinancials{
			Name:     item.Name,
			Revenue:  r.read(rev, "line_items[%d].revenue", i),
			Material: r.read(item.MaterialCost, "line_items[%d].material_cost", i),
			Labor:    r.read(item.LaborCost, "line_items[%d].labor_cost", i),
			Design:   r.read(item.DesignCost, "line_items[%d].design_cost", i),
		}
		lf.fill(cfg)
		lineRevenue = lineRevenue.Add(lf.Revenue)
		f.Lines = append(f.Lines, lf)
	}
	if r.err != nil {
		return nil, r.err
	}
	f.LineTotals = sumLines(f.Lines, cfg)

	f.Tax = computeTax(f.Subtotal, rec, cfg)

	if rec.HasJobCosts() {
		f.COGS.Material = r.read(rec.MaterialCost, "material_cost")
		f.COGS.Labor = r.read(rec.Labor(), "labor_cost").Add(r.read(rec.ProductionBonus, "production_bonus"))
		f.COGS.Design = r.read(rec.Design(), "design_cost")
	} else {
		f.COGS.Material = f.LineTotals.Material
		f.COGS.Labor = f.LineTotals.Labor
		f.COGS.Design = f.LineTotals.Design
	}
	f.COGS.Total = f.COGS.Material.Add(f.COGS.Labor).Add(f.COGS.Design)

	switch {
	case o.source == RevenueSalePrice && rec.SalePrice.IsSet():
		f.Revenue = r.read(rec.SalePrice, "sale_price")
	case o.source == RevenueSalePrice && hasLineRevenue:
		f.Revenue = lineRevenue
	default:
		f.Revenue = f.Subtotal
	}

	f.Deposit = r.read(rec.DepositPaid, "deposit_paid")
	if !rec.DepositPaid.IsSet() && o.defaultDeposit {
		f.Deposit = decimal.NewFromFloat(cfg.DesignDeposit)
	}
	for i, p := range rec.Payments {
		f.Payments = f.Payments.Add(r.read(p.Amount, "payments[%d].amount", i))
	}
	if r.err != nil {
		return nil, r.err
	}

	f.GrossProfit = f.Revenue.Sub(f.COGS.Total)
	f.MarginPct = marginPct(f.GrossProfit, f.Revenue)
	f.Tier = ClassifyMargin(f.MarginPct, cfg.MarginTargetPct, cfg.MarginBonusThresholdPct)
	f.Commission = computeCommission(f.GrossProfit, f.Tier, rec, cfg)
	f.BalanceDue = f.Subtotal.Add(f.Tax.Amount).Sub(f.Deposit).Sub(f.Payments)

	return f, nil
}

func computeTax(subtotal decimal.Decimal, rec *job.Record, cfg Config) Tax {
	rate := decimal.NewFromFloat(cfg.TaxRatePct)
	if rec.B2BExempt {
		note := "WA Resale Cert on File"
		if rec.ExemptCert != "" {
			note += " - " + rec.ExemptCert
		}
		return Tax{
			RatePct: rate,
			Amount:  decimal.Zero,
			Label:   "Tax Exempt",
			Note:    note,
			Statute: cfg.ExemptStatute,
		}
	}
	return Tax{
		Applies: true,
		RatePct: rate,
		Amount:  subtotal.Mul(rate).Div(hundred).Round(2),
		Label:   fmt.Sprintf("Sales Tax (%s%%)", rate.String()),
		Note:    cfg.TaxNote,
		Statute: cfg.TaxStatute,
	}
}

func computeCommission(gp decimal.Decimal, tier Tier, rec *job.Record, cfg Config) Commission {
	ctype := rec.Commission()
	if ctype == "" {
		ctype = "inbound"
	}
	c := Commission{
		Type:        cases.Title(language.English).String(ctype),
		BaseRatePct: cfg.baseRate(ctype),
	}

	bonusEarned := tier != BelowThreshold
	if rec.GPMBonusEarned != nil {
		bonusEarned = *rec.GPMBonusEarned
	}
	conditions := []struct {
		key string
		ok  bool
	}{
		{BonusTorqCompleted, rec.TorqCompleted},
		{BonusGPMBonusEarned, bonusEarned},
	}
	for _, cond := range conditions {
		rate, known := cfg.CommissionBonusRates[cond.key]
		if !cond.ok || !known {
			continue
		}
		c.BonusAdjustmentPct = c.BonusAdjustmentPct.Add(decimal.NewFromFloat(rate))
		c.Applied = append(c.Applied, cond.key)
	}

	c.EffectiveRatePct = c.BaseRatePct.Add(c.BonusAdjustmentPct)
	c.Amount = gp.Mul(c.EffectiveRatePct).Div(hundred).Round(2)
	return c
}

func marginPct(gp, revenue decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return gp.Div(revenue).Mul(hundred)
}

func (l *LineFinancials) fill(cfg Config) {
	l.COGS = l.Material.Add(l.Labor).Add(l.Design)
	l.GrossProfit = l.Revenue.Sub(l.COGS)
	l.MarginPct = marginPct(l.GrossProfit, l.Revenue)
	l.Tier = ClassifyMargin(l.MarginPct, cfg.MarginTargetPct, cfg.MarginBonusThresholdPct)
}

func sumLines(lines []LineFinancials, cfg Config) LineFinancials {
	t := LineFinancials{Name: "Total"}
	for _, l := range lines {
		t.Revenue = t.Revenue.Add(l.Revenue)
		t.Material = t.Material.Add(l.Material)
		t.Labor = t.Labor.Add(l.Labor)
		t.Design = t.Design.Add(l.Design)
	}
	t.fill(cfg)
	return t
}

// amountReader reads amounts and keeps the first parse failure.
type amountReader struct {
	err error
}

func (r *amountReader) read(a money.Amount, field string, args ...any) decimal.Decimal {
	v, err := a.Value()
	if err != nil {
		if r.err == nil {
			r.err = errors.Wrap(errors.ErrCodeInvalidAmount, err, field, args...)
		}
		return decimal.Zero
	}
	return v
}

func (r *amountReader) missing(field string, args ...any) {
	if r.err == nil {
		r.err = errors.New(errors.ErrCodeInvalidAmount, field, args...)
	}
}
