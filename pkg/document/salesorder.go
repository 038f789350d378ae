package document

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/usawrapco/wrapdoc/pkg/finance"
	"github.com/usawrapco/wrapdoc/pkg/job"
	"github.com/usawrapco/wrapdoc/pkg/money"
	"github.com/usawrapco/wrapdoc/pkg/render/layout"
	"github.com/usawrapco/wrapdoc/pkg/render/styles"
)

const (
	cogsRowH    = 13.0
	summaryH    = 90.0
	summaryRowH = 10.0
)

var inProgress = layout.Hex("#1a4a8a")

// salesOrderStatus returns the pill colors of a sales order status.
func salesOrderStatus(status string) (fg, bg layout.Color) {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "APPROVED":
		return styles.White, styles.Green
	case "PENDING":
		return styles.White, styles.Amber
	case "IN PROGRESS":
		return styles.White, inProgress
	case "COMPLETED":
		return styles.White, styles.Navy
	}
	return styles.White, styles.Steel
}

func assembleSalesOrder(d *doc) error {
	p := d.env.Profile
	r := d.rec
	f := d.fin
	printed := d.env.printed().Format(dateLayout)
	d.start(chrome{
		title:    job.SalesOrder.Title(),
		ref:      r.Ref,
		note:     p.SalesOrder.Footer,
		extra:    joinNonEmpty("  -  Printed ", "SO: "+r.Ref, printed),
		fill:     styles.Navy,
		text:     styles.SteelL,
		noteFont: layout.F(layout.Bold, 6.5),
	})

	status := strings.ToUpper(firstNonEmpty(r.Status, "Approved"))
	sfg, sbg := salesOrderStatus(status)
	badges := []badge{
		{Text: "! " + p.SalesOrder.Confidential, FG: styles.White, BG: styles.Red},
		{Text: status, FG: sfg, BG: sbg},
	}
	if strings.EqualFold(r.Priority, "high") {
		badges = append(badges, badge{Text: "^ HIGH PRIORITY", FG: styles.White, BG: styles.Red})
	}
	agent := r.Agent
	if agent != "" {
		agent += " (" + f.Commission.Type + ")"
	}
	hdr := header{
		env:    d.env,
		Title:  job.SalesOrder.Title(),
		Kicker: strings.ToUpper(firstNonEmpty(r.Division, "Wraps")) + "  -  Internal Financial Summary  -  Not for Customer Distribution",
		Ref:    r.Ref,
		Lines: []string{
			"EST Ref: " + orDash(r.EstimateRef),
			joinNonEmpty("  -  ", "Date: "+d.date(), "Install: "+orDash(r.InstallDate)),
		},
		Badges: badges,
		Band:   62,
		StripH: 14,
		Strip: []metaItem{
			{"AGENT", agent},
			{"INSTALLER", r.Installer},
			{"DESIGNER", r.Designer},
			{"REF", r.Ref},
		},
	}

	if err := d.add(
		hdr,
		layout.Row{Label: "job", Gap: styles.Gap, Weights: []float64{0.52, 0.48}, Children: []layout.Section{
			sized(tinted(card("vehicle", "VEHICLE", styles.Ptr(styles.SteelD),
				text(r.VehicleName(), styles.Heading, styles.Ink),
				text(joinNonEmpty("  -  ", "VIN: "+orDash(r.VIN), r.Color, r.PlateNumber()), styles.Small, styles.DkGray),
				field("SCOPE", r.Scope),
				text(joinNonEmpty("  -  ", "Material: "+orDash(r.Material), sqft(r.Sqft)), styles.Small, styles.DkGray),
			), styles.Off, styles.LtGray), 64),
			sized(card("client", "CLIENT", styles.Ptr(styles.SteelD),
				text(r.ClientName, styles.Heading, styles.Ink),
				text(r.ClientPhone, styles.Small, styles.DkGray),
				text(r.ClientEmail, styles.Small, styles.DkGray),
				text(r.ClientCompany, styles.Small, styles.DkGray),
			), 64),
		}},
		sectionHeader("Line Items & COGS Breakdown", "Revenue / Material / Labor / Design / GP / GPM"),
	); err != nil {
		return err
	}

	if len(f.Lines) > 0 {
		if err := d.table(cogsTable(f), cogsTotals(f)); err != nil {
			return err
		}
	}

	if err := d.add(
		sectionHeader("Financial Summary", "INTERNAL - Confidential"),
		layout.Row{Label: "financial summary", Gap: styles.Gap, Children: []layout.Section{
			sized(revenueCard(r, f), summaryH),
			sized(marginCard(r, f), summaryH),
			sized(commissionCard(r, f, d.env.Finance), summaryH),
		}},
	); err != nil {
		return err
	}

	if len(r.Panels) > 0 {
		if err := d.add(
			sectionHeader("Panels to Wrap", sqft(r.Sqft)),
			panelGrid(r.Panels, 4, 12, 8),
		); err != nil {
			return err
		}
	}

	return d.add(
		noteColumns("notes", []noteText{
			{"AGENT NOTES", r.AgentNotes},
			{"PRODUCTION", r.ProdNotes},
			{"INTERNAL NOTES", r.InternalNotes},
		}, 46),
		card("sign-off", "AUTHORIZATION & SIGN-OFF", nil,
			signatureLine("sign-off", p.SalesOrder.SignOff, 18)),
	)
}

func sqft(s string) string {
	if s == "" {
		return ""
	}
	return s + " sqft"
}

var cogsColumns = []layout.Column{
	{Title: "DESCRIPTION", Weight: 3.2},
	{Title: "REVENUE", Weight: 1.1, Align: layout.AlignRight},
	{Title: "MATERIAL", Weight: 1, Align: layout.AlignRight},
	{Title: "LABOR", Weight: 1, Align: layout.AlignRight},
	{Title: "DESIGN", Weight: 0.9, Align: layout.AlignRight},
	{Title: "TOTAL COGS", Weight: 1.1, Align: layout.AlignRight},
	{Title: "GROSS PROFIT", Weight: 1.2, Align: layout.AlignRight},
	{Title: "GPM %", Weight: 0.8, Align: layout.AlignRight},
}

// cogsTable is the per-line revenue and cost breakdown.
func cogsTable(f *finance.Financials) layout.Table {
	rows := make([][]layout.Section, 0, len(f.Lines))
	for _, l := range f.Lines {
		rows = append(rows, cogsRow(l, styles.Medium, styles.BodyBold))
	}
	return layout.Table{
		Label:      "cogs",
		Columns:    cogsColumns,
		Rows:       rows,
		HeaderFont: layout.F(layout.Bold, 6.5),
		HeaderText: styles.White,
		HeaderFill: styles.Navy,
		HeaderH:    cogsRowH,
		Fill:       styles.RowAlt,
		Stripe:     styles.White,
		Rule:       styles.Ptr(styles.LtGray),
		PadX:       6,
		Gap:        4,
	}
}

func cogsRow(l finance.LineFinancials, font, emphasis layout.Font) []layout.Section {
	gpColor := styles.Green
	if !l.GrossProfit.IsPositive() {
		gpColor = styles.Red
	}
	tier, _ := styles.TierColors(l.Tier)
	cell := func(v decimal.Decimal, c layout.Color) layout.Section {
		return layout.Line{Text: money.Format(v), Font: font, Color: c, Align: layout.AlignRight, Height: cogsRowH}
	}
	return []layout.Section{
		layout.Line{Text: l.Name, Font: emphasis, Color: styles.Ink, Height: cogsRowH},
		cell(l.Revenue, styles.Ink),
		cell(l.Material, styles.DkGray),
		cell(l.Labor, styles.DkGray),
		cell(l.Design, styles.DkGray),
		cell(l.COGS, styles.SteelD),
		cell(l.GrossProfit, gpColor),
		layout.Line{Text: money.FormatPercent(l.MarginPct, 1), Font: emphasis, Color: tier, Align: layout.AlignRight, Height: cogsRowH},
	}
}

// cogsTotals is the totals row under the breakdown, kept with the last line.
func cogsTotals(f *finance.Financials) layout.Section {
	t := f.LineTotals
	t.Name = "TOTALS"
	weights := make([]float64, len(cogsColumns))
	for i, c := range cogsColumns {
		weights[i] = c.Weight
	}
	row := layout.Row{Children: cogsRow(t, styles.BodyBold, styles.BodyBold), Weights: weights, Gap: 4}
	return layout.Fixed("cogs totals", cogsRowH, func(s layout.Surface, r layout.Rect) {
		s.DrawRect(r, layout.Fill(styles.SecBG))
		s.DrawLine(r.X, r.Y, r.Right(), r.Y, styles.SteelD, 1)
		row.Draw(s, r.Inset(6, 0))
	})
}

func summaryRow(label, value string, c layout.Color) layout.Pair {
	return layout.Pair{
		Label: label, Value: value,
		LabelFont: layout.F(layout.Regular, 7), ValueFont: layout.F(layout.Medium, 7),
		LabelColor: styles.DkGray, ValueColor: c,
		Height: summaryRowH,
	}
}

func summaryTotal(label string, v decimal.Decimal) []layout.Section {
	c := styles.Green
	if !v.IsPositive() {
		c = styles.Red
	}
	return []layout.Section{
		layout.Rule{Color: styles.LtGray, Width: styles.Hairline, H: 5},
		layout.Pair{
			Label: label, Value: money.Format(v),
			LabelFont: styles.BodyBold, ValueFont: layout.F(layout.Bold, 9),
			LabelColor: styles.Ink, ValueColor: c,
			Height: 13,
		},
	}
}

func revenueCard(r *job.Record, f *finance.Financials) layout.Card {
	bonus := r.ProductionBonus.Or(decimal.Zero)
	if !r.HasJobCosts() {
		bonus = decimal.Zero
	}
	body := []layout.Section{
		summaryRow(revenueLabel(f.Source), money.Format(f.Revenue), styles.Ink),
		summaryRow("Material Cost", money.Format(f.COGS.Material.Neg()), styles.SteelD),
		summaryRow("Installer Pay", money.Format(f.COGS.Labor.Sub(bonus).Neg()), styles.SteelD),
		summaryRow("Design Fee", money.Format(f.COGS.Design.Neg()), styles.SteelD),
	}
	if !bonus.IsZero() {
		body = append(body, summaryRow("Production Bonus", money.Format(bonus.Neg()), styles.SteelD))
	}
	body = append(body, summaryTotal("Gross Profit", f.GrossProfit)...)
	return card("revenue", "REVENUE vs COGS", styles.Ptr(styles.SteelD), body...)
}

func revenueLabel(s finance.RevenueSource) string {
	if s == finance.RevenueSalePrice {
		return "Sale Price"
	}
	return "Subtotal"
}

// marginCard shows the margin large, its tier, and a bar with the target
// and bonus threshold marked.
func marginCard(r *job.Record, f *finance.Financials) layout.Card {
	fg, _ := styles.TierColors(f.Tier)
	gauge := layout.Fixed("margin gauge", 62, func(s layout.Surface, rc layout.Rect) {
		cx := rc.X + rc.W/2
		s.DrawText(cx, rc.Y+20, f.MarginDisplay(), layout.F(layout.Bold, 22), fg, layout.AlignCenter)
		s.DrawText(cx, rc.Y+30, f.Tier.String(), styles.Label, fg, layout.AlignCenter)
		drawMarginBar(s, layout.Rect{X: rc.X + 2, Y: rc.Y + 35, W: rc.W - 4, H: 7}, f)
		small := layout.F(layout.Regular, 6)
		s.DrawText(rc.X+2, rc.Y+50, fmt.Sprintf("Target: %g%%", f.TargetPct), small, styles.MdGray, layout.AlignLeft)
		s.DrawText(cx, rc.Y+50, fmt.Sprintf("Bonus: %g%%", f.BonusThresholdPct), small, styles.MdGray, layout.AlignCenter)
		s.DrawText(rc.Right()-2, rc.Y+50, "Actual: "+f.MarginDisplay(), small, styles.MdGray, layout.AlignRight)
	})
	return card("margin", "GROSS PROFIT MARGIN", styles.Ptr(styles.SteelD),
		gauge,
		bonusFlags(r, f),
	)
}

func drawMarginBar(s layout.Surface, r layout.Rect, f *finance.Financials) {
	track := styles.LtGray
	s.DrawRoundedRect(r, 2, layout.Fill(track))
	pct := f.MarginPct.InexactFloat64() / 100
	pct = min(max(pct, 0), 1)
	fg, _ := styles.TierColors(f.Tier)
	s.DrawRoundedRect(layout.Rect{X: r.X, Y: r.Y, W: max(r.W*pct, 4), H: r.H}, 2, layout.Fill(fg))
	tx := r.X + r.W*f.TargetPct/100
	s.DrawLine(tx, r.Y-2, tx, r.Bottom()+2, styles.Navy, 1.5)
	bx := r.X + r.W*f.BonusThresholdPct/100
	s.DrawLine(bx, r.Y, bx, r.Bottom(), styles.Amber, 1)
}

func bonusEarned(r *job.Record, f *finance.Financials) bool {
	if r.GPMBonusEarned != nil {
		return *r.GPMBonusEarned
	}
	return f.Tier != finance.BelowThreshold
}

// bonusFlags is the Torq training and GPM bonus status line.
func bonusFlags(r *job.Record, f *finance.Financials) layout.Section {
	torq := r.TorqCompleted
	earned := bonusEarned(r, f)
	return layout.Fixed("bonus flags", 10, func(s layout.Surface, rc layout.Rect) {
		font := layout.F(layout.Regular, 6)
		bold := layout.F(layout.Bold, 6)
		base := layout.Baseline(rc.Y, rc.H, font)
		flag := func(x float64, label, yes, no string, ok bool) {
			s.DrawText(x, base, label, font, styles.DkGray, layout.AlignLeft)
			c, v := styles.Red, no
			if ok {
				c, v = styles.Green, yes
			}
			s.DrawText(x+s.MeasureText(label, font)+3, base, v, bold, c, layout.AlignLeft)
		}
		flag(rc.X, "Torq Training:", "Completed", "Incomplete", torq)
		flag(rc.X+rc.W/2+2, "GPM Bonus:", "Earned", "Not Earned", earned)
	})
}

func commissionCard(r *job.Record, f *finance.Financials, cfg finance.Config) layout.Card {
	c := f.Commission
	sign := func(ok bool) string {
		if ok {
			return "+"
		}
		return "-"
	}
	bonusNote := fmt.Sprintf("Torq: %s (+%g%%)  -  GPM Bonus: %s (+%g%%)",
		sign(r.TorqCompleted), cfg.CommissionBonusRates[finance.BonusTorqCompleted],
		sign(bonusEarned(r, f)), cfg.CommissionBonusRates[finance.BonusGPMBonusEarned])

	body := []layout.Section{
		summaryRow("Gross Profit", money.Format(f.GrossProfit), styles.Ink),
		summaryRow("Base Rate ("+c.Type+")", money.FormatPercent(c.BaseRatePct, 1), styles.DkGray),
		summaryRow("Bonus Adjustments", "+"+money.FormatPercent(c.BonusAdjustmentPct, 1), styles.Amber),
		summaryRow("Effective Rate", money.FormatPercent(c.EffectiveRatePct, 1), styles.Navy),
	}
	body = append(body, summaryTotal("Commission Due", c.Amount)...)
	body = append(body,
		para(fmt.Sprintf("Comm. calculated on GP (%s), NOT on sale price (%s)",
			money.Format(f.GrossProfit), money.Format(f.Revenue)), layout.F(layout.Regular, 5.5), styles.MdGray, 7),
		para(bonusNote, layout.F(layout.Regular, 6), styles.MdGray, 8),
	)
	return card("commission", "COMMISSION CALCULATION", styles.Ptr(styles.SteelD), body...)
}
