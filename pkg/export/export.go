// Package export writes sales order financials to an Excel workbook for
// the finance team.
//
// The workbook has two sheets: "COGS" with one row per line item and a
// totals row, and "Summary" with revenue, gross profit, margin tier and
// commission. Amounts are stored as numbers with a currency format so
// they can be summed in the spreadsheet.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/usawrapco/wrapdoc/pkg/finance"
	"github.com/usawrapco/wrapdoc/pkg/job"
)

const (
	cogsSheet    = "COGS"
	summarySheet = "Summary"

	currencyFormat = `"$"#,##0.00;[Red]-"$"#,##0.00`
	percentFormat  = `0.0"%"`
)

var cogsHeaders = []string{"Service", "Revenue", "Material", "Labor", "Design", "COGS", "Gross Profit", "GPM"}

type styles struct {
	title, subtitle, header, text, money, pct, totalText, totalMoney, totalPct int
	tier                                                                       map[finance.Tier]int
}

// SalesOrder builds the workbook for rec and its computed financials.
func SalesOrder(rec *job.Record, f *finance.Financials, printed time.Time) ([]byte, error) {
	x := excelize.NewFile()
	defer x.Close()

	if err := x.SetSheetName(x.GetSheetName(0), cogsSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	if _, err := x.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("add summary sheet: %w", err)
	}

	st, err := newStyles(x)
	if err != nil {
		return nil, err
	}
	if err := writeCOGS(x, st, rec, f, printed); err != nil {
		return nil, err
	}
	if err := writeSummary(x, st, rec, f); err != nil {
		return nil, err
	}

	if err := x.SetDocProps(&excelize.DocProperties{
		Title:   "Sales Order " + rec.Ref,
		Subject: "Internal financial summary",
		Created: printed.UTC().Format(time.RFC3339),
	}); err != nil {
		return nil, fmt.Errorf("set doc props: %w", err)
	}

	var buf bytes.Buffer
	if err := x.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeCOGS(x *excelize.File, st *styles, rec *job.Record, f *finance.Financials, printed time.Time) error {
	last := col(len(cogsHeaders))
	widths := []float64{36, 14, 14, 14, 14, 14, 14, 10}
	for i, w := range widths {
		c := col(i + 1)
		if err := x.SetColWidth(cogsSheet, c, c, w); err != nil {
			return fmt.Errorf("set col width %s: %w", c, err)
		}
	}

	header := []struct {
		text  string
		style int
	}{
		{"Sales Order " + rec.Ref, st.title},
		{strings.TrimSpace(rec.ClientName + "  " + rec.VehicleName()), st.subtitle},
		{"Printed " + printed.Format("Jan 2, 2006 3:04 PM"), st.subtitle},
	}
	for i, h := range header {
		row := i + 1
		if err := x.MergeCell(cogsSheet, cell("A", row), cell(last, row)); err != nil {
			return fmt.Errorf("merge header: %w", err)
		}
		x.SetCellValue(cogsSheet, cell("A", row), sanitize(h.text))
		x.SetCellStyle(cogsSheet, cell("A", row), cell(last, row), h.style)
	}

	const headerRow = 5
	for i, h := range cogsHeaders {
		x.SetCellValue(cogsSheet, cell(col(i+1), headerRow), h)
	}
	x.SetCellStyle(cogsSheet, cell("A", headerRow), cell(last, headerRow), st.header)

	row := headerRow + 1
	for _, l := range f.Lines {
		lineRow(x, row, l, st.text, st.money, st.tier[l.Tier])
		row++
	}
	totals := f.LineTotals
	totals.Name = "Total"
	lineRow(x, row, totals, st.totalText, st.totalMoney, st.totalPct)

	return x.SetPanes(cogsSheet, &excelize.Panes{
		Freeze: true, YSplit: headerRow, TopLeftCell: cell("A", headerRow+1), ActivePane: "bottomLeft",
	})
}

func lineRow(x *excelize.File, row int, l finance.LineFinancials, text, money, pct int) {
	x.SetCellValue(cogsSheet, cell("A", row), sanitize(l.Name))
	for i, d := range []decimal.Decimal{l.Revenue, l.Material, l.Labor, l.Design, l.COGS, l.GrossProfit} {
		x.SetCellValue(cogsSheet, cell(col(i+2), row), d.Round(2).InexactFloat64())
	}
	x.SetCellValue(cogsSheet, cell("H", row), l.MarginPct.Round(1).InexactFloat64())
	x.SetCellStyle(cogsSheet, cell("A", row), cell("A", row), text)
	x.SetCellStyle(cogsSheet, cell("B", row), cell("G", row), money)
	x.SetCellStyle(cogsSheet, cell("H", row), cell("H", row), pct)
}

func writeSummary(x *excelize.File, st *styles, rec *job.Record, f *finance.Financials) error {
	if err := x.SetColWidth(summarySheet, "A", "A", 28); err != nil {
		return err
	}
	if err := x.SetColWidth(summarySheet, "B", "B", 20); err != nil {
		return err
	}

	type entry struct {
		label string
		value any
		style int
	}
	m := func(d decimal.Decimal) float64 { return d.Round(2).InexactFloat64() }

	entries := []entry{
		{"Revenue (" + f.Source.String() + ")", m(f.Revenue), st.money},
		{"Material", m(f.COGS.Material), st.money},
		{"Labor", m(f.COGS.Labor), st.money},
		{"Design", m(f.COGS.Design), st.money},
		{"Total COGS", m(f.COGS.Total), st.totalMoney},
		{"Gross Profit", m(f.GrossProfit), st.totalMoney},
		{"Gross Profit Margin", f.MarginPct.Round(1).InexactFloat64(), st.pct},
		{"Margin Tier", f.Tier.String(), st.tier[f.Tier]},
		{"Target / Bonus Threshold", fmt.Sprintf("%g%% / %g%%", f.TargetPct, f.BonusThresholdPct), st.text},
		{"Commission Type", sanitize(f.Commission.Type), st.text},
		{"Base Rate", m(f.Commission.BaseRatePct), st.pct},
		{"Bonus Adjustments", m(f.Commission.BonusAdjustmentPct), st.pct},
		{"Effective Rate", m(f.Commission.EffectiveRatePct), st.pct},
		{"Commission Due", m(f.Commission.Amount), st.totalMoney},
	}
	if rec.Agent != "" {
		entries = append([]entry{{"Agent", sanitize(rec.Agent), st.text}}, entries...)
	}

	x.SetCellValue(summarySheet, "A1", "Financial Summary "+sanitize(rec.Ref))
	x.SetCellStyle(summarySheet, "A1", "A1", st.title)
	for i, e := range entries {
		row := i + 3
		x.SetCellValue(summarySheet, cell("A", row), e.label)
		x.SetCellStyle(summarySheet, cell("A", row), cell("A", row), st.totalText)
		x.SetCellValue(summarySheet, cell("B", row), e.value)
		x.SetCellStyle(summarySheet, cell("B", row), cell("B", row), e.style)
	}
	return nil
}

func newStyles(x *excelize.File) (*styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "#C8CDD6", Style: 1},
		{Type: "right", Color: "#C8CDD6", Style: 1},
		{Type: "top", Color: "#C8CDD6", Style: 1},
		{Type: "bottom", Color: "#C8CDD6", Style: 1},
	}
	moneyFmt, pctFmt := currencyFormat, percentFormat
	st := &styles{tier: map[finance.Tier]int{}}
	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&st.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16, Color: "#0D1B2A"}}},
		{&st.subtitle, &excelize.Style{Font: &excelize.Font{Size: 11, Color: "#4A5568"}}},
		{&st.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 10},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1B2A3B"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:    border,
		}},
		{&st.text, &excelize.Style{Font: &excelize.Font{Size: 10}, Border: border}},
		{&st.money, &excelize.Style{Font: &excelize.Font{Size: 10}, Border: border, CustomNumFmt: &moneyFmt}},
		{&st.pct, &excelize.Style{Font: &excelize.Font{Size: 10}, Border: border, CustomNumFmt: &pctFmt}},
		{&st.totalText, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 10}, Border: border}},
		{&st.totalMoney, &excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 10}, Border: border, CustomNumFmt: &moneyFmt,
			Fill: excelize.Fill{Type: "pattern", Color: []string{"#E8ECF1"}, Pattern: 1},
		}},
		{&st.totalPct, &excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 10}, Border: border, CustomNumFmt: &pctFmt,
			Fill: excelize.Fill{Type: "pattern", Color: []string{"#E8ECF1"}, Pattern: 1},
		}},
	}
	for _, d := range defs {
		id, err := x.NewStyle(d.style)
		if err != nil {
			return nil, fmt.Errorf("create style: %w", err)
		}
		*d.dst = id
	}

	for tier, color := range map[finance.Tier]string{
		finance.AboveTarget:    "#16A34A",
		finance.BonusEligible:  "#D97706",
		finance.BelowThreshold: "#DC2626",
	} {
		id, err := x.NewStyle(&excelize.Style{
			Font:         &excelize.Font{Bold: true, Size: 10, Color: color},
			Border:       border,
			CustomNumFmt: &pctFmt,
		})
		if err != nil {
			return nil, fmt.Errorf("create tier style: %w", err)
		}
		st.tier[tier] = id
	}
	return st, nil
}

func col(n int) string {
	name, _ := excelize.ColumnNumberToName(n)
	return name
}

func cell(col string, row int) string { return fmt.Sprintf("%s%d", col, row) }

// sanitize stops spreadsheet apps from evaluating text as a formula.
func sanitize(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}
