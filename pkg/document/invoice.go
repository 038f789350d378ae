package document

import (
	"strings"

	"github.com/usawrapco/wrapdoc/pkg/job"
	"github.com/usawrapco/wrapdoc/pkg/render/layout"
	"github.com/usawrapco/wrapdoc/pkg/render/styles"
	"github.com/usawrapco/wrapdoc/pkg/shop"
)

// invoiceState is the payment state an invoice is drawn in.
type invoiceState int

const (
	invoiceDue invoiceState = iota
	invoicePaid
	invoiceOverdue
)

func invoiceStateOf(r *job.Record) invoiceState {
	key := strings.ToLower(firstNonEmpty(r.StatusColor, r.Status))
	switch {
	case strings.Contains(key, "paid") && !strings.Contains(key, "unpaid"):
		return invoicePaid
	case strings.Contains(key, "overdue"), strings.Contains(key, "red"):
		return invoiceOverdue
	}
	return invoiceDue
}

func (s invoiceState) colors() (fg, bg layout.Color) {
	switch s {
	case invoicePaid:
		return styles.Green, styles.GreenBG
	case invoiceOverdue:
		return styles.Red, styles.RedBG
	}
	return styles.Steel, styles.SteelBG
}

func assembleInvoice(d *doc) error {
	p := d.env.Profile
	r := d.rec
	f := d.fin
	d.start(chrome{
		title: job.Invoice.Title(),
		ref:   r.Ref,
		note:  p.Invoice.Footer,
		fill:  styles.Navy,
		text:  panelText,
	})

	state := invoiceStateOf(r)
	fg, bg := state.colors()
	issued := "Issued " + d.date()
	if r.DueDate != "" {
		issued += "  -  Due " + r.DueDate
	}
	hdr := header{
		env:      d.env,
		Title:    job.Invoice.Title(),
		RefLabel: "INV NO.",
		Ref:      r.Ref,
		Lines:    []string{issued},
		Badges:   []badge{{Text: strings.ToUpper(firstNonEmpty(r.Status, "Payment Due")), FG: fg, BG: bg}},
		Band:     80,
		StripH:   20,
	}

	jobLines := []layout.Section{text(r.VehicleName(), styles.BodyBold, styles.Ink)}
	if r.LinkedRef != "" {
		jobLines = append(jobLines, field("SALES ORDER", r.LinkedRef))
	}
	jobLines = append(jobLines, field("INSTALLED", joinNonEmpty("  -  Agent: ", r.InstallDate, r.Agent)))
	if r.PONumber != "" {
		jobLines = append(jobLines, field("CLIENT PO", r.PONumber))
	}

	if err := d.add(
		hdr,
		layout.Row{Label: "parties", Gap: styles.Gap, Children: []layout.Section{
			sized(card("bill to", "BILL TO", styles.Ptr(styles.Steel),
				text(r.ClientName, styles.BodyBold, styles.Ink),
				text(joinNonEmpty(" ", r.ClientAddr, r.ClientZip), styles.Small, styles.DkGray),
				text(joinNonEmpty("  -  ", r.ClientPhone, r.ClientEmail), styles.Small, styles.DkGray),
			), 50),
			sized(card("job details", "JOB DETAILS", styles.Ptr(styles.Navy), jobLines...), 50),
		}},
		sectionHeader("Services Rendered", ""),
	); err != nil {
		return err
	}

	if err := d.table(servicesTable(r.LineItems)); err != nil {
		return err
	}

	balanceColor := styles.Navy
	switch state {
	case invoicePaid:
		balanceColor = styles.Green
	case invoiceOverdue:
		balanceColor = styles.Red
	}
	green := styles.Green
	tot := totals([]totalLine{
		{Label: "Subtotal", Value: f.Subtotal},
		{Label: f.Tax.Label, Value: f.Tax.Amount, Note: f.Tax.Note},
		{Label: "Deposit Paid", Value: f.Deposit.Neg(), Color: &green, Skip: f.Deposit.IsZero()},
		{Label: "Payments Received", Value: f.Payments.Neg(), Color: &green, Skip: f.Payments.IsZero()},
	}, "BALANCE DUE", f.BalanceDue, balanceColor, f.Tax.Statute)

	pay := shop.Banner{
		Title:  "How to Pay",
		Text:   firstNonEmpty(r.PaymentMethods, p.Invoice.PaymentMethods),
		Action: p.Invoice.PayOnline,
		Note:   p.Invoice.LateFee,
	}
	if err := d.add(
		layout.Row{Label: "payments", Gap: styles.Gap, Weights: []float64{d.width() - 218 - styles.Gap, 218}, Children: []layout.Section{
			sized(paymentHistory(r.Payments), 88),
			sized(tot, 88),
		}},
		banner("how to pay", pay, styles.GreenBG, styles.Green, 26),
	); err != nil {
		return err
	}

	notes := r.NoteBlocks()
	if len(notes) == 0 {
		return nil
	}
	body := make([]layout.Section, 0, 2*len(notes))
	for _, n := range notes {
		if len(notes) > 1 {
			body = append(body, text(strings.ToUpper(n.Label), styles.Label, styles.DkGray))
		}
		body = append(body, para(n.Text, styles.Small, styles.Ink, 10))
	}
	return d.add(card("notes", "NOTES", styles.Ptr(styles.Steel), body...))
}

func servicesTable(items []job.LineItem) layout.Table {
	rows := make([][]layout.Section, len(items))
	for i, it := range items {
		desc := firstNonEmpty(it.Desc, it.Sub, it.Vehicle)
		qty := it.Qty
		if qty == "" {
			qty = "1"
		}
		rows[i] = []layout.Section{
			layout.Stack{Children: []layout.Section{
				layout.Line{Text: it.Name, Font: styles.BodyBold, Color: styles.Ink, Height: 13},
				layout.Line{Text: desc, Font: styles.Small, Color: styles.DkGray, Height: 13},
			}},
			layout.Line{Text: qty, Font: styles.Body, Color: styles.Ink, Align: layout.AlignCenter, Height: 26},
			layout.Line{Text: it.Amount.String(), Font: styles.BodyBold, Color: styles.Ink, Align: layout.AlignRight, Height: 26},
		}
	}
	return layout.Table{
		Label: "services",
		Columns: []layout.Column{
			{Title: "SERVICE", Weight: 6},
			{Title: "QTY", Weight: 0.8, Align: layout.AlignCenter},
			{Title: "AMOUNT", Weight: 1.4, Align: layout.AlignRight},
		},
		Rows:       rows,
		HeaderFont: styles.Label,
		HeaderText: styles.White,
		HeaderFill: styles.Navy2,
		HeaderH:    14,
		Fill:       styles.White,
		Stripe:     styles.RowAlt,
		Rule:       styles.Ptr(styles.Rule),
		PadX:       8,
		Gap:        8,
	}
}

func paymentHistory(payments []job.Payment) layout.Card {
	if len(payments) == 0 {
		return card("payment history", "PAYMENT HISTORY", styles.Ptr(styles.Navy),
			text("No payments recorded.", styles.Small, styles.MdGray))
	}
	body := make([]layout.Section, 0, len(payments))
	for _, pm := range payments {
		label := joinNonEmpty("  -  ", pm.Date, pm.Method, pm.Note)
		p := kv(label, pm.Amount.String())
		p.ValueColor = styles.Green
		body = append(body, p)
	}
	return card("payment history", "PAYMENT HISTORY", styles.Ptr(styles.Navy), body...)
}
