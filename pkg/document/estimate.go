package document

import (
	"fmt"
	"strings"

	"github.com/usawrapco/wrapdoc/pkg/job"
	"github.com/usawrapco/wrapdoc/pkg/render/layout"
	"github.com/usawrapco/wrapdoc/pkg/render/styles"
	"github.com/usawrapco/wrapdoc/pkg/shop"
)

// Scope-of-work row metrics: name, vehicle and sub-label lines, wrapped
// bullets, bottom padding.
const (
	scopeNameH    = 13.0
	scopeVehicleH = 10.0
	scopeSubH     = 11.0
	scopeBulletH  = 10.0
	scopePadH     = 6.0
)

func assembleEstimate(d *doc) error {
	p := d.env.Profile
	r := d.rec
	d.start(chrome{
		title: job.Estimate.Title(),
		ref:   r.Ref,
		note:  joinNonEmpty("  -  ", p.Name, p.Address, p.Phone),
		fill:  styles.Navy,
		text:  panelText,
	})

	fg, bg := styles.StatusColors(r.StatusColor)
	status := strings.ToUpper(firstNonEmpty(r.Status, "Estimate"))
	hdr := header{
		env:     d.env,
		Title:   job.Estimate.Title(),
		Ref:     r.Ref,
		Lines:   []string{"Issued " + d.date()},
		Badges:  []badge{{Text: status, FG: fg, BG: bg}},
		Band:    88,
		StripH:  20,
		Reviews: true,
	}

	validDays := r.ValidDays
	if validDays == 0 {
		validDays = p.Estimate.ValidDays
	}
	if err := d.add(
		hdr,
		layout.Row{Label: "parties", Gap: styles.Gap, Children: []layout.Section{
			sized(card("prepared by", "PREPARED BY", styles.Ptr(styles.Navy),
				text(p.Name, styles.BodyBold, styles.Ink),
				text(p.Address, styles.Small, styles.DkGray),
				text(joinNonEmpty("  -  ", p.Phone, p.Email), styles.Small, styles.DkGray),
			), 70),
			sized(card("prepared for", "PREPARED FOR", styles.Ptr(styles.Steel),
				text(r.ClientName, styles.BodyBold, styles.Ink),
				text(joinNonEmpty(" ", r.ClientAddr, r.ClientZip), styles.Small, styles.DkGray),
				text(joinNonEmpty("  -  ", r.ClientPhone, r.ClientEmail), styles.Small, styles.DkGray),
			), 70),
		}},
		metaStrip("meta", 22, styles.Off,
			metaItem{"SALES AGENT", r.Agent},
			metaItem{"EST. INSTALL", r.InstallDate},
			metaItem{"VALID", fmt.Sprintf("%d days from issue", validDays)},
			metaItem{"REF", r.Ref},
		),
		sectionHeader("Scope of Work - Itemized Services", ""),
	); err != nil {
		return err
	}

	if err := d.table(scopeTable(r.LineItems)); err != nil {
		return err
	}

	f := d.fin
	incl := layout.Bullets{
		Items:       p.IncludedItems(r.Inclusions),
		Font:        styles.Small,
		Color:       styles.Ink,
		Marker:      "+",
		MarkerColor: styles.Green,
		LineHeight:  11,
		Indent:      9,
	}
	green := styles.Green
	tot := totals([]totalLine{
		{Label: "Subtotal", Value: f.Subtotal},
		{Label: f.Tax.Label, Value: f.Tax.Amount, Note: f.Tax.Note},
		{Label: "Design Deposit Paid", Value: f.Deposit.Neg(), Color: &green, Skip: f.Deposit.IsZero()},
	}, "BALANCE DUE", f.BalanceDue, styles.Navy, f.Tax.Statute)

	if err := d.add(
		layout.Row{Label: "totals", Gap: styles.Gap, Weights: []float64{d.width() - 200 - styles.Gap, 200}, Children: []layout.Section{
			sized(tinted(card("included", "WHAT'S INCLUDED", styles.Ptr(styles.Green), incl), styles.GreenBG, styles.Rule), 100),
			sized(tot, 100),
		}},
		banner("financing", p.Estimate.Financing, styles.GoldBG, styles.Gold, 26),
		banner("cta", p.Estimate.CTA, styles.SteelBG, styles.Steel, 18),
	); err != nil {
		return err
	}

	// terms and materials always start on their own page
	d.flow.NewPage()
	return d.add(estimateDetails(d)...)
}

func scopeTable(items []job.LineItem) layout.Table {
	rows := make([][]layout.Section, len(items))
	for i, it := range items {
		desc := []layout.Section{
			layout.Line{Text: it.Name, Font: styles.BodyBold, Color: styles.Ink, Height: scopeNameH},
		}
		if it.Vehicle != "" {
			desc = append(desc, layout.Line{Text: it.Vehicle, Font: styles.Small, Color: styles.Steel, Height: scopeVehicleH})
		}
		desc = append(desc,
			layout.Line{Text: it.Sub, Font: styles.Small, Color: styles.DkGray, Height: scopeSubH},
			layout.Bullets{
				Items:       it.Bullets,
				Font:        styles.Small,
				Color:       styles.DkGray,
				Marker:      "-",
				MarkerColor: styles.Steel,
				LineHeight:  scopeBulletH,
				Indent:      8,
			},
			layout.Spacer{H: scopePadH},
		)
		qty := it.Qty
		if qty == "" {
			qty = "1"
		}
		rows[i] = []layout.Section{
			layout.Stack{Children: desc},
			layout.Line{Text: qty, Font: styles.Body, Color: styles.Ink, Align: layout.AlignCenter, Height: scopeNameH},
			layout.Line{Text: it.Amount.String(), Font: styles.BodyBold, Color: styles.Ink, Align: layout.AlignRight, Height: scopeNameH},
		}
	}
	return layout.Table{
		Label: "scope",
		Columns: []layout.Column{
			{Title: "DESCRIPTION", Weight: 6},
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

func estimateDetails(d *doc) []layout.Section {
	p := d.env.Profile
	r := d.rec
	var secs []layout.Section

	if r.Brand.Tagline != "" || r.Brand.Industry != "" || len(r.Brand.Colors) > 0 {
		secs = append(secs,
			sectionHeader("Client Profile", p.Portal),
			sized(card("client profile", "", styles.Ptr(styles.Steel), layout.Row{Gap: 12, Weights: []float64{3, 2}, Children: []layout.Section{
				layout.Stack{Children: []layout.Section{
					text(r.ClientName, styles.BodyBold, styles.Ink),
					text(r.Brand.Tagline, styles.Small, styles.Steel),
					text(joinNonEmpty("  -  ", r.Brand.Industry, r.Brand.Website), styles.Small, styles.DkGray),
				}},
				swatches(r.Brand),
			}}), 42),
		)
	}

	if mats := materialCards(p, r); len(mats) > 0 {
		chips := make([]layout.Section, len(p.FilmSpecs))
		for i, sp := range p.FilmSpecs {
			chips[i] = chip(sp)
		}
		body := []layout.Section{
			layout.Row{Gap: 12, Children: mats},
			layout.Spacer{H: 6},
			layout.Row{Gap: 6, Children: chips},
		}
		secs = append(secs,
			sectionHeader("Wrap Materials", ""),
			sized(card("materials", "", styles.Ptr(styles.Navy), body...), 72),
		)
	}

	steps := make([]layout.Section, len(p.Process))
	for i, st := range p.Process {
		steps[i] = stepCard(i, st)
	}
	secs = append(secs,
		sectionHeader("Our Process - What to Expect", "Delivering Premium Results, Every Time"),
		layout.Row{Label: "process", Gap: 4, Children: steps},
		sectionHeader("Terms & Conditions", ""),
		layout.Card{
			Label: "terms",
			Child: layout.Row{Gap: 20, Children: []layout.Section{
				termColumn(p.TermColumn(0)),
				termColumn(p.TermColumn(1)),
			}},
			PadX:  9,
			PadY:  cardPadY,
			Paint: layout.FillStroke(styles.White, styles.Rule, styles.Hairline),
		},
		signatureLine("signature", []string{"Client Signature", "Printed Name", "Date"}, 28),
		brandStrip(d.env),
	)
	return secs
}

func materialCards(p *shop.Profile, r *job.Record) []layout.Section {
	var out []layout.Section
	for _, m := range []struct{ label, name string }{
		{"PRIMARY WRAP FILM", firstNonEmpty(r.PrimaryFilm, r.Material)},
		{"OVERLAMINATE", r.Overlaminate},
	} {
		if m.name == "" {
			continue
		}
		entry, ok := p.LookupMaterial(m.name)
		if !ok {
			entry = shop.Material{Name: m.name}
		}
		body := []layout.Section{
			text(m.label, styles.Label, styles.Steel),
			text(entry.Name, styles.BodyBold, styles.Ink),
		}
		if entry.Category != "" {
			body = append(body, text(entry.Category, styles.Small, styles.DkGray))
		}
		if entry.URL != "" {
			body = append(body, text("Spec Sheet: "+entry.URL, styles.Small, styles.Link))
		}
		out = append(out, layout.Stack{Children: body})
	}
	return out
}

func chip(sp shop.Spec) layout.Section {
	return layout.Fixed(sp.Label, 24, func(s layout.Surface, r layout.Rect) {
		s.DrawRoundedRect(r, 3, layout.FillStroke(styles.Off, styles.LtGray, styles.Hairline))
		s.DrawText(r.X+6, r.Y+9, sp.Label, layout.F(layout.Bold, 5.5), styles.DkGray, layout.AlignLeft)
		s.DrawText(r.X+6, r.Y+19, layout.Truncate(s, sp.Value, styles.Small, r.W-12), layout.F(layout.Bold, 7.5), styles.Ink, layout.AlignLeft)
	})
}

func swatches(b job.ClientBrand) layout.Section {
	return layout.Fixed("swatches", 30, func(s layout.Surface, r layout.Rect) {
		x := r.X
		for i, hex := range b.Colors {
			c, err := layout.ParseHex(hex)
			if err != nil {
				continue
			}
			if x+18 > r.Right() {
				break
			}
			s.DrawRoundedRect(layout.Rect{X: x, Y: r.Y, W: 18, H: 18}, 3, layout.FillStroke(c, styles.LtGray, styles.Hairline))
			name := hex
			if i < len(b.ColorNames) {
				name = b.ColorNames[i]
			}
			s.DrawText(x+9, r.Y+26, layout.Truncate(s, name, styles.Fine, 40), styles.Fine, styles.DkGray, layout.AlignCenter)
			x += 44
		}
	})
}

func stepCard(i int, st shop.Step) layout.Section {
	return layout.Fixed(st.Title, 82, func(s layout.Surface, r layout.Rect) {
		fill, circle, num := styles.Off, styles.Steel, styles.Navy
		if i%2 == 1 {
			fill, circle, num = styles.White, styles.Navy, styles.White
		}
		s.DrawRoundedRect(r, styles.Radius, layout.FillStroke(fill, styles.LtGray, styles.Hairline))

		cx := r.X + r.W/2
		bold := layout.F(layout.Bold, 7.5)
		s.DrawRoundedRect(layout.Rect{X: cx - 9, Y: r.Y + 4, W: 18, H: 18}, 9, layout.Fill(circle))
		s.DrawText(cx, layout.Baseline(r.Y+4, 18, bold), fmt.Sprintf("%02d", i+1), bold, num, layout.AlignCenter)

		y := r.Y + 33
		for line := range layout.Wrap(s, st.Title, bold, r.W-8) {
			s.DrawText(cx, y, line, bold, circle, layout.AlignCenter)
			y += 9
		}
		y += 4
		for _, line := range st.Lines {
			s.DrawText(cx, y, layout.Truncate(s, line, styles.Fine, r.W-6), styles.Fine, styles.DkGray, layout.AlignCenter)
			y += 8
		}
	})
}

func termColumn(terms []shop.Term) layout.Section {
	var secs []layout.Section
	for _, t := range terms {
		secs = append(secs,
			layout.Line{Text: t.Title, Font: layout.F(layout.Bold, 7.5), Color: styles.Ink, Height: 11},
			layout.Bullets{
				Items:       t.Points,
				Font:        styles.Fine,
				Color:       styles.DkGray,
				Marker:      "-",
				MarkerColor: styles.Steel,
				LineHeight:  8,
				Indent:      10,
			},
			layout.Spacer{H: 4},
		)
	}
	return layout.Stack{Children: secs}
}

func brandStrip(env *Env) layout.Section {
	p := env.Profile
	return layout.Fixed("brand strip", 28, func(s layout.Surface, r layout.Rect) {
		s.DrawRoundedRect(r, styles.Radius, layout.Fill(styles.Navy))
		s.DrawText(r.X+10, r.Y+12, p.Name, styles.BodyBold, styles.White, layout.AlignLeft)
		s.DrawText(r.X+10, r.Y+22, p.Tagline, styles.Fine, panelText, layout.AlignLeft)
		reviews := fmt.Sprintf("***** %d Five-Star Google Reviews", env.reviewCount())
		s.DrawText(r.Right()-10, layout.Baseline(r.Y, r.H, styles.BodyBold), reviews, styles.BodyBold, styles.Gold, layout.AlignRight)
	})
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
