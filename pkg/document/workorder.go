package document

import (
	"strings"

	"github.com/usawrapco/wrapdoc/pkg/job"
	"github.com/usawrapco/wrapdoc/pkg/render/layout"
	"github.com/usawrapco/wrapdoc/pkg/render/styles"
)

const (
	checkRowH = 14.0
	checkPad  = 18.0
)

var (
	instructionInk    = layout.Hex("#5a3000")
	instructionStroke = layout.Hex("#e8a060")
)

func assembleWorkOrder(d *doc) error {
	p := d.env.Profile
	r := d.rec
	d.start(chrome{
		title: job.WorkOrder.Title(),
		ref:   r.Ref,
		note:  joinNonEmpty("  -  ", "Work Order "+r.Ref, "Sales Order "+orDash(r.SalesOrder), p.Name, p.Address),
		extra: p.WorkOrder.Footer,
		fill:  styles.Off,
		text:  styles.DkGray,
	})

	priority := strings.ToUpper(firstNonEmpty(r.Priority, "Normal"))
	priorityBG := styles.Steel
	if priority == "HIGH" {
		priorityBG = styles.Red
	}
	hdr := header{
		env:    d.env,
		Title:  job.WorkOrder.Title(),
		Kicker: "Work Order / Installer Brief",
		Lines: []string{
			joinNonEmpty("  -  ", r.Ref, d.date()),
			"Sales Order: " + orDash(r.SalesOrder),
		},
		Badges: []badge{{Text: priority + " PRIORITY", FG: styles.White, BG: priorityBG}},
		Band:   72,
	}

	pay := "-"
	if r.Labor().IsSet() {
		pay = r.Labor().String() + " (" + firstNonEmpty(r.PayType, "Flat Rate") + ")"
	}
	hours := r.EstHours
	if hours != "" {
		hours += " hrs"
	}

	if err := d.add(
		layout.Stack{Label: "header", Children: []layout.Section{
			hdr,
			installerStrip(strings.ToUpper(firstNonEmpty(r.Status, "Ready to Install")),
				metaItem{"INSTALLER", r.Installer},
				metaItem{"BAY", r.Bay},
				metaItem{"EST. HRS", hours},
				metaItem{"PAY", pay},
			),
		}},
		layout.Row{Label: "job", Gap: styles.Gap, Weights: []float64{0.55, 0.45}, Children: []layout.Section{
			sized(card("vehicle", "VEHICLE", styles.Ptr(styles.Navy),
				text(joinNonEmpty(" ", r.Year, r.Make), layout.F(layout.Bold, 11), styles.Ink),
				text(firstNonEmpty(r.Model, r.VehicleName()), layout.F(layout.Medium, 9), styles.SteelL),
				text("Color: "+orDash(r.Color), styles.Body, styles.DkGray),
				text("VIN: "+orDash(r.VIN), styles.Body, styles.DkGray),
				text("Plate: "+orDash(r.PlateNumber())+"   -   Mileage: "+orDash(r.Mileage), styles.Body, styles.DkGray),
			), 72),
			sized(tinted(card("client", "CLIENT / PICKUP INFO", styles.Ptr(styles.SteelD),
				text(r.ClientName, layout.F(layout.Bold, 9.5), styles.Ink),
				text("Contact: "+orDash(r.ClientContact), styles.Body, styles.DkGray),
				text(r.ClientPhone, styles.Body, styles.DkGray),
				text("Drop-off: "+orDash(r.DropOff), styles.Body, styles.DkGray),
				text("Pick-up: "+orDash(r.PickUp), styles.Body, styles.DkGray),
			), styles.SteelBG, styles.SteelD), 72),
		}},
		sectionHeader("Wrap Scope & Material", joinNonEmpty("  -  ", sqft(r.Sqft), linearFt(r.LinearFt))),
		scopeCard(r),
	); err != nil {
		return err
	}

	if len(r.Panels) > 0 {
		if err := d.add(
			sectionHeader("Panels to Wrap", ""),
			panelGrid(r.Panels, 3, 12, 14),
		); err != nil {
			return err
		}
	}

	if strings.TrimSpace(r.SpecialNotes) != "" {
		special := tinted(card("special instructions", "", styles.Ptr(styles.Orange),
			text("! SPECIAL INSTRUCTIONS", layout.F(layout.Bold, 7.5), styles.Orange),
			para(r.SpecialNotes, layout.F(layout.Regular, 8), instructionInk, 9),
		), styles.OrangeBG, instructionStroke)
		if err := d.add(special); err != nil {
			return err
		}
	}

	checklist := func(title string, items []string) layout.Checklist {
		return layout.Checklist{
			Title:     title,
			Items:     items,
			Font:      styles.Small,
			TitleFont: styles.Label,
			Color:     styles.Ink,
			BoxColor:  styles.MdGray,
			RowHeight: checkRowH,
			Pad:       checkPad,
		}
	}
	pre := checklist("PRE-INSTALL  (before starting)", p.PreChecks(r.PreChecks))
	post := checklist("POST-INSTALL  (before releasing)", p.PostChecks(r.PostChecks))
	return d.add(
		sectionHeader("Installation Checklists", ""),
		layout.Row{Label: "checklists", Gap: styles.Gap, Children: []layout.Section{
			card("pre-install", "", styles.Ptr(styles.Steel), pre),
			card("post-install", "", styles.Ptr(styles.Navy), post),
		}},
		tinted(card("installer sign-off", "INSTALLER SIGN-OFF", styles.Ptr(styles.Navy),
			para(p.WorkOrder.SignOffNote, styles.Small, styles.DkGray, 10),
			signatureLine("installer sign-off", p.WorkOrder.SignOff, 16),
		), styles.Off, styles.Rule),
	)
}

func linearFt(s string) string {
	if s == "" {
		return ""
	}
	return s + " linear ft"
}

// installerStrip is the navy assignment strip under the work order header,
// ending in a status pill.
func installerStrip(status string, items ...metaItem) layout.Section {
	return layout.Fixed("installer strip", 18, func(s layout.Surface, r layout.Rect) {
		w, _ := s.PageSize()
		s.DrawRect(layout.Rect{X: 0, Y: r.Y, W: w, H: r.H}, layout.Fill(styles.Navy2))
		base := layout.Baseline(r.Y, r.H, styles.BodyBold)
		pw := s.MeasureText(status, styles.Label) + 16
		x := r.X
		for _, it := range items {
			s.DrawText(x, base, it.Label+":", styles.Label, panelMute, layout.AlignLeft)
			x += s.MeasureText(it.Label+":", styles.Label) + 5
			value := orDash(it.Value)
			s.DrawText(x, base, value, styles.BodyBold, styles.White, layout.AlignLeft)
			x += s.MeasureText(value, styles.BodyBold) + 18
			if x > r.Right()-pw {
				break
			}
		}
		pill(s, r.Right()-pw, r.Y+(r.H-styles.Label.Size-6)/2, status, styles.Label, styles.White, styles.Green)
	})
}

// scopeCard is the scope and material card with the square footage chip on
// the right.
func scopeCard(r *job.Record) layout.Section {
	body := []layout.Section{
		text(r.Scope, styles.Heading, styles.Ink),
		text("Material: "+orDash(r.Material), layout.F(layout.Regular, 9), styles.DkGray),
	}
	if cov := joinNonEmpty("  -  ", sqft(r.Sqft), linearFt(r.LinearFt)); cov != "" {
		body = append(body, text("Coverage: "+cov, layout.F(layout.Regular, 9), styles.DkGray))
	}
	c := sized(card("scope", "", styles.Ptr(styles.Steel), body...), 46)
	if r.Sqft == "" {
		return c
	}
	const chipW = 50.0
	return layout.Custom{
		Label:  "scope",
		Height: c.Measure,
		Paint: func(s layout.Surface, rc layout.Rect) {
			c.Draw(s, rc)
			box := layout.Rect{X: rc.Right() - 6 - chipW, Y: rc.Y + 8, W: chipW, H: 24}
			s.DrawRoundedRect(box, 3, layout.Fill(styles.Navy))
			cx := box.X + chipW/2
			s.DrawText(cx, box.Y+8, "SQ FT", layout.F(layout.Bold, 6.5), styles.SteelL, layout.AlignCenter)
			s.DrawText(cx, box.Y+21, r.Sqft, layout.F(layout.Bold, 14), styles.White, layout.AlignCenter)
		},
	}
}
