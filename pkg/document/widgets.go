package document

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/usawrapco/wrapdoc/pkg/money"
	"github.com/usawrapco/wrapdoc/pkg/render/layout"
	"github.com/usawrapco/wrapdoc/pkg/render/styles"
	"github.com/usawrapco/wrapdoc/pkg/shop"
)

const (
	lineH    = 12.0 // body text line
	fineH    = 9.0  // fine print line
	cardPadY = 8.0
)

// sectionHeader is the navy band that opens each part of a document.
func sectionHeader(title, note string) layout.Band {
	return layout.Band{
		Title:    title,
		Note:     note,
		Font:     styles.Heading,
		NoteFont: styles.Fine,
		Color:    styles.White,
		Fill:     styles.Navy,
		Accent:   styles.Ptr(styles.Steel),
		Height:   22,
		PadX:     10,
	}
}

// text is one line in body type.
func text(s string, font layout.Font, c layout.Color) layout.Line {
	return layout.Line{Text: s, Font: font, Color: c, Height: font.Size + 3.5}
}

func para(s string, font layout.Font, c layout.Color, lh float64) layout.Paragraph {
	return layout.Paragraph{Text: s, Font: font, Color: c, LineHeight: lh}
}

// kv is a label and a right-aligned value.
func kv(label, value string) layout.Pair {
	return layout.Pair{
		Label: label, Value: value,
		LabelFont: styles.Small, ValueFont: styles.BodyBold,
		LabelColor: styles.DkGray, ValueColor: styles.Ink,
		Height: lineH,
	}
}

// field is a small-caps label followed by a value on the same line.
func field(label, value string) layout.Section {
	return layout.Fixed(label, lineH, func(s layout.Surface, r layout.Rect) {
		if value == "" {
			value = "-"
		}
		base := layout.Baseline(r.Y, r.H, styles.Small)
		s.DrawText(r.X, base, label, styles.Label, styles.DkGray, layout.AlignLeft)
		lw := max(s.MeasureText(label, styles.Label)+6, 52)
		s.DrawText(r.X+lw, base, layout.Truncate(s, value, styles.Small, r.W-lw), styles.Small, styles.Ink, layout.AlignLeft)
	})
}

// card is a white rounded card with a small title above its body.
func card(label, title string, accent *layout.Color, body ...layout.Section) layout.Card {
	children := make([]layout.Section, 0, len(body)+1)
	if title != "" {
		children = append(children, text(title, styles.Label, styles.Steel))
	}
	children = append(children, body...)
	return layout.Card{
		Label:       label,
		Child:       layout.Stack{Children: children},
		PadX:        styles.CardPad,
		PadY:        cardPadY,
		Paint:       layout.FillStroke(styles.White, styles.Rule, styles.Hairline),
		Radius:      styles.Radius,
		Accent:      accent,
		AccentWidth: styles.AccentBar,
	}
}

// sized returns c with a minimum height.
func sized(c layout.Card, h float64) layout.Card {
	c.MinHeight = h
	return c
}

// tinted returns c with a colored background.
func tinted(c layout.Card, fill, stroke layout.Color) layout.Card {
	c.Paint = layout.FillStroke(fill, stroke, styles.Hairline)
	return c
}

// totalLine is one line of a totals block.
type totalLine struct {
	Label string
	Value decimal.Decimal
	Note  string // fine print under the line
	Color *layout.Color
	Skip  bool
}

// totals builds the totals card: line items, a rule, then the emphasized
// final amount.
func totals(lines []totalLine, final string, amount decimal.Decimal, finalColor layout.Color, footnote string) layout.Card {
	var body []layout.Section
	for _, l := range lines {
		if l.Skip {
			continue
		}
		p := kv(l.Label, money.Format(l.Value))
		if l.Color != nil {
			p.ValueColor = *l.Color
		}
		body = append(body, p)
		if l.Note != "" {
			body = append(body, para(l.Note, styles.Fine, styles.DkGray, fineH))
		}
	}
	body = append(body,
		layout.Rule{Color: styles.Rule, Width: styles.Hairline, H: 6},
		layout.Pair{
			Label: final, Value: money.Format(amount),
			LabelFont: styles.BodyBold, ValueFont: styles.Amount,
			LabelColor: styles.Ink, ValueColor: finalColor,
			Height: 18,
		})
	if footnote != "" {
		body = append(body, para(footnote, styles.Fine, styles.MdGray, fineH))
	}
	return card("totals", "", styles.Ptr(styles.Steel), body...)
}

// banner is a colored call-out strip with a title, a line of text and an
// optional action on the right.
func banner(label string, b shop.Banner, fill, accent layout.Color, h float64) layout.Section {
	return layout.Fixed(label, h, func(s layout.Surface, r layout.Rect) {
		s.DrawRoundedRect(r, styles.Radius, layout.Fill(fill))
		s.DrawRect(layout.Rect{X: r.X, Y: r.Y, W: styles.AccentBar, H: r.H}, layout.Fill(accent))
		x := r.X + styles.AccentBar + 8
		right := r.Right() - 8
		if b.Action != "" {
			s.DrawText(right, r.Y+11, b.Action, styles.BodyBold, accent, layout.AlignRight)
		}
		if b.Note != "" {
			s.DrawText(right, r.Y+r.H-5, b.Note, styles.Fine, styles.DkGray, layout.AlignRight)
		}
		textW := r.W - 16 - styles.AccentBar
		if b.Action != "" {
			textW -= s.MeasureText(b.Action, styles.BodyBold) + 12
		}
		if h < 22 {
			base := layout.Baseline(r.Y, r.H, styles.BodyBold)
			s.DrawText(x, base, b.Title, styles.BodyBold, styles.Ink, layout.AlignLeft)
			tw := s.MeasureText(b.Title, styles.BodyBold) + 8
			s.DrawText(x+tw, base, layout.Truncate(s, b.Text, styles.Small, textW-tw), styles.Small, styles.DkGray, layout.AlignLeft)
			return
		}
		s.DrawText(x, r.Y+11, b.Title, styles.BodyBold, styles.Ink, layout.AlignLeft)
		s.DrawText(x, r.Y+r.H-5, layout.Truncate(s, b.Text, styles.Small, textW), styles.Small, styles.DkGray, layout.AlignLeft)
	})
}

// signatureLine lays out labeled blanks across the width.
func signatureLine(label string, fields []string, h float64) layout.Section {
	return layout.Fixed(label, h, func(s layout.Surface, r layout.Rect) {
		if len(fields) == 0 {
			return
		}
		cw := r.W / float64(len(fields))
		base := r.Bottom() - 6
		for i, f := range fields {
			x := r.X + float64(i)*cw
			lbl := f + ":"
			s.DrawText(x, base, lbl, styles.Small, styles.DkGray, layout.AlignLeft)
			lx := x + s.MeasureText(lbl, styles.Small) + 4
			s.DrawLine(lx, base+1, x+cw-10, base+1, styles.MdGray, styles.Hairline)
		}
	})
}

// checkCell is a panel name led by an empty checkbox.
func checkCell(name string, h float64) layout.Section {
	return layout.Fixed(name, h, func(s layout.Surface, r layout.Rect) {
		box := min(h-4, 7)
		top := r.Y + (h-box)/2
		stroke := styles.Steel
		s.DrawRect(layout.Rect{X: r.X, Y: top, W: box, H: box}, layout.Paint{Stroke: &stroke, LineWidth: 0.6})
		label := layout.Truncate(s, name, styles.Small, r.W-box-5)
		s.DrawText(r.X+box+5, layout.Baseline(r.Y, h, styles.Small), label, styles.Small, styles.Ink, layout.AlignLeft)
	})
}

// panelGrid lays panel names out in columns. Its height is
// rows × rowH + pad.
func panelGrid(panels []string, cols int, rowH, pad float64) layout.Section {
	cells := make([]layout.Section, len(panels))
	for i, p := range panels {
		cells[i] = checkCell(p, rowH)
	}
	grid := layout.Grid{Label: "panels", Cells: cells, Columns: cols, Gap: 8}
	return layout.Card{
		Label: "panels",
		Child: grid,
		PadX:  styles.CardPad,
		PadY:  pad / 2,
		Paint: layout.FillStroke(styles.White, styles.Rule, styles.Hairline),
	}
}

// noteColumns shows labeled notes side by side.
func noteColumns(label string, notes []noteText, minH float64) layout.Section {
	cols := make([]layout.Section, len(notes))
	for i, n := range notes {
		body := n.Text
		if strings.TrimSpace(body) == "" {
			body = "-"
		}
		cols[i] = layout.Stack{Children: []layout.Section{
			text(n.Label, styles.Label, styles.Steel),
			para(body, styles.Small, styles.Ink, 10),
		}}
	}
	return layout.Card{
		Label:     label,
		Child:     layout.Row{Children: cols, Gap: 14},
		PadX:      styles.CardPad,
		PadY:      cardPadY,
		Paint:     layout.FillStroke(styles.Off, styles.Rule, styles.Hairline),
		Radius:    styles.Radius,
		MinHeight: minH,
	}
}

type noteText struct {
	Label, Text string
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
