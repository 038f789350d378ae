package document

import (
	"fmt"
	"strings"

	"github.com/usawrapco/wrapdoc/pkg/render/layout"
	"github.com/usawrapco/wrapdoc/pkg/render/styles"
)

// Header panel colors.
var (
	panelBG   = layout.Hex("#070f1a")
	panelRule = layout.Hex("#162636")
	panelDim  = layout.Hex("#6a8aaa")
	panelMute = layout.Hex("#5a7898")
	panelText = layout.Hex("#7a9aba")
)

const (
	panelX     = 332.0 // left edge of the dark header panel
	condensedH = 18.0
	footerH    = 20.0
)

// Page is the geometry every document is laid out on. The first page's
// header is an ordinary section at the top edge; continuation pages
// reserve room for the condensed header drawn by [chrome].
var Page = layout.Letter(styles.Margin, 0, footerH+styles.Gap)

type badge struct {
	Text   string
	FG, BG layout.Color
}

type metaItem struct {
	Label, Value string
}

// header is the full-bleed brand header of a document's first page: a navy
// band with the shop identity on the left, a dark panel with the document
// title on the right, and a strip underneath.
type header struct {
	env      *Env
	Title    string
	Kicker   string // small line above the title
	RefLabel string
	Ref      string
	Lines    []string // under the ref, or flush right on compact bands
	Badges   []badge
	Band     float64
	Strip    []metaItem // meta strip; the contact strip when empty
	StripH   float64
	Reviews  bool // show the review count between identity and panel
}

func (h header) Name() string { return "header" }

func (h header) Measure(layout.Measurer, float64) float64 { return h.Band + h.StripH }

func (h header) Draw(s layout.Surface, r layout.Rect) {
	w, _ := s.PageSize()
	p := h.env.Profile

	s.DrawRect(layout.Rect{X: 0, Y: r.Y, W: w, H: h.Band}, layout.Fill(styles.Navy))
	s.DrawRect(layout.Rect{X: panelX, Y: r.Y, W: w - panelX, H: h.Band}, layout.Fill(panelBG))
	s.DrawLine(panelX, r.Y, panelX, r.Y+h.Band, panelRule, 1)

	// identity
	x := r.X
	if logo := h.env.logo(); logo != nil {
		lh := min(30, h.Band-28)
		s.DrawImage(logo, layout.Rect{X: x, Y: r.Y + 12, W: min(220, lh*logo.Aspect()), H: lh})
	} else {
		s.DrawText(x, r.Y+34, p.Name, layout.F(layout.Bold, 20), styles.White, layout.AlignLeft)
	}
	y := r.Y + h.Band - 24
	if h.Band >= 80 {
		y = r.Y + h.Band - 34
	}
	s.DrawText(x, y, p.Slogan, styles.Small, panelText, layout.AlignLeft)
	if h.Band >= 72 {
		s.DrawText(x, y+11, p.Tagline, styles.Fine, panelDim, layout.AlignLeft)
	}
	if h.Band >= 80 {
		s.DrawText(x, y+21, p.Address, styles.Fine, panelMute, layout.AlignLeft)
	}

	if emblem := h.env.emblem(); emblem != nil && h.Band >= 72 {
		eh := h.Band - 24
		ew := eh * emblem.Aspect()
		s.DrawImage(emblem, layout.Rect{X: panelX - 14 - ew, Y: r.Y + 12, W: ew, H: eh})
	} else if h.Reviews {
		cx := (r.X + 230 + panelX) / 2
		s.DrawText(cx, r.Y+42, fmt.Sprint(h.env.reviewCount()), layout.F(layout.Bold, 24), styles.Gold, layout.AlignCenter)
		s.DrawText(cx, r.Y+54, "Five-Star Reviews", styles.Fine, panelText, layout.AlignCenter)
	}

	// document panel
	px := panelX + 16
	bx := px
	for _, b := range h.Badges {
		bx += pill(s, bx, r.Y+10, b.Text, styles.Label, b.FG, b.BG) + 4
	}
	ty := r.Y + 40
	if h.Kicker != "" {
		s.DrawText(px, ty-13, h.Kicker, styles.Fine, panelMute, layout.AlignLeft)
	}
	s.DrawText(px, ty, h.Title, layout.F(layout.Bold, 16), styles.White, layout.AlignLeft)
	ly := ty + 12
	if h.Ref != "" {
		label := h.RefLabel
		if label == "" {
			label = "REF"
		}
		s.DrawText(px, ly, label, styles.Label, panelDim, layout.AlignLeft)
		s.DrawText(px+s.MeasureText(label, styles.Label)+5, ly, h.Ref, styles.Medium, styles.White, layout.AlignLeft)
		ly += 10
	}
	if h.Band < 72 {
		// compact bands set the lines flush right under the badges
		ly = r.Y + h.Band - 6 - 9*float64(len(h.Lines)-1)
		for _, line := range h.Lines {
			s.DrawText(w-r.X, ly, line, styles.Fine, panelText, layout.AlignRight)
			ly += 9
		}
	} else {
		for _, line := range h.Lines {
			if ly > r.Y+h.Band-4 {
				break
			}
			s.DrawText(px, ly, line, styles.Fine, panelText, layout.AlignLeft)
			ly += 9
		}
	}

	if h.StripH <= 0 {
		return
	}
	strip := layout.Rect{X: 0, Y: r.Y + h.Band, W: w, H: h.StripH}
	if len(h.Strip) == 0 {
		contactStrip(s, strip, r.X, h.env)
		return
	}
	drawMeta(s, strip.Inset(r.X, 0), h.Strip, styles.SecBG)
}

func contactStrip(s layout.Surface, r layout.Rect, margin float64, env *Env) {
	p := env.Profile
	s.DrawRect(r, layout.Fill(styles.Navy2))
	left := joinNonEmpty("  -  ", p.Phone, p.Email, p.Web)
	s.DrawText(margin, layout.Baseline(r.Y, r.H, styles.Small), left, styles.Small, panelText, layout.AlignLeft)
	right := joinNonEmpty("  -  ", p.Hours, strings.Join(p.Certs, "  -  "))
	s.DrawText(r.Right()-margin, layout.Baseline(r.Y, r.H, styles.Fine), right, styles.Fine, panelDim, layout.AlignRight)
}

// drawMeta paints labeled values in equal columns. Short strips put label
// and value on one line; taller strips stack them.
func drawMeta(s layout.Surface, r layout.Rect, items []metaItem, fill layout.Color) {
	s.DrawRect(layout.Rect{X: 0, Y: r.Y, W: r.X*2 + r.W, H: r.H}, layout.Fill(fill))
	if len(items) == 0 {
		return
	}
	cw := r.W / float64(len(items))
	for i, it := range items {
		x := r.X + float64(i)*cw
		value := it.Value
		if value == "" {
			value = "-"
		}
		if r.H < 18 {
			base := layout.Baseline(r.Y, r.H, styles.Small)
			s.DrawText(x, base, it.Label, styles.Label, styles.Steel, layout.AlignLeft)
			lw := s.MeasureText(it.Label, styles.Label) + 5
			s.DrawText(x+lw, base, layout.Truncate(s, value, styles.Small, cw-lw-6), styles.Small, styles.Ink, layout.AlignLeft)
			continue
		}
		s.DrawText(x, r.Y+8, it.Label, layout.F(layout.Bold, 5.5), styles.DkGray, layout.AlignLeft)
		s.DrawText(x, r.Y+r.H-5, layout.Truncate(s, value, styles.BodyBold, cw-6), styles.BodyBold, styles.Ink, layout.AlignLeft)
	}
}

// metaStrip is a meta strip flowed as its own section.
func metaStrip(label string, h float64, fill layout.Color, items ...metaItem) layout.Section {
	return layout.Fixed(label, h, func(s layout.Surface, r layout.Rect) {
		drawMeta(s, r, items, fill)
	})
}

// chrome paints the footer on every page and a condensed header on
// continuation pages.
type chrome struct {
	env      *Env
	title    string
	ref      string
	note     string // footer left
	extra    string // footer right, before the page number
	fill     layout.Color
	text     layout.Color
	noteFont layout.Font
}

func (c chrome) Reserve() float64 { return condensedH + styles.Gap }

func (c chrome) Draw(s layout.Surface, page int) {
	w, h := s.PageSize()
	if page > 0 {
		band := layout.Rect{X: 0, Y: 0, W: w, H: condensedH}
		s.DrawRect(band, layout.Fill(styles.Navy))
		base := layout.Baseline(0, condensedH, styles.BodyBold)
		s.DrawText(styles.Margin, base, c.env.Profile.Name, styles.BodyBold, styles.White, layout.AlignLeft)
		s.DrawText(w-styles.Margin, base, joinNonEmpty("  -  ", c.title, c.ref), styles.Small, panelText, layout.AlignRight)
	}

	foot := layout.Rect{X: 0, Y: h - footerH, W: w, H: footerH}
	s.DrawRect(foot, layout.Fill(c.fill))
	font := c.noteFont
	if font.Size == 0 {
		font = styles.Fine
	}
	s.DrawText(styles.Margin, layout.Baseline(foot.Y, foot.H, font), c.note, font, c.text, layout.AlignLeft)
	pageText := fmt.Sprintf("Page %d of %s", page+1, layout.PageCountAlias)
	s.DrawText(w-styles.Margin, layout.Baseline(foot.Y, foot.H, styles.Fine),
		joinNonEmpty("  -  ", c.extra, pageText), styles.Fine, c.text, layout.AlignRight)
}

// pill draws a rounded label at (x, y) and returns its width.
func pill(s layout.Surface, x, y float64, text string, font layout.Font, fg, bg layout.Color) float64 {
	w := s.MeasureText(text, font) + 12
	h := font.Size + 6
	s.DrawRoundedRect(layout.Rect{X: x, Y: y, W: w, H: h}, h/2, layout.Fill(bg))
	s.DrawText(x+w/2, layout.Baseline(y, h, font), text, font, fg, layout.AlignCenter)
	return w
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
