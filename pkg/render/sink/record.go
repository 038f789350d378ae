package sink

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/usawrapco/wrapdoc/pkg/render/layout"
)

// Op kinds.
const (
	OpText        = "text"
	OpRect        = "rect"
	OpRoundedRect = "rounded_rect"
	OpLine        = "line"
	OpImage       = "image"
)

// Op is one recorded draw call.
type Op struct {
	Kind   string        `json:"op"`
	X      float64       `json:"x"`
	Y      float64       `json:"y"`
	W      float64       `json:"w,omitempty"`
	H      float64       `json:"h,omitempty"`
	X2     float64       `json:"x2,omitempty"`
	Y2     float64       `json:"y2,omitempty"`
	Radius float64       `json:"radius,omitempty"`
	Text   string        `json:"text,omitempty"`
	Font   *layout.Font  `json:"font,omitempty"`
	Color  *layout.Color `json:"color,omitempty"`
	Align  layout.Align  `json:"align,omitempty"`
	Paint  *layout.Paint `json:"paint,omitempty"`
	Width  float64       `json:"line_width,omitempty"`
	Image  string        `json:"image,omitempty"`
}

// Page is the ops recorded on one page.
type Page struct {
	Index int  `json:"index"`
	Ops   []Op `json:"ops"`
}

// Recorder is a [layout.Surface] that records draw calls instead of
// rendering them. It is the JSON output format and the test double for
// assemblers.
type Recorder struct {
	m      layout.Measurer
	width  float64
	height float64
	pages  []Page
}

// NewRecorder creates a recorder with one empty page. Text is measured with
// m, so layouts match the surface the measurer came from.
func NewRecorder(m layout.Measurer, width, height float64) *Recorder {
	return &Recorder{
		m:      m,
		width:  width,
		height: height,
		pages:  []Page{{Index: 0}},
	}
}

func (r *Recorder) add(op Op) {
	last := &r.pages[len(r.pages)-1]
	last.Ops = append(last.Ops, op)
}

// MeasureText implements layout.Measurer.
func (r *Recorder) MeasureText(text string, font layout.Font) float64 {
	return r.m.MeasureText(text, font)
}

// PageSize implements layout.Surface.
func (r *Recorder) PageSize() (float64, float64) { return r.width, r.height }

// DrawText implements layout.Surface.
func (r *Recorder) DrawText(x, y float64, text string, font layout.Font, color layout.Color, align layout.Align) {
	if text == "" {
		return
	}
	r.add(Op{Kind: OpText, X: x, Y: y, Text: text, Font: &font, Color: &color, Align: align})
}

// DrawRect implements layout.Surface.
func (r *Recorder) DrawRect(rect layout.Rect, p layout.Paint) {
	r.add(Op{Kind: OpRect, X: rect.X, Y: rect.Y, W: rect.W, H: rect.H, Paint: &p})
}

// DrawRoundedRect implements layout.Surface.
func (r *Recorder) DrawRoundedRect(rect layout.Rect, radius float64, p layout.Paint) {
	r.add(Op{Kind: OpRoundedRect, X: rect.X, Y: rect.Y, W: rect.W, H: rect.H, Radius: radius, Paint: &p})
}

// DrawLine implements layout.Surface.
func (r *Recorder) DrawLine(x1, y1, x2, y2 float64, color layout.Color, width float64) {
	r.add(Op{Kind: OpLine, X: x1, Y: y1, X2: x2, Y2: y2, Color: &color, Width: width})
}

// DrawImage implements layout.Surface.
func (r *Recorder) DrawImage(img *layout.Image, rect layout.Rect) {
	if img == nil {
		return
	}
	r.add(Op{Kind: OpImage, X: rect.X, Y: rect.Y, W: rect.W, H: rect.H, Image: img.Name})
}

// NewPage implements layout.Surface.
func (r *Recorder) NewPage() {
	r.pages = append(r.pages, Page{Index: len(r.pages)})
}

// Pages returns the recorded pages with the page-count alias resolved.
func (r *Recorder) Pages() []Page {
	total := strconv.Itoa(len(r.pages))
	out := make([]Page, len(r.pages))
	for i, p := range r.pages {
		ops := make([]Op, len(p.Ops))
		for j, op := range p.Ops {
			if op.Kind == OpText {
				op.Text = strings.ReplaceAll(op.Text, layout.PageCountAlias, total)
			}
			ops[j] = op
		}
		out[i] = Page{Index: p.Index, Ops: ops}
	}
	return out
}

// Texts returns every text run on page i, in draw order.
func (r *Recorder) Texts(i int) []string {
	pages := r.Pages()
	if i < 0 || i >= len(pages) {
		return nil
	}
	var out []string
	for _, op := range pages[i].Ops {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}

// AllText joins every text run of the document with newlines.
func (r *Recorder) AllText() string {
	var b strings.Builder
	for i := range r.pages {
		for _, t := range r.Texts(i) {
			b.WriteString(t)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

type recording struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Pages  []Page  `json:"pages"`
}

// JSON encodes the recording.
func (r *Recorder) JSON() ([]byte, error) {
	return json.MarshalIndent(recording{Width: r.width, Height: r.height, Pages: r.Pages()}, "", "  ")
}
