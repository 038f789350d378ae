package sink

import (
	"bytes"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/usawrapco/wrapdoc/pkg/errors"
	"github.com/usawrapco/wrapdoc/pkg/fonts"
	"github.com/usawrapco/wrapdoc/pkg/render/layout"
)

// Metadata is written into the PDF info dictionary.
type Metadata struct {
	Title    string
	Subject  string
	Author   string
	Creator  string
	Keywords string
	Created  time.Time // zero means now
}

// PDF is a [layout.Surface] backed by fpdf. It starts with one empty US
// Letter page.
type PDF struct {
	doc    *fpdf.Fpdf
	fonts  *fonts.Set
	ttf    map[layout.Face]string // face -> registered family
	images map[string]bool
	tr     func(string) string // cp1252 translator for core fonts
	cur    layout.Font
	width  float64
	height float64
}

// PDFOption configures a [PDF].
type PDFOption func(*pdfConfig)

type pdfConfig struct {
	fonts    *fonts.Set
	meta     Metadata
	compress bool
}

// WithFonts sets the font set. Faces without TrueType data use core fonts.
func WithFonts(s *fonts.Set) PDFOption {
	return func(c *pdfConfig) { c.fonts = s }
}

// WithMetadata sets the document info.
func WithMetadata(m Metadata) PDFOption {
	return func(c *pdfConfig) { c.meta = m }
}

// WithCompression toggles stream compression. Defaults to on.
func WithCompression(on bool) PDFOption {
	return func(c *pdfConfig) { c.compress = on }
}

// NewPDF creates a PDF surface with its first page started.
func NewPDF(opts ...PDFOption) *PDF {
	cfg := pdfConfig{compress: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCompression(cfg.compress)
	doc.AliasNbPages(layout.PageCountAlias)
	doc.SetTitle(cfg.meta.Title, true)
	doc.SetSubject(cfg.meta.Subject, true)
	doc.SetAuthor(cfg.meta.Author, true)
	doc.SetCreator(cfg.meta.Creator, true)
	doc.SetKeywords(cfg.meta.Keywords, true)
	created := cfg.meta.Created
	if created.IsZero() {
		created = time.Now()
	}
	doc.SetCreationDate(created)
	doc.SetModificationDate(created)

	p := &PDF{
		doc:    doc,
		fonts:  cfg.fonts,
		ttf:    map[layout.Face]string{},
		images: map[string]bool{},
		tr:     doc.UnicodeTranslatorFromDescriptor(""),
	}
	for _, face := range layout.Faces {
		data, ok := cfg.fonts.TrueType(face)
		if !ok {
			continue
		}
		family := fonts.Family + "-" + string(face)
		doc.AddUTF8FontFromBytes(family, "", data)
		p.ttf[face] = family
	}
	p.width, p.height = doc.GetPageSize()
	doc.AddPage()
	return p
}

func (p *PDF) setFont(f layout.Font) {
	if p.cur == f {
		return
	}
	if family, ok := p.ttf[f.Face]; ok {
		p.doc.SetFont(family, "", f.Size)
	} else {
		family, style := fonts.Core(f.Face)
		p.doc.SetFont(family, style, f.Size)
	}
	p.cur = f
}

// encode converts text for the active font. TrueType faces take UTF-8;
// core fonts need cp1252.
func (p *PDF) encode(face layout.Face, s string) string {
	if _, ok := p.ttf[face]; ok {
		return s
	}
	return p.tr(s)
}

// MeasureText implements layout.Measurer.
func (p *PDF) MeasureText(text string, font layout.Font) float64 {
	p.setFont(font)
	return p.doc.GetStringWidth(p.encode(font.Face, text))
}

// PageSize implements layout.Surface.
func (p *PDF) PageSize() (float64, float64) { return p.width, p.height }

// DrawText implements layout.Surface.
func (p *PDF) DrawText(x, y float64, text string, font layout.Font, color layout.Color, align layout.Align) {
	if text == "" {
		return
	}
	p.setFont(font)
	s := p.encode(font.Face, text)
	switch align {
	case layout.AlignRight:
		x -= p.doc.GetStringWidth(s)
	case layout.AlignCenter:
		x -= p.doc.GetStringWidth(s) / 2
	}
	p.doc.SetTextColor(int(color.R), int(color.G), int(color.B))
	p.doc.Text(x, y, s)
}

func (p *PDF) applyPaint(paint layout.Paint) string {
	style := ""
	if paint.Fill != nil {
		p.doc.SetFillColor(int(paint.Fill.R), int(paint.Fill.G), int(paint.Fill.B))
		style += "F"
	}
	if paint.Stroke != nil {
		p.doc.SetDrawColor(int(paint.Stroke.R), int(paint.Stroke.G), int(paint.Stroke.B))
		p.doc.SetLineWidth(max(paint.LineWidth, 0.25))
		style += "D"
	}
	return style
}

// DrawRect implements layout.Surface.
func (p *PDF) DrawRect(r layout.Rect, paint layout.Paint) {
	if style := p.applyPaint(paint); style != "" {
		p.doc.Rect(r.X, r.Y, r.W, r.H, style)
	}
}

// DrawRoundedRect implements layout.Surface.
func (p *PDF) DrawRoundedRect(r layout.Rect, radius float64, paint layout.Paint) {
	style := p.applyPaint(paint)
	if style == "" {
		return
	}
	radius = min(radius, r.W/2, r.H/2)
	p.doc.RoundedRect(r.X, r.Y, r.W, r.H, radius, "1234", style)
}

// DrawLine implements layout.Surface.
func (p *PDF) DrawLine(x1, y1, x2, y2 float64, color layout.Color, width float64) {
	p.doc.SetDrawColor(int(color.R), int(color.G), int(color.B))
	p.doc.SetLineWidth(width)
	p.doc.Line(x1, y1, x2, y2)
}

// DrawImage implements layout.Surface. Each image is embedded once no
// matter how often it is drawn.
func (p *PDF) DrawImage(img *layout.Image, r layout.Rect) {
	if img == nil || len(img.Data) == 0 {
		return
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	if !p.images[img.Name] {
		p.doc.RegisterImageOptionsReader(img.Name, opts, bytes.NewReader(img.Data))
		p.images[img.Name] = true
	}
	p.doc.ImageOptions(img.Name, r.X, r.Y, r.W, r.H, false, opts, 0, "")
}

// NewPage implements layout.Surface.
func (p *PDF) NewPage() {
	p.doc.AddPage()
	p.cur = layout.Font{}
}

// Pages returns the number of pages started.
func (p *PDF) Pages() int { return p.doc.PageCount() }

// Bytes finishes the document and returns the encoded PDF.
func (p *PDF) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.doc.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode pdf")
	}
	return buf.Bytes(), nil
}
