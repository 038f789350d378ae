package layout

import (
	"github.com/usawrapco/wrapdoc/pkg/errors"
)

// Section is a unit of content that is measured before it is drawn.
//
// Measure must be pure: it may consult the measurer but never draw, and it
// must return the exact height Draw will occupy for the same width.
type Section interface {
	Measure(m Measurer, width float64) float64
	Draw(s Surface, r Rect)
}

// Named is implemented by sections that carry a label for diagnostics.
type Named interface {
	Name() string
}

// Chrome draws the page furniture of continuation pages, such as a
// condensed header and a footer.
type Chrome interface {
	// Reserve returns the height kept free at the top of each page after
	// the first.
	Reserve() float64
	// Draw paints the chrome of page (zero-based). It is called for the
	// first page too, which reserves nothing at the top.
	Draw(s Surface, page int)
}

// RenderedSection records where a section landed.
type RenderedSection struct {
	Name string `json:"name,omitempty"`
	Placement
}

// Flow places sections top to bottom on a surface.
//
// With auto-pagination on, a section that does not fit the current page
// moves whole to a new page; sections are never split. With it off, such a
// section fails with PAGE_OVERFLOW.
type Flow struct {
	surface  Surface
	geometry PageGeometry
	cursor   *Cursor
	chrome   Chrome
	auto     bool
	onBreak  func(page int)
	rendered []RenderedSection
}

// FlowOption configures a [Flow].
type FlowOption func(*Flow)

// WithAutoPaginate toggles automatic page breaks. Defaults to on.
func WithAutoPaginate(on bool) FlowOption {
	return func(f *Flow) { f.auto = on }
}

// WithChrome installs continuation-page chrome.
func WithChrome(c Chrome) FlowOption {
	return func(f *Flow) { f.chrome = c }
}

// WithPageBreakHook is called with the new page index after every break.
func WithPageBreakHook(fn func(page int)) FlowOption {
	return func(f *Flow) { f.onBreak = fn }
}

// NewFlow starts a flow on the surface's current page.
func NewFlow(s Surface, g PageGeometry, gap float64, opts ...FlowOption) *Flow {
	f := &Flow{
		surface:  s,
		geometry: g,
		cursor:   NewCursor(g, gap),
		auto:     true,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.chrome != nil {
		f.cursor.Reserve(f.chrome.Reserve())
		f.chrome.Draw(s, 0)
	}
	return f
}

// Cursor exposes the flow's cursor.
func (f *Flow) Cursor() *Cursor { return f.cursor }

// Surface returns the surface being drawn on.
func (f *Flow) Surface() Surface { return f.surface }

// Width returns the content width sections are laid out in.
func (f *Flow) Width() float64 { return f.geometry.ContentWidth() }

// Pages returns the number of pages started so far.
func (f *Flow) Pages() int { return f.cursor.Page() + 1 }

// Rendered returns the placements of every section added so far.
func (f *Flow) Rendered() []RenderedSection { return f.rendered }

// Add measures sec, finds room for it and draws it.
func (f *Flow) Add(sec Section) (RenderedSection, error) {
	h := sec.Measure(f.surface, f.Width())
	if err := f.makeRoom(sec, h, h); err != nil {
		return RenderedSection{}, err
	}
	return f.place(sec, h, f.cursor.gap)
}

// AddRun adds sections that belong together, such as a table header and
// its rows, with no gap between them. The run may break across pages
// between sections, but the first section never ends a page alone.
func (f *Flow) AddRun(secs ...Section) error {
	heights := make([]float64, len(secs))
	for i, sec := range secs {
		heights[i] = sec.Measure(f.surface, f.Width())
	}
	for i, sec := range secs {
		need := heights[i]
		if i == 0 && len(secs) > 1 && heights[0]+heights[1] <= f.cursor.Usable()+epsilon {
			need += heights[1]
		}
		if err := f.makeRoom(sec, heights[i], need); err != nil {
			return err
		}
		gap := 0.0
		if i == len(secs)-1 {
			gap = f.cursor.gap
		}
		if _, err := f.place(sec, heights[i], gap); err != nil {
			return err
		}
	}
	return nil
}

// makeRoom ensures need points are free, breaking the page if allowed.
func (f *Flow) makeRoom(sec Section, h, need float64) error {
	name := sectionName(sec)
	if h > f.cursor.Usable()+epsilon {
		return errors.New(errors.ErrCodeContentTooLarge,
			"section %s is %.1fpt tall, a page holds %.1fpt", name, h, f.cursor.Usable())
	}
	if f.cursor.Fits(need) {
		return nil
	}
	if !f.auto {
		return errors.New(errors.ErrCodePageOverflow,
			"section %s (%.1fpt) overflows page %d", name, h, f.cursor.Page()+1)
	}
	f.NewPage()
	return nil
}

func (f *Flow) place(sec Section, h, gap float64) (RenderedSection, error) {
	p, err := f.cursor.place(h, gap)
	if err != nil {
		return RenderedSection{}, err
	}
	sec.Draw(f.surface, p.Rect(f.geometry.Left, f.Width()))

	rs := RenderedSection{Name: sectionName(sec), Placement: p}
	f.rendered = append(f.rendered, rs)
	return rs, nil
}

// AddAll adds sections in order and stops at the first error.
func (f *Flow) AddAll(secs ...Section) error {
	for _, sec := range secs {
		if _, err := f.Add(sec); err != nil {
			return err
		}
	}
	return nil
}

// Space advances the cursor by dy without a page break.
func (f *Flow) Space(dy float64) {
	f.cursor.Advance(dy)
}

// NewPage starts a new page and draws its chrome.
func (f *Flow) NewPage() {
	f.surface.NewPage()
	f.cursor.Break()
	if f.chrome != nil {
		f.chrome.Draw(f.surface, f.cursor.Page())
	}
	if f.onBreak != nil {
		f.onBreak(f.cursor.Page())
	}
}

func sectionName(sec Section) string {
	if n, ok := sec.(Named); ok && n.Name() != "" {
		return n.Name()
	}
	return "(unnamed)"
}
