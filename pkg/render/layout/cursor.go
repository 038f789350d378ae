package layout

import (
	"github.com/usawrapco/wrapdoc/pkg/errors"
)

// epsilon absorbs float drift when comparing heights that were summed from
// many line-height steps.
const epsilon = 1e-6

// PageGeometry describes the page and its content margins in points.
type PageGeometry struct {
	Width, Height float64
	Top, Bottom   float64 // margins
	Left, Right   float64 // margins
}

// Letter is US Letter (8.5in × 11in) with the given uniform side margin
// and vertical margins.
func Letter(side, top, bottom float64) PageGeometry {
	return PageGeometry{Width: 612, Height: 792, Top: top, Bottom: bottom, Left: side, Right: side}
}

// ContentWidth is the width between the side margins.
func (g PageGeometry) ContentWidth() float64 { return g.Width - g.Left - g.Right }

// UsableHeight is the height between the top and bottom margins.
func (g PageGeometry) UsableHeight() float64 { return g.Height - g.Top - g.Bottom }

// Placement is where the cursor put a block.
type Placement struct {
	Page   int     `json:"page"` // zero-based
	Top    float64 `json:"top"`  // y of the block's top edge
	Height float64 `json:"height"`
}

// Rect returns the placement as a rectangle spanning x..x+w.
func (p Placement) Rect(x, w float64) Rect {
	return Rect{X: x, Y: p.Top, W: w, H: p.Height}
}

// Cursor tracks the vertical position on the current page.
//
// The remaining height is never negative: advancing past the bottom margin
// clamps to zero.
type Cursor struct {
	page     int
	y        float64
	top      float64
	bottom   float64
	gap      float64
	reserved float64 // chrome height at the top of every page after the first
}

// NewCursor starts a cursor at the top of page zero. gap is the vertical
// space left after each placed block.
func NewCursor(g PageGeometry, gap float64) *Cursor {
	return &Cursor{
		y:      g.Top,
		top:    g.Top,
		bottom: g.Height - g.Bottom,
		gap:    gap,
	}
}

// Page returns the zero-based index of the current page.
func (c *Cursor) Page() int { return c.page }

// Y returns the top of the free area on the current page.
func (c *Cursor) Y() float64 { return c.y }

// Bottom returns the y coordinate content may not cross.
func (c *Cursor) Bottom() float64 { return c.bottom }

// Remaining returns the free height left on the current page.
func (c *Cursor) Remaining() float64 {
	return max(0, c.bottom-c.y)
}

// Usable returns the content height of a fresh page, after any chrome
// reservation.
func (c *Cursor) Usable() float64 {
	return c.bottom - c.top - c.reserved
}

// Fits reports whether a block of height h fits on the current page.
func (c *Cursor) Fits(h float64) bool {
	return h <= c.Remaining()+epsilon
}

// Place claims h points on the current page.
//
// It fails with CONTENT_TOO_LARGE when h exceeds a full fresh page and with
// PAGE_OVERFLOW when h only exceeds what is left of the current page.
func (c *Cursor) Place(h float64) (Placement, error) {
	return c.place(h, c.gap)
}

func (c *Cursor) place(h, gap float64) (Placement, error) {
	if h < 0 {
		return Placement{}, errors.New(errors.ErrCodeInvalidInput, "negative block height %.2f", h)
	}
	if h > c.Usable()+epsilon {
		return Placement{}, errors.New(errors.ErrCodeContentTooLarge,
			"block of %.1fpt exceeds the %.1fpt page", h, c.Usable())
	}
	if !c.Fits(h) {
		return Placement{}, errors.New(errors.ErrCodePageOverflow,
			"block of %.1fpt does not fit the %.1fpt left on page %d", h, c.Remaining(), c.page+1)
	}
	p := Placement{Page: c.page, Top: c.y, Height: h}
	c.Advance(h + gap)
	return p, nil
}

// Advance moves the cursor down by dy without placing a block.
func (c *Cursor) Advance(dy float64) {
	c.y = min(c.bottom, c.y+dy)
}

// Break moves the cursor to the top of the next page, below any reserved
// chrome.
func (c *Cursor) Break() {
	c.page++
	c.y = c.top + c.reserved
}

// Reserve sets the chrome height kept free at the top of every page after
// the first.
func (c *Cursor) Reserve(h float64) {
	c.reserved = max(0, h)
}
