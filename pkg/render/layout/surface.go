package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Face is a logical font face. Surfaces map faces to concrete fonts.
type Face string

const (
	Regular Face = "regular"
	Medium  Face = "medium"
	Bold    Face = "bold"
	Light   Face = "light"
)

// Faces lists every logical face.
var Faces = []Face{Regular, Medium, Bold, Light}

// Font is a face at a point size.
type Font struct {
	Face Face    `json:"face"`
	Size float64 `json:"size"`
}

// F is shorthand for Font{Face: face, Size: size}.
func F(face Face, size float64) Font { return Font{Face: face, Size: size} }

// Color is an opaque RGB color.
type Color struct {
	R, G, B uint8
}

// Hex parses "#rrggbb" or "#rgb". It panics on malformed input and is
// meant for palette literals; use ParseHex for user data.
func Hex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseHex parses "#rrggbb" or "#rgb".
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// String returns the color as "#rrggbb".
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// MarshalText encodes the color as "#rrggbb".
func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText decodes "#rrggbb".
func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseHex(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Align is horizontal text alignment relative to the x coordinate.
type Align string

const (
	AlignLeft   Align = "left"
	AlignRight  Align = "right"
	AlignCenter Align = "center"
)

// Rect is an axis-aligned rectangle. Y grows downward from the page top.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Inset shrinks r by dx on both sides and dy on top and bottom.
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W - 2*dx, H: r.H - 2*dy}
}

// Paint describes how a shape is filled and stroked.
// A nil Fill or Stroke skips that part.
type Paint struct {
	Fill      *Color  `json:"fill,omitempty"`
	Stroke    *Color  `json:"stroke,omitempty"`
	LineWidth float64 `json:"line_width,omitempty"`
}

// Fill returns a fill-only paint.
func Fill(c Color) Paint { return Paint{Fill: &c} }

// FillStroke returns a paint with both fill and a hairline stroke.
func FillStroke(fill, stroke Color, width float64) Paint {
	return Paint{Fill: &fill, Stroke: &stroke, LineWidth: width}
}

// Image is a decoded raster asset ready to be placed on a page.
type Image struct {
	Name   string // unique key, used by surfaces to register the image once
	Data   []byte // encoded PNG
	Width  int
	Height int
}

// Aspect returns width / height.
func (i *Image) Aspect() float64 {
	if i == nil || i.Height == 0 {
		return 1
	}
	return float64(i.Width) / float64(i.Height)
}

// Measurer reports the advance width of text in a font.
// It is the only capability the measure pass needs.
type Measurer interface {
	MeasureText(text string, font Font) float64
}

// Surface is a page-oriented drawing target.
//
// Coordinates are in points with the origin at the top-left corner of the
// current page. Text is positioned by its baseline.
type Surface interface {
	Measurer
	PageSize() (width, height float64)
	DrawText(x, y float64, text string, font Font, color Color, align Align)
	DrawRect(r Rect, p Paint)
	DrawRoundedRect(r Rect, radius float64, p Paint)
	DrawLine(x1, y1, x2, y2 float64, color Color, width float64)
	DrawImage(img *Image, r Rect)
	NewPage()
}

// PageCountAlias is replaced by the total page count when a surface is
// finished, so footers can print "Page 1 of N" before N is known.
const PageCountAlias = "{nb}"
