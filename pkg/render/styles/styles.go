// Package styles holds the house palette and type scale shared by every
// document.
package styles

import (
	"strings"

	"github.com/usawrapco/wrapdoc/pkg/finance"
	"github.com/usawrapco/wrapdoc/pkg/render/layout"
)

// Palette.
var (
	White    = layout.Hex("#ffffff")
	Off      = layout.Hex("#f4f2ef")
	LtGray   = layout.Hex("#e8e5e0")
	MdGray   = layout.Hex("#b8b4ae")
	DkGray   = layout.Hex("#5a5754")
	Ink      = layout.Hex("#1a1917")
	Navy     = layout.Hex("#0e1a2b")
	Navy2    = layout.Hex("#162234")
	Steel    = layout.Hex("#aa6a66")
	SteelL   = layout.Hex("#c4857f")
	SteelD   = layout.Hex("#8a4a47")
	SteelBG  = layout.Hex("#fdf5f5")
	Green    = layout.Hex("#3a8a5c")
	GreenBG  = layout.Hex("#f0faf4")
	Red      = layout.Hex("#c04040")
	RedBG    = layout.Hex("#fdf0f0")
	Gold     = layout.Hex("#b8920a")
	GoldBG   = layout.Hex("#fdf8ec")
	Amber    = layout.Hex("#c07820")
	AmberBG  = layout.Hex("#fffbf0")
	Orange   = layout.Hex("#c87020")
	OrangeBG = layout.Hex("#fff8f0")
	Link     = layout.Hex("#2e5fa3")
	Rule     = layout.Hex("#e0dcd6")
	RowAlt   = layout.Hex("#f7f5f2")
	SecBG    = layout.Hex("#f0eee9")
)

// Type scale.
var (
	Display  = layout.F(layout.Bold, 22)
	Title    = layout.F(layout.Bold, 14)
	Heading  = layout.F(layout.Bold, 10)
	Label    = layout.F(layout.Bold, 7)
	Body     = layout.F(layout.Regular, 8.5)
	BodyBold = layout.F(layout.Bold, 8.5)
	Medium   = layout.F(layout.Medium, 8.5)
	Small    = layout.F(layout.Regular, 7.5)
	Fine     = layout.F(layout.Light, 6.5)
	Amount   = layout.F(layout.Bold, 11)
)

// Spacing.
const (
	Margin     = 22.0 // left and right page margin
	Gap        = 8.0  // space between flowed sections
	Radius     = 4.0
	Hairline   = 0.5
	AccentBar  = 3.0
	CardPad    = 10.0
	LineHeight = 10.0
)

// TierColors returns the text and background colors of a margin tier.
func TierColors(t finance.Tier) (fg, bg layout.Color) {
	switch t {
	case finance.AboveTarget:
		return Green, GreenBG
	case finance.BonusEligible:
		return Amber, AmberBG
	}
	return Red, RedBG
}

// StatusColors maps a status color name from a job record to text and
// background colors. Unknown names use the brand accent.
func StatusColors(name string) (fg, bg layout.Color) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "green", "paid", "approved":
		return Green, GreenBG
	case "gold", "yellow":
		return Gold, GoldBG
	case "amber", "pending":
		return Amber, AmberBG
	case "red", "overdue", "declined":
		return Red, RedBG
	case "navy", "blue":
		return Navy, Off
	}
	if c, err := layout.ParseHex(name); err == nil {
		return c, White
	}
	return Steel, SteelBG
}

// Ptr returns a pointer to a copy of c, for optional colors such as
// [layout.Box] accents.
func Ptr(c layout.Color) *layout.Color { return &c }
