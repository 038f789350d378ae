package assets

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Brightness thresholds of the monochrome logo artwork. Pixels darker than
// inkBelow are the solid mark, pixels between inkBelow and paperAbove are
// anti-aliased edges, and anything lighter is background.
const (
	inkBelow   = 100
	paperAbove = 195
)

var (
	onDarkInk  = color.NRGBA{246, 246, 244, 255}
	onDarkEdge = color.NRGBA{190, 120, 116, 220}

	onLightInk  = color.NRGBA{14, 26, 43, 255}
	onLightEdge = color.NRGBA{140, 80, 76, 200}

	// Navy is the emblem tint used on light backgrounds.
	Navy = color.NRGBA{14, 26, 43, 255}
)

// OnDark recolors monochrome artwork for a dark background: the mark turns
// off-white, edges turn muted rose and the background becomes transparent.
func OnDark(img image.Image) *image.NRGBA {
	return recolor(img, onDarkInk, onDarkEdge)
}

// OnLight recolors monochrome artwork for a light background, with a navy
// mark.
func OnLight(img image.Image) *image.NRGBA {
	return recolor(img, onLightInk, onLightEdge)
}

func recolor(img image.Image, ink, edge color.NRGBA) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		if c.A <= 50 {
			return color.NRGBA{}
		}
		b := (float64(c.R) + float64(c.G) + float64(c.B)) / 3
		switch {
		case b < inkBelow:
			return ink
		case b < paperAbove:
			out := edge
			out.A = uint8((paperAbove - b) / (paperAbove - inkBelow) * float64(edge.A))
			return out
		}
		return color.NRGBA{}
	})
}

// Flatten composites img over an opaque background. With tint set, every
// visible pixel of img is first painted in tint, keeping its alpha.
func Flatten(img image.Image, bg color.NRGBA, tint *color.NRGBA) *image.NRGBA {
	src := imaging.Clone(img)
	if tint != nil {
		src = imaging.AdjustFunc(src, func(c color.NRGBA) color.NRGBA {
			if c.A <= 50 {
				return c
			}
			return color.NRGBA{tint.R, tint.G, tint.B, c.A}
		})
	}
	bounds := src.Bounds()
	canvas := imaging.New(bounds.Dx(), bounds.Dy(), bg)
	return imaging.Overlay(canvas, src, image.Pt(0, 0), 1.0)
}
