// Package assets loads the shop's brand artwork and prepares it for the
// backgrounds it is printed on.
//
// The source files are monochrome PNGs. Each is recolored once at load for
// dark and light backgrounds and re-encoded, and the results are shared
// read-only by every render. A missing or unreadable file is logged and
// leaves its images nil; documents then print without that artwork.
package assets

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/usawrapco/wrapdoc/pkg/errors"
	"github.com/usawrapco/wrapdoc/pkg/render/layout"
)

// Source file names inside the assets directory.
const (
	LogoFile   = "logo_horiz_clean.png"
	EmblemFile = "eagle_light.png"
)

// maxSide bounds the pixel size of embedded artwork. Logos print at most a
// few inches wide, so larger sources only bloat the PDF.
const maxSide = 1200

// Background colors the emblem is flattened onto.
var (
	DarkBG  = color.NRGBA{14, 26, 43, 255}
	LightBG = color.NRGBA{240, 238, 233, 255}
)

// Set is the prepared artwork. Any field may be nil.
type Set struct {
	LogoOnDark    *layout.Image
	LogoOnLight   *layout.Image
	EmblemOnDark  *layout.Image
	EmblemOnLight *layout.Image
}

// Empty reports whether no artwork was loaded.
func (s *Set) Empty() bool {
	return s == nil || (s.LogoOnDark == nil && s.LogoOnLight == nil && s.EmblemOnDark == nil && s.EmblemOnLight == nil)
}

// Load prepares the artwork found in dir. It never fails: problems are
// logged at warn level and the affected images stay nil.
func Load(dir string, logger *log.Logger) *Set {
	if logger == nil {
		logger = log.Default()
	}
	set := &Set{}

	if logo, err := Open(filepath.Join(dir, LogoFile)); err != nil {
		logger.Warn("logo omitted", "err", err)
	} else {
		set.LogoOnDark = encodeOrWarn(logger, "logo-dark", OnDark(logo))
		set.LogoOnLight = encodeOrWarn(logger, "logo-light", OnLight(logo))
	}

	if emblem, err := Open(filepath.Join(dir, EmblemFile)); err != nil {
		logger.Warn("emblem omitted", "err", err)
	} else {
		set.EmblemOnDark = encodeOrWarn(logger, "emblem-dark", Flatten(emblem, DarkBG, nil))
		set.EmblemOnLight = encodeOrWarn(logger, "emblem-light", Flatten(emblem, LightBG, &Navy))
	}

	logger.Debug("assets loaded", "dir", dir, "empty", set.Empty())
	return set
}

// Open decodes the image at path, scaled down to fit the embed bound.
// A missing file fails with ASSET_MISSING.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.New(errors.ErrCodeAssetMissing, "%s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeAssetMissing, err, "decode %s", path)
	}
	b := img.Bounds()
	if b.Dx() > maxSide || b.Dy() > maxSide {
		img = imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	}
	return img, nil
}

// Encode packs img as a PNG surface image.
func Encode(name string, img image.Image) (*layout.Image, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}
	b := img.Bounds()
	return &layout.Image{Name: name, Data: buf.Bytes(), Width: b.Dx(), Height: b.Dy()}, nil
}

func encodeOrWarn(logger *log.Logger, name string, img image.Image) *layout.Image {
	out, err := Encode(name, img)
	if err != nil {
		logger.Warn("artwork omitted", "name", name, "err", err)
		return nil
	}
	return out
}
