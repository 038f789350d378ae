package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/usawrapco/wrapdoc/pkg/errors"
)

// artwork is a 3×1 image: black mark, mid-gray edge, white paper.
func artwork() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.NRGBA{0, 0, 0, 255})
	img.Set(1, 0, color.NRGBA{147, 147, 147, 255})
	img.Set(2, 0, color.NRGBA{255, 255, 255, 255})
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRecolor(t *testing.T) {
	tests := []struct {
		name string
		fn   func(image.Image) *image.NRGBA
		ink  color.NRGBA
	}{
		{"on dark", OnDark, onDarkInk},
		{"on light", OnLight, onLightInk},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.fn(artwork())
			if got := out.NRGBAAt(0, 0); got != tt.ink {
				t.Errorf("mark = %v, want %v", got, tt.ink)
			}
			edge := out.NRGBAAt(1, 0)
			if edge.A == 0 || edge.A == 255 {
				t.Errorf("edge alpha = %d, want partial", edge.A)
			}
			if got := out.NRGBAAt(2, 0); got.A != 0 {
				t.Errorf("paper alpha = %d, want 0", got.A)
			}
		})
	}
}

func TestFlatten(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.NRGBA{255, 255, 255, 255})

	out := Flatten(src, LightBG, &Navy)
	if got := out.NRGBAAt(0, 0); got != Navy {
		t.Errorf("tinted pixel = %v, want %v", got, Navy)
	}
	if got := out.NRGBAAt(1, 0); got != LightBG {
		t.Errorf("background pixel = %v, want %v", got, LightBG)
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), LogoFile))
	if !errors.Is(err, errors.ErrCodeAssetMissing) {
		t.Errorf("Open() error = %v, want ASSET_MISSING", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, LogoFile), artwork())

	var logs bytes.Buffer
	set := Load(dir, log.New(&logs))

	if set.LogoOnDark == nil || set.LogoOnLight == nil {
		t.Fatal("logo images missing")
	}
	if set.LogoOnDark.Width != 3 || set.LogoOnDark.Height != 1 {
		t.Errorf("logo size = %dx%d, want 3x1", set.LogoOnDark.Width, set.LogoOnDark.Height)
	}
	if set.EmblemOnDark != nil || set.EmblemOnLight != nil {
		t.Error("emblem images set without a source file")
	}
	if !bytes.Contains(logs.Bytes(), []byte("emblem omitted")) {
		t.Errorf("missing emblem not logged: %q", logs.String())
	}
	if set.Empty() {
		t.Error("Empty() = true with a logo loaded")
	}
}
