// Package fonts locates the TrueType files documents are set in.
//
// Documents are set in Poppins. The files are looked up through a chain of
// providers, usually a list of directories; any face that cannot be found
// falls back to the PDF core Helvetica family so rendering never fails for
// lack of fonts.
package fonts

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/usawrapco/wrapdoc/pkg/errors"
	"github.com/usawrapco/wrapdoc/pkg/render/layout"
)

// Family is the name surfaces register the TrueType faces under.
const Family = "Poppins"

// SystemDir is where the google-fonts package installs Poppins.
const SystemDir = "/usr/share/fonts/truetype/google-fonts"

var fileNames = map[layout.Face]string{
	layout.Regular: "Poppins-Regular.ttf",
	layout.Medium:  "Poppins-Medium.ttf",
	layout.Bold:    "Poppins-Bold.ttf",
	layout.Light:   "Poppins-Light.ttf",
}

// FileName returns the TrueType file name of face.
func FileName(face layout.Face) string { return fileNames[face] }

// Provider looks up the TrueType data of one face.
type Provider interface {
	// Lookup returns the font data and a description of where it came from.
	// A face the provider does not have fails with FILE_NOT_FOUND.
	Lookup(face layout.Face) (data []byte, origin string, err error)
}

// Dir is a provider backed by a directory of Poppins-*.ttf files.
type Dir string

// Lookup implements Provider.
func (d Dir) Lookup(face layout.Face) ([]byte, string, error) {
	name, ok := fileNames[face]
	if !ok {
		return nil, "", errors.New(errors.ErrCodeUnsupported, "unknown font face %q", face)
	}
	path := filepath.Join(string(d), name)
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, "", errors.New(errors.ErrCodeFileNotFound, "%s not found", path)
		}
		return nil, "", errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	return data, path, nil
}

// Chain tries providers in order.
type Chain []Provider

// Dirs builds a chain over dirs followed by [SystemDir].
func Dirs(dirs ...string) Chain {
	c := make(Chain, 0, len(dirs)+1)
	for _, d := range dirs {
		if d != "" {
			c = append(c, Dir(d))
		}
	}
	return append(c, Dir(SystemDir))
}

// Lookup implements Provider by returning the first hit.
func (c Chain) Lookup(face layout.Face) ([]byte, string, error) {
	for _, p := range c {
		data, origin, err := p.Lookup(face)
		if err == nil {
			return data, origin, nil
		}
		if !errors.Is(err, errors.ErrCodeFileNotFound) {
			return nil, "", err
		}
	}
	return nil, "", errors.New(errors.ErrCodeFileNotFound, "no provider has %s", fileNames[face])
}

// Set is the resolved font for every face. Faces without TrueType data use
// the core fallback.
type Set struct {
	ttf    map[layout.Face][]byte
	origin map[layout.Face]string
}

// Load resolves every face through p. Missing faces are logged at debug
// level and fall back to core fonts.
func Load(p Provider, logger *log.Logger) *Set {
	if logger == nil {
		logger = log.Default()
	}
	s := &Set{ttf: map[layout.Face][]byte{}, origin: map[layout.Face]string{}}
	for _, face := range layout.Faces {
		data, origin, err := p.Lookup(face)
		if err != nil {
			family, style := Core(face)
			logger.Debug("font fallback", "face", face, "core", family+style, "reason", err)
			continue
		}
		s.ttf[face] = data
		s.origin[face] = origin
	}
	return s
}

// TrueType returns the TrueType data of face, if it was found.
func (s *Set) TrueType(face layout.Face) ([]byte, bool) {
	if s == nil {
		return nil, false
	}
	data, ok := s.ttf[face]
	return data, ok
}

// Origin returns where face was loaded from, or "" for core fallbacks.
func (s *Set) Origin(face layout.Face) string {
	if s == nil {
		return ""
	}
	return s.origin[face]
}

// Core returns the core PDF font family and style standing in for face.
func Core(face layout.Face) (family, style string) {
	if face == layout.Bold {
		return "Helvetica", "B"
	}
	return "Helvetica", ""
}

var (
	systemSet     *Set
	systemSetOnce sync.Once
)

// System returns the set found in [SystemDir], resolved once per process.
func System() *Set {
	systemSetOnce.Do(func() {
		systemSet = Load(Dirs(), nil)
	})
	return systemSet
}
