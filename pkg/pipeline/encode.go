package pipeline

import (
	"github.com/usawrapco/wrapdoc/pkg/buildinfo"
	"github.com/usawrapco/wrapdoc/pkg/render/layout"
	"github.com/usawrapco/wrapdoc/pkg/render/sink"
)

// target is a surface that can encode what was drawn on it.
type target interface {
	layout.Surface
	encode() ([]byte, error)
}

type pdfTarget struct{ *sink.PDF }

func (t pdfTarget) encode() ([]byte, error) { return t.Bytes() }

// recordTarget captures the page instructions. It measures text with a PDF
// surface so line breaks match the printed document.
type recordTarget struct{ *sink.Recorder }

func (t recordTarget) encode() ([]byte, error) { return t.JSON() }

func (r *Runner) newTarget(format string, meta sink.Metadata) target {
	meta.Creator = "wrapdoc " + buildinfo.Version
	pdf := sink.NewPDF(
		sink.WithFonts(r.Fonts),
		sink.WithMetadata(meta),
		sink.WithCompression(r.Compress),
	)
	if format == FormatJSON {
		w, h := pdf.PageSize()
		return recordTarget{sink.NewRecorder(pdf, w, h)}
	}
	return pdfTarget{pdf}
}
