// Package sink provides the drawing surfaces documents are rendered onto.
//
// # Overview
//
// A "sink" is a [layout.Surface] implementation. This package provides:
//
//   - [PDF]: print-ready output through fpdf, with Poppins when available
//     and core Helvetica otherwise
//   - [Recorder]: a log of draw calls, exported as JSON and used by tests
//
// Both start with one page; [layout.Flow] adds the rest.
//
//	pdf := sink.NewPDF(sink.WithFonts(fonts.System()))
//	// ... assemble onto pdf ...
//	data, err := pdf.Bytes()
//
// A recorder measures text with any [layout.Measurer]. Handing it a [PDF]
// makes the recorded layout identical to the PDF one:
//
//	rec := sink.NewRecorder(sink.NewPDF(), 612, 792)
//
// [PageCount] reads a finished PDF back with pdfcpu.
//
// [layout.Surface]: github.com/usawrapco/wrapdoc/pkg/render/layout.Surface
// [layout.Flow]: github.com/usawrapco/wrapdoc/pkg/render/layout.Flow
// [layout.Measurer]: github.com/usawrapco/wrapdoc/pkg/render/layout.Measurer
package sink
