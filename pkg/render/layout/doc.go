// Package layout is a small flow layout engine for fixed-format documents.
//
// # Model
//
// A document is a vertical flow of [Section] values. Every section is first
// measured against a [Measurer] and only then drawn on a [Surface], so its
// height is known before anything touches the page. A [Cursor] tracks the
// free space on the current page and hands out [Placement] values.
//
// Coordinates are in points with the origin at the top-left corner of the
// page and y growing downward.
//
// # Pagination
//
// [Flow.Add] never splits a section. When a section does not fit what is left
// of the current page it moves whole to the next page; when it would not fit
// even an empty page the flow fails with CONTENT_TOO_LARGE. A [Chrome]
// implementation draws the continuation header and footer on every page.
//
//	flow := layout.NewFlow(surface, layout.Letter(22, 24, 36), 8)
//	for _, sec := range sections {
//	    if _, err := flow.Add(sec); err != nil {
//	        return err
//	    }
//	}
//
// # Word wrap
//
// [Wrap] returns a lazy iterator over greedy word-wrapped lines. Measuring a
// block and drawing it range over the same sequence, which guarantees the
// measured line count matches the drawn one.
package layout
