// Package render groups the rendering layers shared by every document type.
//
// # Overview
//
//   - [layout]: measure-then-draw flow with page breaks, word wrap and the
//     [layout.Surface] contract
//   - [sink]: surfaces that implement the contract; PDF output and a JSON
//     draw-call recorder
//   - [styles]: the house palette and type scale
//
// The per-type assemblers live in the document package; this tree knows
// nothing about estimates or invoices.
package render
