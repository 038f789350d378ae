// Package pipeline runs the document pipeline shared by the CLI and the
// HTTP server.
//
// A render goes through five stages:
//
//  1. Load: read and validate the job record (file, stdin or built-in sample)
//  2. Assemble: compute the financials and flow the document's sections
//  3. Encode: produce PDF bytes or the JSON page-instruction dump
//  4. Store: write the bytes to a local path or an s3:// URL
//
// Financials are computed inside Assemble, so a record with a bad amount
// fails before anything is drawn. Each stage reports to the
// [observability] pipeline hooks.
//
// # Usage
//
//	runner := pipeline.NewRunner(env, fontSet, cache, logger)
//	rec, err := pipeline.Load(ctx, "INV-0001.json", os.Stdin)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := runner.Execute(ctx, rec, pipeline.Options{
//	    Type:   job.Invoice,
//	    Output: "INV-0001.pdf",
//	})
//
// Runners keep no per-render state; one runner may serve concurrent
// renders.
package pipeline

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/usawrapco/wrapdoc/pkg/errors"
	"github.com/usawrapco/wrapdoc/pkg/finance"
	"github.com/usawrapco/wrapdoc/pkg/job"
	"github.com/usawrapco/wrapdoc/pkg/storage"
)

// =============================================================================
// Default Values
// =============================================================================

// Format constants for output formats.
const (
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// DefaultFormat is the output format when none is requested.
const DefaultFormat = FormatPDF

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPDF:  true,
	FormatJSON: true,
}

// TTLRender is how long encoded documents stay in the render cache.
const TTLRender = 24 * time.Hour

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one render.
type Options struct {
	Type   job.DocType `json:"type"`
	Format string      `json:"format,omitempty"`

	// Output is a local path or s3://bucket/key. Empty skips the store
	// stage and leaves the bytes in Result.Data.
	Output string `json:"output,omitempty"`

	// Printed is the print timestamp. Zero means now.
	Printed time.Time `json:"printed,omitempty"`

	// Refresh skips the render cache read.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result is the outcome of one render.
type Result struct {
	// RenderID identifies this render in logs and the PDF metadata.
	RenderID uuid.UUID

	Type     job.DocType
	Ref      string
	Format   string
	Pages    int
	Data     []byte
	Location string // where the store stage wrote Data; empty when not stored

	Financials *finance.Financials

	Stats    Stats
	CacheHit bool
}

// Stats contains pipeline timings and sizes.
type Stats struct {
	AssembleTime time.Duration // assemble and encode together on a cache miss
	StoreTime    time.Duration
	Size         int
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: pdf, json)", format)
	}
	return nil
}

// ValidateType checks that t names a document.
func ValidateType(t job.DocType) error {
	for _, known := range job.DocTypes {
		if t == known {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidDocType, "invalid type: %q (must be one of: estimate, invoice, salesorder, workorder)", t)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := ValidateType(o.Type); err != nil {
		return err
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if storage.IsS3(o.Output) {
		if _, _, err := storage.ParseS3URL(o.Output); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ContentType returns the MIME type of the chosen format.
func (o *Options) ContentType() string {
	if o.Format == FormatJSON {
		return "application/json"
	}
	return "application/pdf"
}

// DefaultOutput names the output for rec inside dir, e.g.
// "out/INV-0001.pdf" or "s3://bucket/docs/INV-0001.pdf".
func DefaultOutput(dir string, rec *job.Record, format string) string {
	name := rec.Ref + "." + format
	if dir == "" {
		return name
	}
	if storage.IsS3(dir) {
		return strings.TrimSuffix(dir, "/") + "/" + name
	}
	return filepath.Join(dir, name)
}
