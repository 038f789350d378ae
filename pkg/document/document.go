// Package document assembles the shop's four documents from a job record:
// customer estimates and invoices, internal sales orders and installer work
// orders.
//
// Each assembler computes the record's financials, builds the document as
// a sequence of layout sections and flows them onto a surface with
// automatic pagination. Assembly is synchronous and keeps no state between
// calls; one [Env] may be shared by concurrent renders.
//
//	rec, _ := job.LoadFile("INV-0001.json")
//	pdf := sink.NewPDF()
//	res, err := document.Assemble(pdf, job.Invoice, rec, env)
package document

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/usawrapco/wrapdoc/pkg/assets"
	"github.com/usawrapco/wrapdoc/pkg/errors"
	"github.com/usawrapco/wrapdoc/pkg/finance"
	"github.com/usawrapco/wrapdoc/pkg/job"
	"github.com/usawrapco/wrapdoc/pkg/render/layout"
	"github.com/usawrapco/wrapdoc/pkg/render/styles"
	"github.com/usawrapco/wrapdoc/pkg/shop"
)

// dateLayout is how printed dates are written on documents.
const dateLayout = "Jan 2, 2006"

// Env carries the read-only inputs shared by every render.
type Env struct {
	Profile *shop.Profile
	Finance finance.Config
	Assets  *assets.Set // nil prints without artwork

	// Reviews is the current five-star review count. Zero falls back to
	// the profile's count.
	Reviews int

	// Printed is the print timestamp shown on internal documents and used
	// for records without a date. Zero means now.
	Printed time.Time

	Logger *log.Logger
}

// NewEnv returns an environment with the built-in profile and the default
// financial policy.
func NewEnv() (Env, error) {
	p, err := shop.Default()
	if err != nil {
		return Env{}, err
	}
	return Env{Profile: p, Finance: finance.DefaultConfig()}, nil
}

func (e *Env) logo() *layout.Image {
	if e.Assets == nil {
		return nil
	}
	return e.Assets.LogoOnDark
}

func (e *Env) emblem() *layout.Image {
	if e.Assets == nil {
		return nil
	}
	return e.Assets.EmblemOnDark
}

func (e *Env) reviewCount() int {
	if e.Reviews > 0 {
		return e.Reviews
	}
	return e.Profile.Reviews
}

func (e *Env) printed() time.Time {
	if e.Printed.IsZero() {
		return time.Now()
	}
	return e.Printed
}

// Result describes an assembled document.
type Result struct {
	Type       job.DocType
	Pages      int
	Sections   []layout.RenderedSection
	Financials *finance.Financials
}

type assembler func(d *doc) error

var assemblers = map[job.DocType]assembler{
	job.Estimate:   assembleEstimate,
	job.Invoice:    assembleInvoice,
	job.SalesOrder: assembleSalesOrder,
	job.WorkOrder:  assembleWorkOrder,
}

// revenue is the revenue source each document reports against.
var revenue = map[job.DocType]finance.RevenueSource{
	job.Estimate:   finance.RevenueSubtotal,
	job.Invoice:    finance.RevenueSubtotal,
	job.SalesOrder: finance.RevenueSalePrice,
	job.WorkOrder:  finance.RevenueSubtotal,
}

// Assemble lays out the document of type t for rec on s.
//
// It fails with INVALID_AMOUNT when the record carries a non-numeric
// amount or when an estimate or invoice line has no amount, and with CONTENT_TOO_LARGE when a single section cannot fit on a
// page. Missing artwork is not an error.
func Assemble(s layout.Surface, t job.DocType, rec *job.Record, env Env) (*Result, error) {
	build, ok := assemblers[t]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidDocType, "no assembler for %q", t)
	}
	if env.Profile == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "document environment has no shop profile")
	}
	if env.Logger == nil {
		env.Logger = log.Default()
	}

	opts := []finance.Option{finance.WithRevenue(revenue[t])}
	if t == job.Estimate {
		opts = append(opts, finance.WithDefaultDeposit())
	}
	if t == job.Estimate || t == job.Invoice {
		opts = append(opts, finance.WithPricedLines())
	}
	fin, err := finance.Compute(rec, env.Finance, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", t, rec.Ref, err)
	}

	d := &doc{env: &env, rec: rec, fin: fin, surface: s, kind: t}
	if err := build(d); err != nil {
		return nil, fmt.Errorf("%s %s: %w", t, rec.Ref, err)
	}

	env.Logger.Debug("document assembled", "type", t, "ref", rec.Ref, "pages", d.flow.Pages(), "sections", len(d.flow.Rendered()))
	return &Result{
		Type:       t,
		Pages:      d.flow.Pages(),
		Sections:   d.flow.Rendered(),
		Financials: fin,
	}, nil
}

// doc is the state of one assembly.
type doc struct {
	env     *Env
	rec     *job.Record
	fin     *finance.Financials
	surface layout.Surface
	kind    job.DocType
	flow    *layout.Flow
}

// start opens the flow with the document's chrome installed.
func (d *doc) start(c chrome) {
	c.env = d.env
	d.flow = layout.NewFlow(d.surface, Page, styles.Gap,
		layout.WithChrome(c),
		layout.WithPageBreakHook(func(page int) {
			d.env.Logger.Debug("page break", "type", d.kind, "ref", d.rec.Ref, "page", page+1)
		}))
}

// add flows sections in order.
func (d *doc) add(secs ...layout.Section) error {
	return d.flow.AddAll(secs...)
}

// table flows a table so it may break between rows, with trailing sections
// kept in the same run.
func (d *doc) table(t layout.Table, trailing ...layout.Section) error {
	return d.flow.AddRun(append(t.Sections(), trailing...)...)
}

func (d *doc) width() float64 { return d.flow.Width() }

// date returns the record date, or the print date when absent.
func (d *doc) date() string {
	if d.rec.Date != "" {
		return d.rec.Date
	}
	return d.env.printed().Format(dateLayout)
}
