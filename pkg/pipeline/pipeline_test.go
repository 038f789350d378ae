package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/goleak"

	"github.com/usawrapco/wrapdoc/pkg/cache"
	"github.com/usawrapco/wrapdoc/pkg/document"
	"github.com/usawrapco/wrapdoc/pkg/errors"
	"github.com/usawrapco/wrapdoc/pkg/finance"
	"github.com/usawrapco/wrapdoc/pkg/integrations/reviews"
	"github.com/usawrapco/wrapdoc/pkg/job"
	"github.com/usawrapco/wrapdoc/pkg/render/sink"
)

var printed = time.Date(2026, 11, 4, 9, 30, 0, 0, time.UTC)

func newTestRunner(t *testing.T, c cache.Cache) *Runner {
	t.Helper()
	env, err := document.NewEnv()
	if err != nil {
		t.Fatalf("NewEnv() error = %v", err)
	}
	return NewRunner(env, nil, c, nil)
}

func sample(t *testing.T, typ job.DocType) *job.Record {
	t.Helper()
	rec, err := job.Sample(typ)
	if err != nil {
		t.Fatalf("Sample(%s) error = %v", typ, err)
	}
	return rec
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"pdf", false},
		{"json", false},
		{"svg", true},
		{"PDF", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateType(t *testing.T) {
	for _, typ := range job.DocTypes {
		if err := ValidateType(typ); err != nil {
			t.Errorf("ValidateType(%q) error = %v", typ, err)
		}
	}
	err := ValidateType("receipt")
	if !errors.Is(err, errors.ErrCodeInvalidDocType) {
		t.Errorf("ValidateType(receipt) code = %v, want INVALID_DOC_TYPE", errors.GetCode(err))
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantErr  errors.Code
		wantFmt  string
		wantType string
	}{
		{"defaults", Options{Type: job.Invoice}, "", FormatPDF, "application/pdf"},
		{"json", Options{Type: job.Estimate, Format: FormatJSON}, "", FormatJSON, "application/json"},
		{"no type", Options{}, errors.ErrCodeInvalidDocType, "", ""},
		{"bad format", Options{Type: job.Invoice, Format: "png"}, errors.ErrCodeInvalidFormat, "", ""},
		{"bad s3 key", Options{Type: job.Invoice, Output: "s3://bucket/../x.pdf"}, errors.ErrCodeInvalidPath, "", ""},
		{"s3 no key", Options{Type: job.Invoice, Output: "s3://bucket"}, errors.ErrCodeInvalidPath, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ValidateAndSetDefaults() error = %v, want %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateAndSetDefaults() error = %v", err)
			}
			if tt.opts.Format != tt.wantFmt {
				t.Errorf("Format = %q, want %q", tt.opts.Format, tt.wantFmt)
			}
			if got := tt.opts.ContentType(); got != tt.wantType {
				t.Errorf("ContentType() = %q, want %q", got, tt.wantType)
			}
			if tt.opts.Logger == nil {
				t.Error("Logger not defaulted")
			}
		})
	}
}

func TestDefaultOutput(t *testing.T) {
	rec := &job.Record{Ref: "INV-0001"}
	tests := []struct {
		dir, format, want string
	}{
		{"", "pdf", "INV-0001.pdf"},
		{"out", "json", filepath.Join("out", "INV-0001.json")},
		{"s3://docs/2026/", "pdf", "s3://docs/2026/INV-0001.pdf"},
		{"s3://docs", "pdf", "s3://docs/INV-0001.pdf"},
	}
	for _, tt := range tests {
		if got := DefaultOutput(tt.dir, rec, tt.format); got != tt.want {
			t.Errorf("DefaultOutput(%q, %q) = %q, want %q", tt.dir, tt.format, got, tt.want)
		}
	}
}

func TestRenderPDF(t *testing.T) {
	r := newTestRunner(t, nil)
	ctx := context.Background()

	for _, typ := range job.DocTypes {
		t.Run(string(typ), func(t *testing.T) {
			res, err := r.Render(ctx, sample(t, typ), Options{Type: typ, Printed: printed})
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if !bytes.HasPrefix(res.Data, []byte("%PDF-")) {
				t.Fatalf("Render() data does not start with a PDF header")
			}
			n, err := sink.PageCount(res.Data)
			if err != nil {
				t.Fatalf("PageCount() error = %v", err)
			}
			if n != res.Pages {
				t.Errorf("PageCount() = %d, want %d", n, res.Pages)
			}
			if res.CacheHit {
				t.Error("CacheHit = true without a cache")
			}
			if res.Financials == nil {
				t.Error("Financials = nil")
			}
		})
	}
}

func TestRenderInvoiceBalance(t *testing.T) {
	r := newTestRunner(t, nil)
	res, err := r.Render(context.Background(), sample(t, job.Invoice), Options{Type: job.Invoice, Printed: printed})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if want := decimal.NewFromInt(5155); !res.Financials.BalanceDue.Equal(want) {
		t.Errorf("BalanceDue = %s, want %s", res.Financials.BalanceDue, want)
	}
}

func TestRenderJSON(t *testing.T) {
	r := newTestRunner(t, nil)
	res, err := r.Render(context.Background(), sample(t, job.SalesOrder), Options{
		Type:    job.SalesOrder,
		Format:  FormatJSON,
		Printed: printed,
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !json.Valid(res.Data) {
		t.Fatal("Render() JSON output is not valid JSON")
	}
	for _, want := range []string{"SALES ORDER", "SO-0001", "ABOVE TARGET"} {
		if !strings.Contains(string(res.Data), want) {
			t.Errorf("JSON output missing %q", want)
		}
	}
}

func TestRenderCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := newTestRunner(t, c)
	ctx := context.Background()
	rec := sample(t, job.Estimate)
	opts := Options{Type: job.Estimate, Printed: printed}

	first, err := r.Render(ctx, rec, opts)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	second, err := r.Render(ctx, rec, opts)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if first.CacheHit || !second.CacheHit {
		t.Errorf("CacheHit = %v, %v; want false, true", first.CacheHit, second.CacheHit)
	}
	if first.RenderID != second.RenderID || !bytes.Equal(first.Data, second.Data) {
		t.Error("cached render differs from the original")
	}
	if !second.Financials.Deposit.Equal(first.Financials.Deposit) {
		t.Errorf("cached Deposit = %s, want %s", second.Financials.Deposit, first.Financials.Deposit)
	}

	opts.Refresh = true
	third, err := r.Render(ctx, rec, opts)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if third.CacheHit || third.RenderID == first.RenderID {
		t.Error("Refresh did not re-render")
	}

	other := *rec
	other.Ref = "EST-2000"
	fourth, err := r.Render(ctx, &other, Options{Type: job.Estimate, Printed: printed})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if fourth.CacheHit {
		t.Error("a different record hit the cache")
	}
}

func TestRenderReviewCountFromContext(t *testing.T) {
	r := newTestRunner(t, nil)
	ctx := reviews.NewContext(context.Background(), reviews.NewLookup("", time.Hour, 7919, nil, nil))
	res, err := r.Render(ctx, sample(t, job.Estimate), Options{Type: job.Estimate, Format: FormatJSON, Printed: printed})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(string(res.Data), "7919") {
		t.Error("review count from the context lookup not printed")
	}
}

func TestRenderInvalidAmount(t *testing.T) {
	r := newTestRunner(t, nil)
	rec := sample(t, job.Invoice)
	if err := json.Unmarshal([]byte(`"call for price"`), &rec.LineItems[0].Amount); err != nil {
		t.Fatal(err)
	}
	_, err := r.Render(context.Background(), rec, Options{Type: job.Invoice, Printed: printed})
	if !errors.Is(err, errors.ErrCodeInvalidAmount) {
		t.Errorf("Render() error = %v, want INVALID_AMOUNT", err)
	}
}

func TestExecuteStoresLocally(t *testing.T) {
	r := newTestRunner(t, nil)
	out := filepath.Join(t.TempDir(), "docs", "WO-0001.pdf")
	res, err := r.Execute(context.Background(), sample(t, job.WorkOrder), Options{
		Type:    job.WorkOrder,
		Output:  out,
		Printed: printed,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !bytes.Equal(data, res.Data) {
		t.Error("written file differs from Result.Data")
	}
	if res.Location == "" {
		t.Error("Location not set")
	}
}

func TestFinancials(t *testing.T) {
	r := newTestRunner(t, nil)
	f, err := r.Financials(sample(t, job.SalesOrder), finance.RevenueSalePrice)
	if err != nil {
		t.Fatalf("Financials() error = %v", err)
	}
	if got := f.Tier.String(); got != "ABOVE TARGET" {
		t.Errorf("Tier = %q, want ABOVE TARGET", got)
	}
	if want := decimal.NewFromInt(3750); !f.GrossProfit.Equal(want) {
		t.Errorf("GrossProfit = %s, want %s", f.GrossProfit, want)
	}

	rec := sample(t, job.Invoice)
	rec.LineItems = append(rec.LineItems, job.LineItem{Name: "Roof graphics"})
	if _, err := r.Financials(rec, finance.RevenueSubtotal); !errors.Is(err, errors.ErrCodeInvalidAmount) {
		t.Errorf("Financials(unpriced line) error = %v, want INVALID_AMOUNT", err)
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	data, err := job.SampleJSON(job.Invoice)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "inv.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		path     string
		stdin    string
		wantRef  string
		wantCode errors.Code
	}{
		{"file", path, "", "INV-0001", ""},
		{"stdin", Stdin, string(data), "INV-0001", ""},
		{"missing", filepath.Join(t.TempDir(), "nope.json"), "", "", errors.ErrCodeFileNotFound},
		{"empty path", "", "", "", errors.ErrCodeInvalidInput},
		{"bad json", Stdin, "{", "", errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Load(ctx, tt.path, strings.NewReader(tt.stdin))
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("Load() error = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if rec.Ref != tt.wantRef {
				t.Errorf("Ref = %q, want %q", rec.Ref, tt.wantRef)
			}
		})
	}
}

func TestDecodeLimit(t *testing.T) {
	data, err := job.SampleJSON(job.Estimate)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(context.Background(), bytes.NewReader(data), int64(len(data))); err != nil {
		t.Errorf("Decode() at the limit error = %v", err)
	}
	_, err = Decode(context.Background(), bytes.NewReader(data), int64(len(data)-1))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Decode() over the limit error = %v, want INVALID_INPUT", err)
	}
}

func TestLoadSample(t *testing.T) {
	rec, err := LoadSample(context.Background(), job.SalesOrder)
	if err != nil {
		t.Fatalf("LoadSample() error = %v", err)
	}
	if rec.Ref != "SO-0001" {
		t.Errorf("Ref = %q, want SO-0001", rec.Ref)
	}
}

func TestBatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	in := t.TempDir()
	out := t.TempDir()
	var items []BatchItem
	for _, typ := range job.DocTypes {
		data, err := job.SampleJSON(typ)
		if err != nil {
			t.Fatal(err)
		}
		path := filepath.Join(in, string(typ)+".json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
		items = append(items, BatchItem{Path: path})
	}
	items = append(items, BatchItem{Path: filepath.Join(in, "missing.json")})

	r := newTestRunner(t, nil)
	results, err := r.Batch(context.Background(), items, out, Options{Type: job.Invoice, Printed: printed}, 2)
	if err != nil {
		t.Fatalf("Batch() error = %v", err)
	}
	if len(results) != len(items) {
		t.Fatalf("Batch() returned %d results, want %d", len(results), len(items))
	}
	for i, res := range results[:len(job.DocTypes)] {
		if res.Err != nil {
			t.Errorf("item %d error = %v", i, res.Err)
			continue
		}
		if _, err := os.Stat(res.Result.Location); err != nil {
			t.Errorf("item %d output missing: %v", i, err)
		}
	}
	if last := results[len(results)-1]; !errors.Is(last.Err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing item error = %v, want FILE_NOT_FOUND", last.Err)
	}
}

func TestBatchCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := newTestRunner(t, nil)
	results, err := r.Batch(ctx, []BatchItem{{Path: "a.json"}, {Path: "b.json"}}, t.TempDir(), Options{Type: job.Invoice}, 1)
	if err == nil {
		t.Fatal("Batch() with a cancelled context returned no error")
	}
	for _, res := range results {
		if res.Err == nil {
			t.Errorf("%s rendered after cancellation", res.Path)
		}
	}
}
