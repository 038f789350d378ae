package document

import (
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/usawrapco/wrapdoc/pkg/errors"
	"github.com/usawrapco/wrapdoc/pkg/finance"
	"github.com/usawrapco/wrapdoc/pkg/job"
	"github.com/usawrapco/wrapdoc/pkg/money"
	"github.com/usawrapco/wrapdoc/pkg/render/layout"
	"github.com/usawrapco/wrapdoc/pkg/render/sink"
)

func testEnv(t *testing.T) Env {
	t.Helper()
	env, err := NewEnv()
	if err != nil {
		t.Fatalf("NewEnv() error: %v", err)
	}
	env.Printed = time.Date(2026, 11, 4, 9, 0, 0, 0, time.UTC)
	env.Logger = log.New(io.Discard)
	return env
}

func newSurface() *sink.Recorder {
	return sink.NewRecorder(layout.MonoMeasurer{}, Page.Width, Page.Height)
}

func assembleSample(t *testing.T, dt job.DocType) (*Result, *sink.Recorder) {
	t.Helper()
	rec, err := job.Sample(dt)
	if err != nil {
		t.Fatalf("Sample(%s) error: %v", dt, err)
	}
	s := newSurface()
	res, err := Assemble(s, dt, rec, testEnv(t))
	if err != nil {
		t.Fatalf("Assemble(%s) error: %v", dt, err)
	}
	return res, s
}

func TestAssembleSamples(t *testing.T) {
	for _, dt := range job.DocTypes {
		t.Run(string(dt), func(t *testing.T) {
			res, s := assembleSample(t, dt)
			if res.Type != dt {
				t.Errorf("Type = %v, want %v", res.Type, dt)
			}
			if res.Pages != len(s.Pages()) {
				t.Errorf("Pages = %d, surface has %d", res.Pages, len(s.Pages()))
			}
			if len(res.Sections) == 0 {
				t.Fatal("no sections rendered")
			}
			if res.Sections[0].Name != "header" {
				t.Errorf("first section = %q, want header", res.Sections[0].Name)
			}
			footer := "Page 1 of " + strconv.Itoa(res.Pages)
			if !contains(s.Texts(0), footer) {
				t.Errorf("page 1 has no %q footer", footer)
			}
			if !strings.Contains(s.AllText(), dt.Title()) {
				t.Errorf("document does not show its title %q", dt.Title())
			}
		})
	}
}

func TestInvoiceBalance(t *testing.T) {
	res, s := assembleSample(t, job.Invoice)

	if got := money.Format(res.Financials.BalanceDue); got != "$5,155.00" {
		t.Errorf("BalanceDue = %s, want $5,155.00", got)
	}
	text := s.AllText()
	for _, want := range []string{"BALANCE DUE", "$5,155.00", "Sales Tax (8.1%)", "$405.00", "No payments recorded.", "INV-0001"} {
		if !strings.Contains(text, want) {
			t.Errorf("invoice text missing %q", want)
		}
	}
	if res.Pages != 1 {
		t.Errorf("Pages = %d, want 1", res.Pages)
	}
}

func TestInvoiceState(t *testing.T) {
	tests := []struct {
		status, color string
		want          invoiceState
	}{
		{"Payment Due", "due", invoiceDue},
		{"Paid in Full", "", invoicePaid},
		{"Unpaid", "", invoiceDue},
		{"Overdue", "", invoiceOverdue},
		{"Past due", "red", invoiceOverdue},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			r := &job.Record{Status: tt.status, StatusColor: tt.color}
			if got := invoiceStateOf(r); got != tt.want {
				t.Errorf("invoiceStateOf(%q, %q) = %v, want %v", tt.status, tt.color, got, tt.want)
			}
		})
	}
}

func TestEstimateDetailsStartNewPage(t *testing.T) {
	res, s := assembleSample(t, job.Estimate)

	if res.Pages < 2 {
		t.Fatalf("Pages = %d, want at least 2", res.Pages)
	}
	if !contains(s.Texts(0), "BALANCE DUE") {
		t.Error("totals not on page 1")
	}
	if contains(s.Texts(1), "BALANCE DUE") {
		t.Error("totals repeated on page 2")
	}
	if got := money.Format(res.Financials.Deposit); got != "$250.00" {
		t.Errorf("Deposit = %s, want the default $250.00", got)
	}
	for _, sec := range res.Sections {
		if sec.Page > 0 && sec.Top < Page.Top+condensedH {
			t.Errorf("section %q on page %d at %v overlaps the condensed header", sec.Name, sec.Page+1, sec.Top)
		}
	}
}

func TestSalesOrderFinancials(t *testing.T) {
	res, s := assembleSample(t, job.SalesOrder)

	f := res.Financials
	if f.Source != finance.RevenueSalePrice {
		t.Errorf("Source = %v, want sale-price", f.Source)
	}
	if f.Tier != finance.AboveTarget {
		t.Errorf("Tier = %v, want ABOVE TARGET", f.Tier)
	}
	text := s.AllText()
	for _, want := range []string{
		"ABOVE TARGET",
		"75.0%",
		"TOTALS",
		money.Format(f.GrossProfit),
		money.Format(f.Commission.Amount),
		"Base Rate (Inbound)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("sales order text missing %q", want)
		}
	}
	if !strings.Contains(text, "Comm. calculated on GP") {
		t.Error("commission basis note missing")
	}
}

func TestWorkOrderChecklists(t *testing.T) {
	_, s := assembleSample(t, job.WorkOrder)
	env := testEnv(t)

	text := s.AllText()
	for _, want := range []string{env.Profile.PreChecks(nil)[0], env.Profile.PostChecks(nil)[0], "NORMAL PRIORITY", "READY TO INSTALL", "SQ FT"} {
		if !strings.Contains(text, want) {
			t.Errorf("work order text missing %q", want)
		}
	}
}

func TestScopeRowHeight(t *testing.T) {
	bullets := []string{"Full sides", "Edges sealed"}
	tests := []struct {
		name string
		item job.LineItem
		want float64
	}{
		{"with vehicle", job.LineItem{Name: "Wrap", Vehicle: "2024 Transit", Sub: "Cast vinyl", Bullets: bullets}, 13 + 10 + 11 + 2*10 + 6},
		{"without vehicle", job.LineItem{Name: "Wrap", Sub: "Cast vinyl", Bullets: bullets}, 13 + 11 + 2*10 + 6},
		{"no bullets", job.LineItem{Name: "Perf"}, 13 + 11 + 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := scopeTable([]job.LineItem{tt.item})
			if got := table.Body(0).Measure(layout.MonoMeasurer{}, 568); got != tt.want {
				t.Errorf("row height = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScopeRowHeightWrapsBullets(t *testing.T) {
	long := strings.Repeat("word ", 60)
	table := scopeTable([]job.LineItem{{Name: "Wrap", Bullets: []string{long}}})
	got := table.Body(0).Measure(layout.MonoMeasurer{}, 568)
	if got <= 13+11+10+6 {
		t.Errorf("row height = %v, want a wrapped bullet taller than one line", got)
	}
}

func TestAssembleErrors(t *testing.T) {
	env := testEnv(t)

	t.Run("invalid amount", func(t *testing.T) {
		rec, err := job.Parse([]byte(`{"ref":"INV-9","client_name":"A","line_items":[{"name":"Wrap","amount":"abc"}]}`))
		if err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
		_, err = Assemble(newSurface(), job.Invoice, rec, env)
		if !errors.Is(err, errors.ErrCodeInvalidAmount) {
			t.Errorf("Assemble() error = %v, want INVALID_AMOUNT", err)
		}
	})

	t.Run("missing line amount", func(t *testing.T) {
		for _, dt := range []job.DocType{job.Estimate, job.Invoice} {
			rec, _ := job.Sample(dt)
			rec.LineItems = append(rec.LineItems, job.LineItem{Name: "Full wrap, price TBD"})
			_, err := Assemble(newSurface(), dt, rec, env)
			if !errors.Is(err, errors.ErrCodeInvalidAmount) {
				t.Errorf("Assemble(%s) error = %v, want INVALID_AMOUNT", dt, err)
			}
		}
	})

	t.Run("unpriced work order line", func(t *testing.T) {
		rec, _ := job.Sample(job.WorkOrder)
		rec.LineItems = append(rec.LineItems, job.LineItem{Name: "Remove old graphics"})
		if _, err := Assemble(newSurface(), job.WorkOrder, rec, env); err != nil {
			t.Errorf("Assemble(workorder) error = %v", err)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		rec, _ := job.Sample(job.Invoice)
		_, err := Assemble(newSurface(), job.DocType("receipt"), rec, env)
		if !errors.Is(err, errors.ErrCodeInvalidDocType) {
			t.Errorf("Assemble() error = %v, want INVALID_DOC_TYPE", err)
		}
	})

	t.Run("no profile", func(t *testing.T) {
		rec, _ := job.Sample(job.Invoice)
		_, err := Assemble(newSurface(), job.Invoice, rec, Env{Finance: finance.DefaultConfig()})
		if !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("Assemble() error = %v, want INVALID_CONFIG", err)
		}
	})

	t.Run("oversized section", func(t *testing.T) {
		rec, _ := job.Sample(job.WorkOrder)
		rec.SpecialNotes = strings.Repeat("Keep the ladder rack off until post-heat. ", 400)
		_, err := Assemble(newSurface(), job.WorkOrder, rec, env)
		if !errors.Is(err, errors.ErrCodeContentTooLarge) {
			t.Errorf("Assemble() error = %v, want CONTENT_TOO_LARGE", err)
		}
	})
}

func TestJoinNonEmpty(t *testing.T) {
	tests := []struct {
		parts []string
		want  string
	}{
		{[]string{"a", "", " b "}, "a - b"},
		{[]string{"", "  "}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := joinNonEmpty(" - ", tt.parts...); got != tt.want {
			t.Errorf("joinNonEmpty(%q) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}

func contains(texts []string, want string) bool {
	for _, s := range texts {
		if strings.Contains(s, want) {
			return true
		}
	}
	return false
}
