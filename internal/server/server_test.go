package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
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
	"github.com/usawrapco/wrapdoc/pkg/observability"
	"github.com/usawrapco/wrapdoc/pkg/pipeline"
)

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	env, err := document.NewEnv()
	if err != nil {
		t.Fatalf("NewEnv() error = %v", err)
	}
	return New(pipeline.NewRunner(env, nil, cache.NewNullCache(), nil), opts)
}

func sampleBody(t *testing.T, typ job.DocType) *bytes.Reader {
	t.Helper()
	data, err := job.SampleJSON(typ)
	if err != nil {
		t.Fatal(err)
	}
	return bytes.NewReader(data)
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /healthz status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status": "ok"`) {
		t.Errorf("GET /healthz body = %s", rec.Body.String())
	}
}

func TestDocumentPDF(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	for _, typ := range job.DocTypes {
		t.Run(string(typ), func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/documents/"+string(typ), sampleBody(t, typ))
			h.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
				t.Errorf("Content-Type = %q, want application/pdf", ct)
			}
			if rec.Header().Get(HeaderRenderID) == "" {
				t.Errorf("%s header missing", HeaderRenderID)
			}
			if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
				t.Errorf("body does not start with %%PDF-")
			}
		})
	}
}

func TestDocumentJSON(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/documents/so?format=json", sampleBody(t, job.SalesOrder))
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if !json.Valid(rec.Body.Bytes()) {
		t.Fatal("body is not valid JSON")
	}
	for _, want := range []string{"SALES ORDER", "SO-0001"} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestDocumentErrors(t *testing.T) {
	h := newTestServer(t, Options{MaxBodySize: 64 << 10}).Handler()

	tests := []struct {
		name       string
		target     string
		body       string
		wantStatus int
		wantCode   errors.Code
	}{
		{"unknown type", "/v1/documents/receipt", `{}`, http.StatusBadRequest, errors.ErrCodeInvalidDocType},
		{"bad format", "/v1/documents/invoice?format=svg", `{}`, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"malformed json", "/v1/documents/invoice", `{"ref":`, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"too large", "/v1/documents/invoice", `{"ref":"` + strings.Repeat("x", 65<<10) + `"}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad amount", "/v1/documents/invoice", `{"ref":"INV-9","client_name":"A","line_items":[{"name":"Wrap","amount":"call for price"}]}`, http.StatusBadRequest, errors.ErrCodeInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.target, strings.NewReader(tt.body)))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			var body errorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("error body is not JSON: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", body.Code, tt.wantCode)
			}
		})
	}
}

func TestFinancials(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/financials?revenue=sale-price", sampleBody(t, job.SalesOrder))
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var got finance.Financials
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode financials: %v", err)
	}
	if got.Tier != finance.AboveTarget {
		t.Errorf("Tier = %v, want ABOVE TARGET", got.Tier)
	}
	if want := decimal.NewFromInt(3750); !got.GrossProfit.Equal(want) {
		t.Errorf("GrossProfit = %s, want %s", got.GrossProfit, want)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/financials?revenue=gross", sampleBody(t, job.SalesOrder)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown revenue status = %d, want 400", rec.Code)
	}
}

func TestReviewsAttached(t *testing.T) {
	lookup := reviews.NewLookup("", time.Hour, 7919, nil, nil)
	h := newTestServer(t, Options{Reviews: lookup}).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/documents/estimate?format=json", sampleBody(t, job.Estimate)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "7919") {
		t.Error("rendered estimate does not show the review count")
	}
}

func TestMetricsRoute(t *testing.T) {
	m := observability.NewMetrics()
	h := newTestServer(t, Options{Metrics: m}).Handler()

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/documents/invoice", sampleBody(t, job.Invoice)))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/documents/wo", sampleBody(t, job.WorkOrder)))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics status = %d", rec.Code)
	}
	want := `wrapdoc_http_requests_total{method="POST",route="/v1/documents/{type}",status="OK"} 2`
	if !strings.Contains(rec.Body.String(), want) {
		t.Errorf("metrics missing %s", want)
	}
}

func TestNoMetricsRoute(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /metrics without metrics status = %d, want 404", rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidInput, http.StatusBadRequest},
		{errors.ErrCodeContentTooLarge, http.StatusUnprocessableEntity},
		{errors.ErrCodeExternalService, http.StatusBadGateway},
		{errors.ErrCodeTimeout, http.StatusGatewayTimeout},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(errors.New(tt.code, "x")); got != tt.want {
			t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestRunShutdown(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	s := newTestServer(t, Options{Addr: addr})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	client := &http.Client{Timeout: time.Second}
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = client.Get("http://" + addr + "/healthz")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		cancel()
		t.Fatalf("server never came up: %v", err)
	}
	resp.Body.Close()
	client.CloseIdleConnections()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
