package observability

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsPipeline(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics()

	m.OnAssembleComplete(ctx, "invoice", 1, 5*time.Millisecond, nil)
	m.OnAssembleComplete(ctx, "invoice", 2, 5*time.Millisecond, nil)
	m.OnAssembleComplete(ctx, "estimate", 0, time.Millisecond, errors.New("boom"))
	m.OnEncodeComplete(ctx, "pdf", 40<<10, time.Millisecond, nil)

	if got := testutil.ToFloat64(m.documents.WithLabelValues("invoice")); got != 2 {
		t.Errorf("documents{invoice} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.documents.WithLabelValues("estimate")); got != 0 {
		t.Errorf("documents{estimate} = %v, want 0", got)
	}
	if got := testutil.ToFloat64(m.stageErrors.WithLabelValues("assemble")); got != 1 {
		t.Errorf("stage_errors{assemble} = %v, want 1", got)
	}
}

func TestMetricsCache(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics()
	m.OnCacheHit(ctx, "reviews")
	m.OnCacheHit(ctx, "reviews")
	m.OnCacheMiss(ctx, "reviews")
	m.OnCacheSet(ctx, "imagegen", 10)

	tests := []struct {
		ns, event string
		want      float64
	}{
		{"reviews", "hit", 2},
		{"reviews", "miss", 1},
		{"imagegen", "set", 1},
		{"imagegen", "hit", 0},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(m.cacheEvents.WithLabelValues(tt.ns, tt.event)); got != tt.want {
			t.Errorf("cache_events{%s,%s} = %v, want %v", tt.ns, tt.event, got, tt.want)
		}
	}
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.ObserveRequest(http.MethodPost, "/v1/documents/{type}", http.StatusOK, 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`wrapdoc_http_requests_total{method="POST",route="/v1/documents/{type}",status="OK"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("/metrics missing %q", want)
		}
	}
}

func TestMetricsInstall(t *testing.T) {
	defer Reset()
	m := NewMetrics()
	m.Install()
	if Pipeline() != m || Cache() != m || HTTP() != m {
		t.Error("Install() did not register every hook")
	}
}
