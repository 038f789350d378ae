package reviews

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/usawrapco/wrapdoc/pkg/cache"
)

func countServer(t *testing.T, body any, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(s.Close)
	return s
}

func newTestLookup(endpoint string, window time.Duration, clock *time.Time) *Lookup {
	l := NewLookup(endpoint, window, 110, nil, log.New(io.Discard))
	l.now = func() time.Time { return *clock }
	return l
}

func TestLookupWindow(t *testing.T) {
	var calls atomic.Int32
	s := countServer(t, map[string]int{"count": 128}, &calls)
	clock := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	l := newTestLookup(s.URL, time.Hour, &clock)
	ctx := context.Background()

	if got := l.Count(ctx); got != 128 {
		t.Errorf("Count() = %d, want 128", got)
	}
	clock = clock.Add(59 * time.Minute)
	if got := l.Count(ctx); got != 128 {
		t.Errorf("Count() = %d, want 128", got)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("calls inside window = %d, want 1", n)
	}

	clock = clock.Add(2 * time.Minute)
	l.Count(ctx)
	if n := calls.Load(); n != 2 {
		t.Errorf("calls after window = %d, want 2", n)
	}
	if snap := l.Snapshot(ctx); !snap.FetchedAt.Equal(clock) {
		t.Errorf("FetchedAt = %v, want %v", snap.FetchedAt, clock)
	}
}

func TestLookupSharedCache(t *testing.T) {
	var calls atomic.Int32
	s := countServer(t, map[string]int{"count": 7}, &calls)
	c, _ := cache.NewFileCache(t.TempDir())
	clock := time.Now()

	for i := 0; i < 2; i++ {
		l := NewLookup(s.URL, time.Hour, 0, c, log.New(io.Discard))
		l.now = func() time.Time { return clock }
		if got := l.Count(context.Background()); got != 7 {
			t.Errorf("Count() = %d, want 7", got)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("calls = %d, want 1 (second lookup reads the shared cache)", n)
	}
}

func TestLookupPlaceDetails(t *testing.T) {
	var calls atomic.Int32
	s := countServer(t, map[string]any{"result": map[string]int{"user_ratings_total": 96}}, &calls)
	clock := time.Now()
	if got := newTestLookup(s.URL, time.Hour, &clock).Count(context.Background()); got != 96 {
		t.Errorf("Count() = %d, want 96", got)
	}
}

func TestLookupFallback(t *testing.T) {
	clock := time.Now()
	ctx := context.Background()

	t.Run("no endpoint", func(t *testing.T) {
		if got := newTestLookup("", time.Hour, &clock).Count(ctx); got != 110 {
			t.Errorf("Count() = %d, want 110", got)
		}
	})

	t.Run("not found", func(t *testing.T) {
		s := httptest.NewServer(http.NotFoundHandler())
		defer s.Close()
		if got := newTestLookup(s.URL, time.Hour, &clock).Count(ctx); got != 110 {
			t.Errorf("Count() = %d, want 110", got)
		}
	})

	t.Run("keeps last known", func(t *testing.T) {
		var fail atomic.Bool
		s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if fail.Load() {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			json.NewEncoder(w).Encode(map[string]int{"count": 140})
		}))
		defer s.Close()

		local := clock
		l := newTestLookup(s.URL, time.Minute, &local)
		if got := l.Count(ctx); got != 140 {
			t.Fatalf("Count() = %d, want 140", got)
		}
		fail.Store(true)
		local = local.Add(time.Hour)
		if got := l.Count(ctx); got != 140 {
			t.Errorf("Count() after failure = %d, want 140", got)
		}
	})
}

func TestContext(t *testing.T) {
	ctx := context.Background()
	if l := FromContext(ctx); l != nil {
		t.Errorf("FromContext(empty) = %v, want nil", l)
	}
	if got := FromContext(ctx).Count(ctx); got != 0 {
		t.Errorf("nil Lookup Count() = %d, want 0", got)
	}

	clock := time.Now()
	l := newTestLookup("", time.Hour, &clock)
	if got := FromContext(NewContext(ctx, l)); got != l {
		t.Error("FromContext() did not return the stored lookup")
	}
}

func TestSnapshotFresh(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		snap Snapshot
		want bool
	}{
		{"never fetched", Snapshot{Count: 5}, false},
		{"inside", Snapshot{FetchedAt: now.Add(-time.Minute)}, true},
		{"at edge", Snapshot{FetchedAt: now.Add(-time.Hour)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.snap.Fresh(now, time.Hour); got != tt.want {
				t.Errorf("Fresh() = %v, want %v", got, tt.want)
			}
		})
	}
}
