// Package reviews looks up the shop's current five-star review count.
//
// The count is printed in the brand header of customer documents. It
// changes slowly, so a [Lookup] reuses the last fetched value for a
// window and falls back to the shop profile's count when the service is
// unset or unreachable. The lookup travels with the request context:
//
//	ctx = reviews.NewContext(ctx, lookup)
//	...
//	env.Reviews = reviews.FromContext(ctx).Count(ctx)
package reviews

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/usawrapco/wrapdoc/pkg/cache"
	"github.com/usawrapco/wrapdoc/pkg/integrations"
)

// Snapshot is a fetched count and when it was fetched.
type Snapshot struct {
	Count     int       `json:"count"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Fresh reports whether s was fetched less than window before now.
func (s Snapshot) Fresh(now time.Time, window time.Duration) bool {
	return !s.FetchedAt.IsZero() && now.Sub(s.FetchedAt) < window
}

// response accepts either {"count": n} or a place-details payload.
type response struct {
	Count  *int `json:"count"`
	Result struct {
		UserRatingsTotal int `json:"user_ratings_total"`
	} `json:"result"`
}

func (r response) value() int {
	if r.Count != nil {
		return *r.Count
	}
	return r.Result.UserRatingsTotal
}

// Lookup fetches the review count at most once per window.
type Lookup struct {
	http     *integrations.Client
	memo     *cache.Memo[Snapshot]
	endpoint string
	window   time.Duration
	fallback int
	logger   *log.Logger
	now      func() time.Time

	mu   sync.Mutex
	last Snapshot
}

// NewLookup creates a lookup against endpoint. An empty endpoint always
// yields fallback. Fetched counts are shared through c, which may be nil.
func NewLookup(endpoint string, window time.Duration, fallback int, c cache.Cache, logger *log.Logger) *Lookup {
	if logger == nil {
		logger = log.Default()
	}
	return &Lookup{
		http:     integrations.NewClient(map[string]string{"Accept": "application/json"}),
		memo:     cache.NewMemo[Snapshot](c, window, logger),
		endpoint: endpoint,
		window:   window,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

// Count returns the review count. A nil Lookup returns 0, which document
// assembly reads as "use the profile count".
func (l *Lookup) Count(ctx context.Context) int {
	if l == nil {
		return 0
	}
	return l.Snapshot(ctx).Count
}

// Snapshot returns the current count, fetching it when the last one is
// older than the window. Fetch failures keep the last known count, or the
// fallback if there is none.
func (l *Lookup) Snapshot(ctx context.Context) Snapshot {
	if l.endpoint == "" {
		return Snapshot{Count: l.fallback}
	}

	now := l.now()
	l.mu.Lock()
	last := l.last
	l.mu.Unlock()
	if last.Fresh(now, l.window) {
		return last
	}

	snap, err := l.memo.Get(ctx, cache.Key(cache.NSReviews, l.endpoint), l.fetch)
	if err == nil && !snap.Fresh(now, l.window) {
		// shared entry outlived the window
		_ = l.memo.Forget(ctx, cache.Key(cache.NSReviews, l.endpoint))
		snap, err = l.memo.Get(ctx, cache.Key(cache.NSReviews, l.endpoint), l.fetch)
	}
	if err != nil {
		l.logger.Warn("review count lookup failed", "error", err)
		if last.FetchedAt.IsZero() {
			return Snapshot{Count: l.fallback}
		}
		return last
	}

	l.mu.Lock()
	l.last = snap
	l.mu.Unlock()
	return snap
}

func (l *Lookup) fetch(ctx context.Context) (Snapshot, error) {
	var resp response
	err := cache.RetryWithBackoff(ctx, func() error {
		return l.http.Get(ctx, l.endpoint, &resp)
	})
	if err != nil {
		return Snapshot{}, err
	}
	l.logger.Debug("review count fetched", "count", resp.value())
	return Snapshot{Count: resp.value(), FetchedAt: l.now()}, nil
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying l.
func NewContext(ctx context.Context, l *Lookup) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the lookup carried by ctx, or nil.
func FromContext(ctx context.Context) *Lookup {
	l, _ := ctx.Value(contextKey{}).(*Lookup)
	return l
}
