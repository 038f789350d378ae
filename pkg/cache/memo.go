package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/usawrapco/wrapdoc/pkg/observability"
)

// Memo caches the JSON-encoded results of a computation.
//
// Concurrent calls for the same key share one computation. Cache read and
// write failures are logged and otherwise ignored: the computed value is
// still returned.
type Memo[T any] struct {
	cache  Cache
	ttl    time.Duration
	logger *log.Logger
	group  singleflight.Group
}

// NewMemo creates a memo over c. A nil cache disables caching but still
// collapses concurrent calls.
func NewMemo[T any](c Cache, ttl time.Duration, logger *log.Logger) *Memo[T] {
	if c == nil {
		c = NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Memo[T]{cache: c, ttl: ttl, logger: logger}
}

// Get returns the cached value for key, or calls compute and caches its
// result. Errors from compute are returned and never cached.
//
// The shared computation runs detached from the cancellation of whichever
// caller started it. A caller whose ctx ends stops waiting and gets ctx's
// error; the other callers still get the result.
func (m *Memo[T]) Get(ctx context.Context, key string, compute func(context.Context) (T, error)) (T, error) {
	if v, ok := m.lookup(ctx, key); ok {
		return v, nil
	}
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	detached := context.WithoutCancel(ctx)
	ch := m.group.DoChan(key, func() (any, error) {
		v, err := compute(detached)
		if err != nil {
			return v, err
		}
		m.store(detached, key, v)
		return v, nil
	})
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		v, _ := res.Val.(T)
		return v, res.Err
	}
}

// Forget drops key from the cache.
func (m *Memo[T]) Forget(ctx context.Context, key string) error {
	m.group.Forget(key)
	return m.cache.Delete(ctx, key)
}

func (m *Memo[T]) lookup(ctx context.Context, key string) (T, bool) {
	var v T
	data, hit, err := m.cache.Get(ctx, key)
	if err != nil {
		m.logger.Warn("cache read failed", "key", key, "error", err)
		return v, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, namespaceOf(key))
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		m.logger.Debug("dropping undecodable cache entry", "key", key, "error", err)
		_ = m.cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, namespaceOf(key))
		return v, false
	}
	observability.Cache().OnCacheHit(ctx, namespaceOf(key))
	return v, true
}

func (m *Memo[T]) store(ctx context.Context, key string, v T) {
	data, err := json.Marshal(v)
	if err != nil {
		m.logger.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := m.cache.Set(ctx, key, data, m.ttl); err != nil {
		m.logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, namespaceOf(key), len(data))
}

// namespaceOf returns the part of a [Key] before the first colon.
func namespaceOf(key string) string {
	ns, _, _ := strings.Cut(key, ":")
	return ns
}
