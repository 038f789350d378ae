// Package observability lets the rendering libraries report what they do
// without depending on a metrics backend.
//
// Libraries call the registered hooks; the process installs real ones at
// startup. Until then every hook is a no-op, so tests and the CLI pay
// nothing. [Metrics] is the Prometheus implementation used by "wrapdoc
// serve".
//
//	m := observability.NewMetrics()
//	m.Install()
//	defer observability.Reset()
//
// Emitting an event:
//
//	observability.Pipeline().OnAssembleStart(ctx, "invoice")
//	// ... lay out the document ...
//	observability.Pipeline().OnAssembleComplete(ctx, "invoice", pages, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the document pipeline.
type PipelineHooks interface {
	// OnLoadComplete is called after a job record is read and validated.
	OnLoadComplete(ctx context.Context, source string, duration time.Duration, err error)

	// OnAssembleStart and OnAssembleComplete bracket document layout.
	OnAssembleStart(ctx context.Context, docType string)
	OnAssembleComplete(ctx context.Context, docType string, pages int, duration time.Duration, err error)

	// OnEncodeComplete is called after the laid out document is encoded.
	OnEncodeComplete(ctx context.Context, format string, size int, duration time.Duration, err error)

	// OnStoreComplete is called after the encoded document is written.
	OnStoreComplete(ctx context.Context, backend string, size int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit is called when a cache lookup succeeds.
	OnCacheHit(ctx context.Context, namespace string)

	// OnCacheMiss is called when a cache lookup fails.
	OnCacheMiss(ctx context.Context, namespace string)

	// OnCacheSet is called when a value is stored in the cache.
	OnCacheSet(ctx context.Context, namespace string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from outbound calls to external services.
type HTTPHooks interface {
	// OnRequest is called before an HTTP request is made.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse is called after an HTTP response is received.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError is called when an HTTP request fails.
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadComplete(context.Context, string, time.Duration, error)          {}
func (NoopPipelineHooks) OnAssembleStart(context.Context, string)                              {}
func (NoopPipelineHooks) OnAssembleComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnEncodeComplete(context.Context, string, int, time.Duration, error)   {}
func (NoopPipelineHooks) OnStoreComplete(context.Context, string, int, time.Duration, error)    {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
