// Package cache provides the byte caches behind rendering collaborators.
//
// Results that are expensive to fetch or generate (review counts, generated
// mockup images, rendered documents) are cached under hashed keys so repeat
// requests are served without calling out again. Three backends implement
// [Cache]:
//
//   - [NullCache] stores nothing; used with --no-cache and in tests
//   - [FileCache] keeps entries as files for the CLI
//   - [RedisCache] shares entries between server instances
//
// [Memo] layers typed, JSON-encoded get-or-compute on top of any backend and
// collapses concurrent computations of the same key.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with an optional TTL.
// Implementations are safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Key namespaces.
const (
	NSReviews  = "reviews"
	NSImageGen = "imagegen"
	NSRender   = "render"
)
