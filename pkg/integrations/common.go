package integrations

import (
	"net/http"
	"time"

	"github.com/usawrapco/wrapdoc/pkg/cache"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when the upstream answers 404.
	ErrNotFound = cache.ErrNotFound

	// ErrNetwork is returned for transport failures and non-2xx responses.
	ErrNetwork = cache.ErrNetwork
)

// NewHTTPClient creates an HTTP client with the given timeout. A zero
// timeout uses the 10 second default.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = httpTimeout
	}
	return &http.Client{Timeout: timeout}
}
