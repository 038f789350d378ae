package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/usawrapco/wrapdoc/pkg/cache"
	"github.com/usawrapco/wrapdoc/pkg/observability"
)

// Client is the HTTP plumbing shared by the external collaborators. It
// sends default headers, reports every call to the observability hooks and
// maps status codes onto [ErrNotFound] and [ErrNetwork].
//
// Client does not cache; collaborators wrap their calls in a [cache.Memo].
type Client struct {
	http    *http.Client
	headers map[string]string
}

// NewClient creates a Client that sends headers with every request. Pass
// nil when none are needed.
func NewClient(headers map[string]string) *Client {
	return &Client{
		http:    NewHTTPClient(httpTimeout),
		headers: headers,
	}
}

// WithTimeout replaces the request timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.http = NewHTTPClient(d)
	return c
}

// Get performs a GET and decodes the JSON response into v. Transient
// failures come back wrapped with [cache.Retryable] so callers can hand the
// call to [cache.RetryWithBackoff].
func (c *Client) Get(ctx context.Context, url string, v any) error {
	body, err := c.do(ctx, http.MethodGet, url, nil, nil)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// PostJSON sends in as a JSON body and decodes the JSON response into out.
// It makes exactly one attempt.
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	h := map[string]string{"Content-Type": "application/json"}
	for k, v := range headers {
		h[k] = v
	}
	body, err := c.do(ctx, http.MethodPost, url, h, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, url string, headers map[string]string, body io.Reader) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, method, host, path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		return nil, cache.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, time.Since(start))
	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

// checkStatus maps a response status. 429 and 5xx are worth retrying.
func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests, code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
