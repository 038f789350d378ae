package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/usawrapco/wrapdoc/pkg/cache"
	"github.com/usawrapco/wrapdoc/pkg/observability"
)

type reviewCount struct {
	Count int `json:"count"`
}

func TestClientGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q, want application/json", got)
		}
		json.NewEncoder(w).Encode(reviewCount{Count: 112})
	}))
	defer server.Close()

	client := NewClient(map[string]string{"Accept": "application/json"})

	var got reviewCount
	if err := client.Get(context.Background(), server.URL, &got); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Count != 112 {
		t.Errorf("Get() count = %d, want 112", got.Count)
	}
}

func TestClientGetMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer server.Close()

	var got reviewCount
	err := NewClient(nil).Get(context.Background(), server.URL, &got)
	if err == nil {
		t.Fatal("Get() error = nil, want decode error")
	}
	if cache.IsRetryable(err) {
		t.Error("decode error should not be retryable")
	}
}

func TestClientStatusErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		want      error
		retryable bool
	}{
		{"not found", http.StatusNotFound, ErrNotFound, false},
		{"unauthorized", http.StatusUnauthorized, ErrNetwork, false},
		{"rate limited", http.StatusTooManyRequests, ErrNetwork, true},
		{"server error", http.StatusBadGateway, ErrNetwork, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			var got reviewCount
			err := NewClient(nil).Get(context.Background(), server.URL, &got)
			if !errors.Is(err, tt.want) {
				t.Errorf("Get() error = %v, want %v", err, tt.want)
			}
			if cache.IsRetryable(err) != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", cache.IsRetryable(err), tt.retryable)
			}
		})
	}
}

func TestClientTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	var got reviewCount
	err := NewClient(nil).Get(context.Background(), url, &got)
	if !errors.Is(err, ErrNetwork) || !cache.IsRetryable(err) {
		t.Errorf("Get() on a closed server error = %v, want retryable ErrNetwork", err)
	}
}

func TestClientPostJSON(t *testing.T) {
	type prediction struct {
		Prompt string `json:"prompt"`
		URL    string `json:"url,omitempty"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer k" {
			t.Errorf("Authorization = %q, want Bearer k", auth)
		}
		var in prediction
		json.NewDecoder(r.Body).Decode(&in)
		json.NewEncoder(w).Encode(prediction{Prompt: in.Prompt, URL: "https://img.example/out.png"})
	}))
	defer server.Close()

	client := NewClient(map[string]string{"Authorization": "Bearer k"})
	var out prediction
	if err := client.PostJSON(context.Background(), server.URL, nil, prediction{Prompt: "matte black"}, &out); err != nil {
		t.Fatalf("PostJSON() error = %v", err)
	}
	if out.Prompt != "matte black" || out.URL == "" {
		t.Errorf("PostJSON() = %+v", out)
	}
}

func TestClientPostJSONSingleAttempt(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	var out struct{}
	if err := NewClient(nil).PostJSON(context.Background(), server.URL, nil, struct{}{}, &out); err == nil {
		t.Fatal("PostJSON() error = nil, want error")
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("PostJSON() made %d requests, want 1", n)
	}
}

func TestClientTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	var got reviewCount
	err := NewClient(nil).WithTimeout(20*time.Millisecond).Get(context.Background(), server.URL, &got)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Get() past the timeout error = %v, want ErrNetwork", err)
	}
}

// recordingHooks counts HTTP hook calls.
type recordingHooks struct {
	observability.NoopHTTPHooks
	requests, responses, errs atomic.Int32
	lastStatus                atomic.Int32
}

func (h *recordingHooks) OnRequest(context.Context, string, string, string) { h.requests.Add(1) }
func (h *recordingHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.responses.Add(1)
	h.lastStatus.Store(int32(status))
}
func (h *recordingHooks) OnError(context.Context, string, string, string, error) { h.errs.Add(1) }

func TestClientHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	var got reviewCount
	_ = NewClient(nil).Get(context.Background(), server.URL, &got)

	if hooks.requests.Load() != 1 || hooks.responses.Load() != 1 || hooks.errs.Load() != 0 {
		t.Errorf("hooks = %d requests, %d responses, %d errors, want 1, 1, 0",
			hooks.requests.Load(), hooks.responses.Load(), hooks.errs.Load())
	}
	if s := hooks.lastStatus.Load(); s != http.StatusTeapot {
		t.Errorf("OnResponse status = %d, want 418", s)
	}
}

func TestCheckStatus(t *testing.T) {
	for _, code := range []int{200, 201, 204} {
		if err := checkStatus(code); err != nil {
			t.Errorf("checkStatus(%d) = %v, want nil", code, err)
		}
	}
}
