package cli

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/usawrapco/wrapdoc/pkg/errors"
	"github.com/usawrapco/wrapdoc/pkg/integrations/imagegen"
)

func TestSpinnerFinishStatus(t *testing.T) {
	tests := []struct {
		name string
		res  imagegen.Result
		err  error
		want string
	}{
		{"ready", imagegen.Result{URL: "https://img.example/1.jpg"}, nil, "Mockup ready: https://img.example/1.jpg"},
		{"service down", imagegen.Result{}, errors.New(errors.ErrCodeExternalService, "image generation failed: queue full"), "Image service unavailable: image generation failed: queue full"},
		{"bad photo", imagegen.Result{}, errors.New(errors.ErrCodeInvalidFormat, "decode reference image"), "Mockup not generated: decode reference image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			s := startSpinner(context.Background(), &buf, "Generating mockup...")
			if got := s.finish(tt.res, tt.err); got != tt.want {
				t.Errorf("finish() = %q, want %q", got, tt.want)
			}
			// A second finish must not block or panic.
			s.finish(tt.res, tt.err)
		})
	}
}

func TestSpinnerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	s := startSpinner(ctx, &buf, "Generating mockup...")
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner still running after cancel")
	}
	if out := buf.String(); !strings.Contains(out, "Generating mockup...") || !strings.HasSuffix(out, "\r") {
		t.Errorf("output = %q, want frames followed by a cleared line", out)
	}
}

func TestMockupServiceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	env := newTestEnv(t)
	f, err := os.OpenFile(env.config, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = f.WriteString("\n[imagegen]\nendpoint = " + strconvQuote(srv.URL) + "\n")
	f.Close()

	photo := filepath.Join(env.dir, "van.png")
	var img bytes.Buffer
	if err := png.Encode(&img, image.NewNRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(photo, img.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := env.run(t, nil, "mockup", photo, "--prompt", "matte black"); err != nil {
		t.Errorf("mockup with unavailable service error = %v, want nil", err)
	}
	if err := env.run(t, nil, "mockup", filepath.Join(env.dir, "missing.png")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("mockup missing photo error = %v, want FILE_NOT_FOUND", err)
	}
}
