// Package imagegen requests photorealistic wrap mockups from an image
// generation service.
//
// A request pairs a prompt (see [BuildPrompt]) with a reference photo of
// the vehicle. The photo is downscaled and sent inline as a base64 data
// URI; the service answers with the URL of the generated image.
//
// The client makes a single attempt per request. Any retry policy belongs
// to the service. Failures come back as EXTERNAL_SERVICE_ERROR and [Status]
// turns them into a message fit to show the user. Successful results are
// cached by a hash of the model, prompt and photo.
package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/usawrapco/wrapdoc/pkg/cache"
	"github.com/usawrapco/wrapdoc/pkg/errors"
	"github.com/usawrapco/wrapdoc/pkg/integrations"
)

// maxReferenceSide bounds the longer side of the uploaded photo in pixels.
const maxReferenceSide = 1024

// resultTTL is how long a generated image URL is reused.
const resultTTL = 7 * 24 * time.Hour

// Config locates the generation service.
type Config struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// Request is one mockup generation.
type Request struct {
	Prompt string
	// Image is the reference photo in any format [imaging.Decode] reads.
	Image []byte
}

// Result is a generated mockup.
type Result struct {
	URL   string `json:"url"`
	ID    string `json:"id,omitempty"`
	Model string `json:"model,omitempty"`
}

// Client talks to the generation service.
type Client struct {
	http     *integrations.Client
	memo     *cache.Memo[Result]
	endpoint string
	model    string
	logger   *log.Logger
}

// NewClient creates a client for cfg. Results are cached in c, which may
// be nil.
func NewClient(cfg Config, c cache.Cache, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "imagegen.endpoint is not set")
	}
	if err := errors.ValidateURL(cfg.Endpoint); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "imagegen.endpoint")
	}
	if logger == nil {
		logger = log.Default()
	}
	var headers map[string]string
	if cfg.APIKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + cfg.APIKey}
	}
	return &Client{
		http:     integrations.NewClient(headers).WithTimeout(cfg.Timeout),
		memo:     cache.NewMemo[Result](c, resultTTL, logger),
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		logger:   logger,
	}, nil
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  string          `json:"error"`
}

// Generate requests a mockup for req.
func (c *Client) Generate(ctx context.Context, req Request) (Result, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return Result{}, errors.New(errors.ErrCodeInvalidInput, "prompt is empty")
	}
	if len(req.Image) == 0 {
		return Result{}, errors.New(errors.ErrCodeInvalidInput, "reference image is empty")
	}

	key := cache.Key(cache.NSImageGen, c.model, prompt, cache.Hash(req.Image))
	return c.memo.Get(ctx, key, func(ctx context.Context) (Result, error) {
		ref, err := EncodeReference(req.Image)
		if err != nil {
			return Result{}, err
		}
		return c.generate(ctx, prompt, ref)
	})
}

func (c *Client) generate(ctx context.Context, prompt, ref string) (Result, error) {
	body := map[string]any{
		"input": map[string]any{
			"prompt":         prompt,
			"image":          ref,
			"output_format":  "jpg",
			"output_quality": 90,
		},
	}
	if c.model != "" {
		body["model"] = c.model
	}

	start := time.Now()
	var p prediction
	if err := c.http.PostJSON(ctx, c.endpoint, nil, body, &p); err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeExternalService, err, "image generation request failed")
	}
	c.logger.Debug("image generated", "id", p.ID, "status", p.Status, "elapsed", time.Since(start).Round(time.Millisecond))

	if p.Status == "failed" || p.Error != "" {
		msg := p.Error
		if msg == "" {
			msg = "generation failed"
		}
		return Result{}, errors.New(errors.ErrCodeExternalService, "image generation failed: %s", msg)
	}
	url := outputURL(p.Output)
	if url == "" {
		return Result{}, errors.New(errors.ErrCodeExternalService, "image generation returned no image (status %q)", p.Status)
	}
	return Result{URL: url, ID: p.ID, Model: c.model}, nil
}

// outputURL accepts the output as either a single URL or a list of URLs.
func outputURL(raw json.RawMessage) string {
	var one string
	if json.Unmarshal(raw, &one) == nil {
		return one
	}
	var many []string
	if json.Unmarshal(raw, &many) == nil && len(many) > 0 {
		return many[0]
	}
	return ""
}

// EncodeReference decodes a photo, fits it within 1024 pixels and returns
// it as a base64 JPEG data URI.
func EncodeReference(data []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode reference image")
	}
	b := img.Bounds()
	if b.Dx() > maxReferenceSide || b.Dy() > maxReferenceSide {
		img = imaging.Fit(img, maxReferenceSide, maxReferenceSide, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode reference image")
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Status describes the outcome of a generation for display.
func Status(res Result, err error) string {
	switch {
	case err == nil:
		return "Mockup ready: " + res.URL
	case errors.Is(err, errors.ErrCodeInvalidInput), errors.Is(err, errors.ErrCodeInvalidFormat):
		return "Mockup not generated: " + errors.UserMessage(err)
	case errors.Is(err, errors.ErrCodeExternalService):
		return "Image service unavailable: " + errors.UserMessage(err)
	default:
		return "Mockup not generated: " + err.Error()
	}
}
