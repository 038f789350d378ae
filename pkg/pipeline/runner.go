package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/usawrapco/wrapdoc/pkg/buildinfo"
	"github.com/usawrapco/wrapdoc/pkg/cache"
	"github.com/usawrapco/wrapdoc/pkg/config"
	"github.com/usawrapco/wrapdoc/pkg/document"
	"github.com/usawrapco/wrapdoc/pkg/finance"
	"github.com/usawrapco/wrapdoc/pkg/fonts"
	"github.com/usawrapco/wrapdoc/pkg/integrations/reviews"
	"github.com/usawrapco/wrapdoc/pkg/job"
	"github.com/usawrapco/wrapdoc/pkg/observability"
	"github.com/usawrapco/wrapdoc/pkg/render/sink"
	"github.com/usawrapco/wrapdoc/pkg/storage"
)

// Runner executes the pipeline with a shared environment and render cache.
//
// The Runner holds only read-only inputs (profile, fonts, artwork) and the
// cache. Multiple goroutines can use the same Runner with different
// options. Create it with [NewRunner].
type Runner struct {
	Env      document.Env
	Fonts    *fonts.Set // nil renders with core fonts
	Cache    cache.Cache
	Logger   *log.Logger
	Compress bool

	// S3 holds the region and endpoint used for s3:// outputs.
	S3 config.S3Config

	memo *cache.Memo[rendered]
}

// rendered is the cached outcome of assemble and encode.
type rendered struct {
	RenderID   uuid.UUID           `json:"render_id"`
	Pages      int                 `json:"pages"`
	Data       []byte              `json:"data"`
	Financials *finance.Financials `json:"financials"`
}

// NewRunner creates a runner. A nil cache disables render caching and a
// nil logger uses the default logger.
func NewRunner(env document.Env, fontSet *fonts.Set, c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	if env.Logger == nil {
		env.Logger = logger
	}
	return &Runner{
		Env:      env,
		Fonts:    fontSet,
		Cache:    c,
		Logger:   logger,
		Compress: true,
		memo:     cache.NewMemo[rendered](c, TTLRender, logger),
	}
}

// SetRenderTTL changes how long encoded documents stay cached. Zero keeps
// the default.
func (r *Runner) SetRenderTTL(ttl time.Duration) {
	if ttl <= 0 {
		ttl = TTLRender
	}
	r.memo = cache.NewMemo[rendered](r.Cache, ttl, r.Logger)
}

// Execute renders rec and, when opts.Output is set, stores the result.
func (r *Runner) Execute(ctx context.Context, rec *job.Record, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	res, err := r.Render(ctx, rec, opts)
	if err != nil {
		return nil, err
	}
	if opts.Output == "" {
		return res, nil
	}

	start := time.Now()
	loc, err := r.Store(ctx, opts.Output, res.Data, opts.ContentType())
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	res.Location = loc
	res.Stats.StoreTime = time.Since(start)

	opts.Logger.Info("stored document", "ref", res.Ref, "location", loc, "duration", res.Stats.StoreTime)
	return res, nil
}

// Render assembles and encodes rec without storing it. Encoded documents
// are cached under the record, profile, policy, review count and print
// minute, so identical requests reuse the bytes.
func (r *Runner) Render(ctx context.Context, rec *job.Record, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("invalid options: no job record")
	}

	env := r.Env
	env.Logger = opts.Logger
	env.Printed = opts.Printed
	if env.Printed.IsZero() {
		env.Printed = time.Now()
	}
	if l := reviews.FromContext(ctx); l != nil {
		env.Reviews = l.Count(ctx)
	}

	key := r.renderKey(rec, opts, env)
	if opts.Refresh {
		_ = r.memo.Forget(ctx, key)
	}

	start := time.Now()
	hit := true
	out, err := r.memo.Get(ctx, key, func(ctx context.Context) (rendered, error) {
		hit = false
		return r.render(ctx, rec, opts, env)
	})
	if err != nil {
		return nil, err
	}

	res := &Result{
		RenderID:   out.RenderID,
		Type:       opts.Type,
		Ref:        rec.Ref,
		Format:     opts.Format,
		Pages:      out.Pages,
		Data:       out.Data,
		Financials: out.Financials,
		CacheHit:   hit,
		Stats: Stats{
			AssembleTime: time.Since(start),
			Size:         len(out.Data),
		},
	}
	opts.Logger.Info("rendered document",
		"type", res.Type,
		"ref", res.Ref,
		"pages", res.Pages,
		"size", humanize.Bytes(uint64(res.Stats.Size)),
		"cached", hit,
		"render_id", res.RenderID,
		"duration", res.Stats.AssembleTime)
	return res, nil
}

func (r *Runner) render(ctx context.Context, rec *job.Record, opts Options, env document.Env) (rendered, error) {
	id := uuid.New()
	t := r.newTarget(opts.Format, sink.Metadata{
		Title:    fmt.Sprintf("%s %s", opts.Type.Title(), rec.Ref),
		Subject:  rec.ClientName,
		Author:   env.Profile.Name,
		Keywords: "render:" + id.String(),
		Created:  env.Printed,
	})

	doc, err := r.assemble(ctx, t, opts.Type, rec, env)
	if err != nil {
		return rendered{}, err
	}
	data, err := r.encode(ctx, t, opts.Format)
	if err != nil {
		return rendered{}, err
	}
	return rendered{RenderID: id, Pages: doc.Pages, Data: data, Financials: doc.Financials}, nil
}

func (r *Runner) renderKey(rec *job.Record, opts Options, env document.Env) string {
	recData, _ := json.Marshal(rec)
	profile, _ := json.Marshal(env.Profile)
	return cache.Key(cache.NSRender,
		cache.Hash(recData),
		cache.Hash(profile),
		env.Finance,
		string(opts.Type),
		opts.Format,
		r.Compress,
		env.Reviews,
		env.Printed.Truncate(time.Minute).Unix(),
		buildinfo.Version,
	)
}

// Store writes data to dest, a local path or s3:// URL, and returns where
// it landed.
func (r *Runner) Store(ctx context.Context, dest string, data []byte, contentType string) (string, error) {
	backend := "file"
	if storage.IsS3(dest) {
		backend = "s3"
	}
	start := time.Now()
	loc, err := r.store(ctx, dest, data, contentType)
	observability.Pipeline().OnStoreComplete(ctx, backend, len(data), time.Since(start), err)
	return loc, err
}

func (r *Runner) store(ctx context.Context, dest string, data []byte, contentType string) (string, error) {
	s, key, err := storage.Open(ctx, dest, r.S3, r.Logger)
	if err != nil {
		return "", err
	}
	return s.Put(ctx, key, data, contentType)
}

// Financials computes the figures for rec against src without rendering.
// Against the subtotal every line must be priced.
func (r *Runner) Financials(rec *job.Record, src finance.RevenueSource) (*finance.Financials, error) {
	opts := []finance.Option{finance.WithRevenue(src)}
	if src == finance.RevenueSubtotal {
		opts = append(opts, finance.WithPricedLines())
	}
	return finance.Compute(rec, r.Env.Finance, opts...)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
