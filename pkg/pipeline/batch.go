package pipeline

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/usawrapco/wrapdoc/pkg/errors"
)

// BatchItem is one record to render in a batch.
type BatchItem struct {
	Path string // job record path
}

// BatchResult is the outcome of one batch item. Exactly one of Result and
// Err is set.
type BatchResult struct {
	Path   string
	Result *Result
	Err    error
}

// Batch renders every item of type opts.Type into dir, at most limit at a
// time (0 means one per CPU). A failing item does not stop the others;
// cancelling ctx does. Results keep the order of items.
func (r *Runner) Batch(ctx context.Context, items []BatchItem, dir string, opts Options, limit int) ([]BatchResult, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	results := make([]BatchResult, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, item := range items {
		results[i].Path = item.Path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return err
			}
			res, err := r.renderItem(ctx, item, dir, opts)
			if err != nil {
				results[i].Err = err
				opts.Logger.Warn("batch item failed", "path", item.Path, "error", err)
				return nil
			}
			results[i].Result = res
			return nil
		})
	}
	// Only cancellation reaches Wait.
	err := g.Wait()
	return results, err
}

func (r *Runner) renderItem(ctx context.Context, item BatchItem, dir string, opts Options) (*Result, error) {
	rec, err := Load(ctx, item.Path, nil)
	if err != nil {
		return nil, err
	}
	if err := errors.ValidateRef(rec.Ref); err != nil {
		return nil, err
	}
	opts.Output = DefaultOutput(dir, rec, opts.Format)
	return r.Execute(ctx, rec, opts)
}
