package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/usawrapco/wrapdoc/pkg/document"
	"github.com/usawrapco/wrapdoc/pkg/job"
	"github.com/usawrapco/wrapdoc/pkg/observability"
)

func (r *Runner) assemble(ctx context.Context, t target, typ job.DocType, rec *job.Record, env document.Env) (*document.Result, error) {
	hooks := observability.Pipeline()
	hooks.OnAssembleStart(ctx, string(typ))

	start := time.Now()
	res, err := document.Assemble(t, typ, rec, env)
	pages := 0
	if res != nil {
		pages = res.Pages
	}
	hooks.OnAssembleComplete(ctx, string(typ), pages, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	return res, nil
}

func (r *Runner) encode(ctx context.Context, t target, format string) ([]byte, error) {
	start := time.Now()
	data, err := t.encode()
	observability.Pipeline().OnEncodeComplete(ctx, format, len(data), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return data, nil
}
