package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/usawrapco/wrapdoc/pkg/errors"
	"github.com/usawrapco/wrapdoc/pkg/job"
	"github.com/usawrapco/wrapdoc/pkg/pipeline"
)

// batchCommand creates the batch command for rendering many records.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		typeName string
		outDir   string
		jobs     int
	)
	opts := generateOpts{format: pipeline.DefaultFormat}

	cmd := &cobra.Command{
		Use:   "batch --type TYPE --out DIR <job-record>...",
		Short: "Render many job records concurrently",
		Long: `Render many job records as the same document type.

Each record is written to DIR/<ref>.<format>; DIR may be an s3://bucket/prefix
URL. Records render concurrently, one per CPU unless --jobs says otherwise.
A failing record does not stop the others.`,
		Example: `  wrapdoc batch --type invoice --out out/ jobs/*.json
  wrapdoc batch --type workorder --out s3://docs/2026/ --jobs 4 jobs/*.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := job.ParseDocType(typeName)
			if err != nil {
				return err
			}
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			return c.runBatch(cmd.Context(), t, args, outDir, jobs, opts)
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "document type: estimate, invoice, salesorder, workorder")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory or s3:// prefix")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: pdf (default), json")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "concurrent renders (default: number of CPUs)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func (c *CLI) runBatch(ctx context.Context, t job.DocType, paths []string, outDir string, jobs int, opts generateOpts) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	ctx = c.withReviews(ctx, runner)

	items := make([]pipeline.BatchItem, len(paths))
	for i, p := range paths {
		items[i] = pipeline.BatchItem{Path: p}
	}

	prog := newProgress(logger)
	results, err := runner.Batch(ctx, items, outDir, pipeline.Options{
		Type:   t,
		Format: opts.format,
		Logger: logger,
	}, jobs)
	if err != nil && results == nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			printError("%s: %s", res.Path, errors.UserMessage(res.Err))
			continue
		}
		printSuccess("%s %s", t.Title(), res.Result.Ref)
		printFile(res.Result.Location)
	}
	prog.done(fmt.Sprintf("Rendered %d of %d records", len(results)-failed, len(results)))

	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d records failed", failed, len(results))
	}
	return nil
}
