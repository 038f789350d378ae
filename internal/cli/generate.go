package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/usawrapco/wrapdoc/pkg/errors"
	"github.com/usawrapco/wrapdoc/pkg/job"
	"github.com/usawrapco/wrapdoc/pkg/pipeline"
)

// docAliases are the short command names of each document type.
var docAliases = map[job.DocType][]string{
	job.Estimate:   {"est"},
	job.Invoice:    {"inv"},
	job.SalesOrder: {"so"},
	job.WorkOrder:  {"wo"},
}

// generateOpts holds the flags shared by the generate commands.
type generateOpts struct {
	format  string
	sample  bool
	noCache bool
	refresh bool
}

// documentCommand creates the command group for one document type.
func (c *CLI) documentCommand(t job.DocType) *cobra.Command {
	cmd := &cobra.Command{
		Use:     string(t),
		Aliases: docAliases[t],
		Short:   fmt.Sprintf("Work with %s documents", t),
	}
	cmd.AddCommand(c.generateCommand(t))
	if t == job.SalesOrder {
		cmd.AddCommand(c.exportCommand())
	}
	return cmd
}

// generateCommand creates the "<type> generate" subcommand.
func (c *CLI) generateCommand(t job.DocType) *cobra.Command {
	opts := generateOpts{format: pipeline.DefaultFormat}

	cmd := &cobra.Command{
		Use:   "generate <job-record> [output]",
		Short: fmt.Sprintf("Render a job record as a %s", t.Title()),
		Long: fmt.Sprintf(`Render a job record as a %s.

The job record is a JSON file; pass - to read it from stdin. The output is a
local path or an s3://bucket/key URL and defaults to <ref>.<format> in the
working directory.

Use --sample to render the built-in sample record instead of a file.`, t.Title()),
		Example: fmt.Sprintf(`  wrapdoc %[1]s generate job.json
  wrapdoc %[1]s generate job.json out/%[1]s.pdf
  cat job.json | wrapdoc %[1]s generate - --format json
  wrapdoc %[1]s generate --sample`, t),
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, output := "", ""
			if opts.sample {
				if len(args) > 1 {
					return errors.New(errors.ErrCodeInvalidInput, "--sample takes at most an output path")
				}
				if len(args) == 1 {
					output = args[0]
				}
			} else {
				if len(args) == 0 {
					return errors.New(errors.ErrCodeInvalidInput, "no job record given (pass a path, - for stdin, or --sample)")
				}
				input = args[0]
				if len(args) == 2 {
					output = args[1]
				}
			}
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), t, input, output, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: pdf (default), json")
	cmd.Flags().BoolVar(&opts.sample, "sample", false, "render the built-in sample record")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if a cached copy exists")

	return cmd
}

// loadRecord reads the record from input, or the sample for t.
func (c *CLI) loadRecord(ctx context.Context, t job.DocType, input string, sample bool) (*job.Record, error) {
	if sample {
		return pipeline.LoadSample(ctx, t)
	}
	return pipeline.Load(ctx, input, c.stdin)
}

// runGenerate loads the record, renders it and writes the output.
func (c *CLI) runGenerate(ctx context.Context, t job.DocType, input, output string, opts generateOpts) error {
	logger := loggerFromContext(ctx)

	rec, err := c.loadRecord(ctx, t, input, opts.sample)
	if err != nil {
		return err
	}
	if guessed, ok := job.GuessDocType(rec.Ref); ok && guessed != t {
		printWarning("%s looks like a %s record; rendering it as a %s", rec.Ref, guessed, t)
	}
	if output == "" {
		if err := errors.ValidateRef(rec.Ref); err != nil {
			return fmt.Errorf("cannot name the output after ref: %w", err)
		}
		output = pipeline.DefaultOutput("", rec, opts.format)
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	ctx = c.withReviews(ctx, runner)

	prog := newProgress(logger)
	res, err := runner.Execute(ctx, rec, pipeline.Options{
		Type:    t,
		Format:  opts.format,
		Output:  output,
		Refresh: opts.refresh,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s %s", t.Title(), rec.Ref))

	printSuccess("%s %s", t.Title(), rec.Ref)
	printFile(res.Location)
	printDocStats(res.Pages, res.Stats.Size, res.CacheHit)
	return nil
}
