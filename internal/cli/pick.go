package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/usawrapco/wrapdoc/pkg/errors"
	"github.com/usawrapco/wrapdoc/pkg/job"
	"github.com/usawrapco/wrapdoc/pkg/pipeline"
)

// pickCommand creates the interactive record picker.
func (c *CLI) pickCommand() *cobra.Command {
	var (
		typeName string
		outDir   string
		opts     = generateOpts{format: pipeline.DefaultFormat}
	)

	cmd := &cobra.Command{
		Use:   "pick [dir]",
		Short: "Choose a job record interactively and render it",
		Long: `Scan a directory for job records (*.json), choose one from a list and
render it. The document type is guessed from the record's ref unless --type
is given.`,
		Example: `  wrapdoc pick
  wrapdoc pick jobs/ --out pdfs/
  wrapdoc pick jobs/ --type invoice`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			var forced job.DocType
			if typeName != "" {
				t, err := job.ParseDocType(typeName)
				if err != nil {
					return err
				}
				forced = t
			}
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}

			entries, err := scanJobs(dir)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("No job records in %s", dir)
				return nil
			}

			final, err := tea.NewProgram(NewJobListModel(entries)).Run()
			if err != nil {
				return fmt.Errorf("picker: %w", err)
			}
			sel := final.(JobListModel).Selected
			if sel == nil {
				return nil
			}

			t := forced
			if t == "" {
				if sel.Type == "" {
					return errors.New(errors.ErrCodeInvalidDocType,
						"cannot tell the document type of %s; pass --type", sel.Record.Ref)
				}
				t = sel.Type
			}
			if err := errors.ValidateRef(sel.Record.Ref); err != nil {
				return err
			}
			output := pipeline.DefaultOutput(outDir, sel.Record, opts.format)
			return c.runGenerate(cmd.Context(), t, sel.Path, output, opts)
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "document type (default: guessed from the ref)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory or s3:// prefix")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: pdf (default), json")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// scanJobs loads every *.json file in dir, newest first. Files that fail to
// load are kept so the picker can show why.
func scanJobs(dir string) ([]JobEntry, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "scan %s", dir)
	}

	entries := make([]JobEntry, 0, len(paths))
	for _, p := range paths {
		e := JobEntry{Path: p}
		if info, err := os.Stat(p); err == nil {
			e.Modified = info.ModTime()
		}
		rec, err := job.LoadFile(p)
		if err != nil {
			e.Err = err
		} else {
			e.Record = rec
			e.Type, _ = job.GuessDocType(rec.Ref)
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Modified.After(entries[j].Modified)
	})
	return entries, nil
}
