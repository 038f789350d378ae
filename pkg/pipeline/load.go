package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/usawrapco/wrapdoc/pkg/errors"
	"github.com/usawrapco/wrapdoc/pkg/job"
	"github.com/usawrapco/wrapdoc/pkg/observability"
)

// Stdin is the path that reads the job record from standard input.
const Stdin = "-"

// Load reads and validates the job record at path. The path [Stdin] reads
// from stdin instead.
func Load(ctx context.Context, path string, stdin io.Reader) (*job.Record, error) {
	start := time.Now()
	rec, err := load(path, stdin)
	observability.Pipeline().OnLoadComplete(ctx, path, time.Since(start), err)
	return rec, err
}

func load(path string, stdin io.Reader) (*job.Record, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no job record given (pass a path, - for stdin, or --sample)")
	}
	if path != Stdin {
		return job.LoadFile(path)
	}
	if stdin == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no stdin to read the job record from")
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read job record from stdin")
	}
	return job.Parse(data)
}

// LoadSample returns the built-in sample record for t. Samples are only
// rendered when asked for explicitly.
func LoadSample(ctx context.Context, t job.DocType) (*job.Record, error) {
	start := time.Now()
	rec, err := job.Sample(t)
	observability.Pipeline().OnLoadComplete(ctx, "sample:"+string(t), time.Since(start), err)
	return rec, err
}

// Decode reads a record from a request body, bounded to limit bytes.
func Decode(ctx context.Context, r io.Reader, limit int64) (*job.Record, error) {
	start := time.Now()
	rec, err := decode(r, limit)
	observability.Pipeline().OnLoadComplete(ctx, "request", time.Since(start), err)
	return rec, err
}

func decode(r io.Reader, limit int64) (*job.Record, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read job record")
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, errors.New(errors.ErrCodeInvalidInput, "job record exceeds %d bytes", limit)
	}
	return job.Parse(data)
}
