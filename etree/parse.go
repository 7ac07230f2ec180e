package etree

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ParseFunc receives the outcome of parsing one file. Exactly one of doc
// and err is non-nil. Returning an error stops ParseFiles.
type ParseFunc func(path string, doc *Document, err error) error

// ParseFiles reads paths in windows of up to jobs files parsed
// concurrently, and calls fn for every file in input order. At most jobs
// parsed documents are held at any time.
func ParseFiles(ctx context.Context, paths []string, rules *Rules, jobs int, fn ParseFunc) error {
	if jobs < 1 {
		jobs = 1
	}

	for start := 0; start < len(paths); start += jobs {
		if err := ctx.Err(); err != nil {
			return err
		}

		window := paths[start:min(start+jobs, len(paths))]
		docs := make([]*Document, len(window))
		errs := make([]error, len(window))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(jobs)
		for i, path := range window {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				// Read failures are per-file results, not group errors.
				docs[i], errs[i] = ReadDocument(path, rules)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for i, path := range window {
			if err := fn(path, docs[i], errs[i]); err != nil {
				return err
			}
		}
	}
	return nil
}
