package pipeline

import (
	"context"
	"runtime"

	"gocv.io/x/gocv"
	"golang.org/x/sync/errgroup"
)

// ExecuteBatch runs one pipeline per page image concurrently, bounded by
// workers (GOMAXPROCS when <= 0). Invocations are fully independent: each
// gets its own aggregator and working copy. The context gates admission of
// pages only; a pipeline that has started always runs to completion, so a
// canceled batch returns the error alongside the results produced so far;
// pages rejected at admission leave a zero Result. The caller must Close
// the image of every result that actually ran (Summary.RunID is set).
func (e *Executor) ExecuteBatch(ctx context.Context, images []gocv.Mat, steps []Step, preview bool, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(images))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for i := range images {
		group.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = e.Execute(images[i], steps, preview)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
