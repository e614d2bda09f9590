package render

import (
	"context"

	"golang.org/x/sync/errgroup"

	mandel "github.com/marben/mandelgrid"
)

// ComputeThreaded runs the sequential algorithm with rows spread over threads
// goroutines. Each row is written by exactly one goroutine and no cell is read
// during the computation, so no locking is needed.
func ComputeThreaded(ctx context.Context, realAxis, imagAxis []float64, p mandel.Params, threads int) (*mandel.Grid, error) {
	if err := validateThreads(threads); err != nil {
		return nil, err
	}
	if err := mandel.ValidateInput(realAxis, imagAxis, p); err != nil {
		return nil, err
	}
	g := mandel.NewGrid(len(imagAxis), len(realAxis))
	err := forEachRow(ctx, len(imagAxis), threads, func(i int) {
		row := g.Row(i)
		for r, re := range realAxis {
			row[r] = mandel.Evaluate(complex(re, imagAxis[i]), p)
		}
	})
	if err != nil {
		return nil, err
	}
	return finish(g)
}

// ComputeTraced fills a TraceGrid with the escape-time values and the final
// iterates, using the lane-masked kernel on threads goroutines.
func ComputeTraced(ctx context.Context, realAxis, imagAxis []float64, p mandel.Params, threads int) (*mandel.TraceGrid, error) {
	if err := validateThreads(threads); err != nil {
		return nil, err
	}
	if err := mandel.ValidateInput(realAxis, imagAxis, p); err != nil {
		return nil, err
	}
	tg := mandel.NewTraceGrid(len(imagAxis), len(realAxis))
	err := forEachRow(ctx, len(imagAxis), threads, func(i int) {
		cols := tg.Cols
		EvaluateRowTraced(tg.Row(i), tg.Z[i*cols:(i+1)*cols], realAxis, imagAxis[i], p)
	})
	if err != nil {
		return nil, err
	}
	if err := tg.Validate(); err != nil {
		return nil, err
	}
	return tg, nil
}

// forEachRow calls fn for every row index with at most threads calls in flight.
// It stops handing out rows once ctx is done.
func forEachRow(ctx context.Context, rows, threads int, fn func(row int)) error {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(threads)
	for i := 0; i < rows && egCtx.Err() == nil; i++ {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func validateThreads(threads int) error {
	if threads <= 0 {
		return &mandel.ConfigurationError{Field: "threadCount", Value: threads, Reason: "must be positive"}
	}
	return nil
}

// Threaded adapts ComputeThreaded to mandel.Strategy.
type Threaded struct {
	Threads int
}

func (t Threaded) Compute(ctx context.Context, realAxis, imagAxis []float64, p mandel.Params) (*mandel.Grid, error) {
	return ComputeThreaded(ctx, realAxis, imagAxis, p, t.Threads)
}

var _ mandel.Strategy = Threaded{}
