package pool

import (
	"context"
	"fmt"
	"strings"

	mandel "github.com/marben/mandelgrid"
)

// Mode selects how the orchestrator hands rows to the pool.
type Mode int

const (
	// Synchronous dispatches one row and waits for it before dispatching the next.
	Synchronous Mode = iota
	// Asynchronous dispatches every row up front, then collects them oldest first.
	Asynchronous
)

func (m Mode) String() string {
	switch m {
	case Synchronous:
		return "sync"
	case Asynchronous:
		return "async"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "sync"/"synchronous" and "async"/"asynchronous".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "sync", "synchronous":
		return Synchronous, nil
	case "async", "asynchronous":
		return Asynchronous, nil
	}
	return 0, &mandel.ConfigurationError{Field: "mode", Value: s, Reason: "must be sync or async"}
}

// ComputeParallel partitions the grid by row over a pool of workers worker
// processes. Each returned row is placed at the index it was dispatched with,
// whatever order the workers finish in. Any failed row aborts the whole
// computation and no grid is returned.
func ComputeParallel(ctx context.Context, realAxis, imagAxis []float64, p mandel.Params, workers int, mode Mode, opts ...Option) (*mandel.Grid, error) {
	if mode != Synchronous && mode != Asynchronous {
		return nil, &mandel.ConfigurationError{Field: "mode", Value: mode, Reason: "must be sync or async"}
	}
	if err := mandel.ValidateInput(realAxis, imagAxis, p); err != nil {
		return nil, err
	}
	pl, err := New(workers, opts...)
	if err != nil {
		return nil, err
	}
	if err := pl.Start(ctx); err != nil {
		return nil, fmt.Errorf("start pool: %w", err)
	}
	defer pl.Close()

	g, err := collect(ctx, pl, realAxis, imagAxis, p, mode)
	if err != nil {
		pl.Abort(err)
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func collect(ctx context.Context, pl *Pool, realAxis, imagAxis []float64, p mandel.Params, mode Mode) (*mandel.Grid, error) {
	g := mandel.NewGrid(len(imagAxis), len(realAxis))
	task := func(i int) Task {
		return Task{Row: i, Imag: imagAxis[i], Real: realAxis, Params: p}
	}
	place := func(pd *Pending) error {
		values, err := pd.Wait(ctx)
		if err != nil {
			return err
		}
		if err := g.SetRow(pd.Row(), values); err != nil {
			return &mandel.DispatchError{Row: pd.Row(), Worker: -1, Err: err}
		}
		return nil
	}

	switch mode {
	case Synchronous:
		for i := range imagAxis {
			if err := place(pl.Dispatch(task(i))); err != nil {
				return nil, err
			}
		}
	case Asynchronous:
		pending := make([]*Pending, len(imagAxis))
		for i := range imagAxis {
			pending[i] = pl.Dispatch(task(i))
		}
		for _, pd := range pending {
			if err := place(pd); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// Parallel adapts ComputeParallel to mandel.Strategy.
type Parallel struct {
	Workers int
	Mode    Mode
	Options []Option
}

func (s Parallel) Compute(ctx context.Context, realAxis, imagAxis []float64, p mandel.Params) (*mandel.Grid, error) {
	return ComputeParallel(ctx, realAxis, imagAxis, p, s.Workers, s.Mode, s.Options...)
}

var _ mandel.Strategy = Parallel{}
