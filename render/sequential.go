package render

import (
	"context"

	mandel "github.com/marben/mandelgrid"
)

// ComputeSequential is the reference strategy: one cell after another,
// grid[i, r] = Evaluate(realAxis[r] + imagAxis[i]·i).
func ComputeSequential(realAxis, imagAxis []float64, p mandel.Params) (*mandel.Grid, error) {
	if err := mandel.ValidateInput(realAxis, imagAxis, p); err != nil {
		return nil, err
	}
	g := mandel.NewGrid(len(imagAxis), len(realAxis))
	for i, im := range imagAxis {
		for r, re := range realAxis {
			g.Set(i, r, mandel.Evaluate(complex(re, im), p))
		}
	}
	return finish(g)
}

// Sequential adapts ComputeSequential to mandel.Strategy.
type Sequential struct{}

func (Sequential) Compute(_ context.Context, realAxis, imagAxis []float64, p mandel.Params) (*mandel.Grid, error) {
	return ComputeSequential(realAxis, imagAxis, p)
}

var _ mandel.Strategy = Sequential{}
