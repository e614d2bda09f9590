package render

import (
	"context"

	mandel "github.com/marben/mandelgrid"
)

// ComputeVectorized evaluates the grid one row at a time. Row elements are
// contiguous in the grid, so each row is handed to the lane-masked kernel in
// batches sized to the CPU's vector width.
func ComputeVectorized(realAxis, imagAxis []float64, p mandel.Params) (*mandel.Grid, error) {
	if err := mandel.ValidateInput(realAxis, imagAxis, p); err != nil {
		return nil, err
	}
	g := mandel.NewGrid(len(imagAxis), len(realAxis))
	for i, im := range imagAxis {
		EvaluateRow(g.Row(i), realAxis, im, p)
	}
	return finish(g)
}

type Vectorized struct{}

func (Vectorized) Compute(_ context.Context, realAxis, imagAxis []float64, p mandel.Params) (*mandel.Grid, error) {
	return ComputeVectorized(realAxis, imagAxis, p)
}

var _ mandel.Strategy = Vectorized{}
