// Package render fills escape-time grids inside a single process: the
// sequential reference, the lane-masked vectorized variant and the threaded
// variant. RendererImpl is the row kernel that pool workers run.
package render

import (
	"fmt"

	mandel "github.com/marben/mandelgrid"
)

// RendererImpl renders single rows with the lane-masked kernel.
type RendererImpl struct {
	// OnRowRender, when set, is called before each row is rendered.
	OnRowRender func(row int)
}

func (imp RendererImpl) RenderRow(row int, imag float64, realAxis []float64, p mandel.Params) ([]float64, error) {
	if imp.OnRowRender != nil {
		imp.OnRowRender(row)
	}
	if err := mandel.ValidateAxis("realAxis", realAxis); err != nil {
		return nil, fmt.Errorf("row %d: %w", row, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("row %d: %w", row, err)
	}
	out := make([]float64, len(realAxis))
	EvaluateRow(out, realAxis, imag, p)
	return out, nil
}

var _ mandel.RowRenderer = RendererImpl{}

// Scalar renders rows by calling mandel.Evaluate once per cell.
type Scalar struct{}

func (Scalar) RenderRow(row int, imag float64, realAxis []float64, p mandel.Params) ([]float64, error) {
	out := make([]float64, len(realAxis))
	for r, re := range realAxis {
		out[r] = mandel.Evaluate(complex(re, imag), p)
	}
	return out, nil
}

var _ mandel.RowRenderer = Scalar{}

// finish validates a completed grid so no strategy returns poisoned cells.
func finish(g *mandel.Grid) (*mandel.Grid, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
