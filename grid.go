package mandel

import (
	"fmt"
	"math"
)

// Grid is a row-major matrix of escape-time values.
// Row i holds imaginary axis value i, column r holds real axis value r.
type Grid struct {
	Rows, Cols int
	Cells      []float64
}

// NewGrid allocates a zeroed rows × cols grid.
func NewGrid(rows, cols int) *Grid {
	return &Grid{Rows: rows, Cols: cols, Cells: make([]float64, rows*cols)}
}

func (g *Grid) At(row, col int) float64 {
	return g.Cells[row*g.Cols+col]
}

func (g *Grid) Set(row, col int, v float64) {
	g.Cells[row*g.Cols+col] = v
}

// Row returns the backing slice of one row; writes go straight into the grid.
func (g *Grid) Row(row int) []float64 {
	return g.Cells[row*g.Cols : (row+1)*g.Cols]
}

// SetRow copies values into row. It fails if the length does not match the grid width.
func (g *Grid) SetRow(row int, values []float64) error {
	if row < 0 || row >= g.Rows {
		return fmt.Errorf("row %d out of range [0, %d)", row, g.Rows)
	}
	if len(values) != g.Cols {
		return fmt.Errorf("row %d has %d values, grid has %d columns", row, len(values), g.Cols)
	}
	copy(g.Row(row), values)
	return nil
}

// MaxAbsDiff returns the largest element-wise difference between two grids of the same shape.
func (g *Grid) MaxAbsDiff(other *Grid) (float64, error) {
	if g.Rows != other.Rows || g.Cols != other.Cols {
		return 0, fmt.Errorf("shape mismatch: %dx%d vs %dx%d", g.Rows, g.Cols, other.Rows, other.Cols)
	}
	var max float64
	for i, v := range g.Cells {
		if d := math.Abs(v - other.Cells[i]); d > max || math.IsNaN(d) {
			max = d
		}
	}
	return max, nil
}

// Equal reports whether both grids have the same shape and every pair of cells
// differs by at most tol.
func (g *Grid) Equal(other *Grid, tol float64) bool {
	d, err := g.MaxAbsDiff(other)
	return err == nil && d <= tol
}

// Validate returns ErrNonFinite with the first offending cell when a value is NaN,
// infinite or outside (0, 1].
func (g *Grid) Validate() error {
	if len(g.Cells) != g.Rows*g.Cols {
		return fmt.Errorf("grid %dx%d backed by %d cells", g.Rows, g.Cols, len(g.Cells))
	}
	for i, v := range g.Cells {
		if math.IsNaN(v) || v <= 0 || v > 1 {
			return fmt.Errorf("cell [%d, %d] = %v: %w", i/g.Cols, i%g.Cols, v, ErrNonFinite)
		}
	}
	return nil
}

// TraceGrid pairs every escape-time value with the iterate it was returned with.
type TraceGrid struct {
	*Grid
	Z []complex128
}

func NewTraceGrid(rows, cols int) *TraceGrid {
	return &TraceGrid{Grid: NewGrid(rows, cols), Z: make([]complex128, rows*cols)}
}

func (t *TraceGrid) ZAt(row, col int) complex128 {
	return t.Z[row*t.Cols+col]
}
