package mandel

//go:generate go run github.com/marben/irpc/cmd/irpc

// RowRenderer computes one full grid row: the escape-time values of
// realAxis[r] + imag·i for every column r. It is the unit of work handed to
// workers of the process pool.
type RowRenderer interface {
	RenderRow(row int, imag float64, realAxis []float64, p Params) ([]float64, error)
}
