package mandel

import (
	"math"
	"sort"
)

// Region within the complex plane. X is the real axis, Y the imaginary axis.
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// Axes samples the region with detail points along each axis.
// The real axis becomes the grid columns, the imaginary axis the grid rows.
func (r Region) Axes(detail int) (realAxis, imagAxis []float64, err error) {
	if detail <= 0 {
		return nil, nil, &ConfigurationError{Field: "detail", Value: detail, Reason: "must be positive"}
	}
	realAxis, err = GenerateAxis(r.Xmin, r.Xmax, detail)
	if err != nil {
		return nil, nil, err
	}
	imagAxis, err = GenerateAxis(r.Ymin, r.Ymax, detail)
	if err != nil {
		return nil, nil, err
	}
	return realAxis, imagAxis, nil
}

// Classic regions / landmarks in the Mandelbrot set
var (
	// Classic is the whole set: real part in [-2, 1], imaginary part in [-1.5, 1.5]
	Classic = Region{
		Xmin: -2.0,
		Xmax: 1.0,
		Ymin: -1.5,
		Ymax: 1.5,
	}

	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Region{
		Xmin: -0.8,
		Xmax: -0.7,
		Ymin: 0.05,
		Ymax: 0.15,
	}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Region{
		Xmin: -1.85,
		Xmax: -1.75,
		Ymin: -0.10,
		Ymax: -0.02,
	}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Region{
		Xmin: -0.7435,
		Xmax: -0.7420,
		Ymin: 0.1310,
		Ymax: 0.1325,
	}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Region{
		Xmin: -0.7480,
		Xmax: -0.7450,
		Ymin: 0.0950,
		Ymax: 0.0980,
	}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Region{
		Xmin: -0.7400,
		Xmax: -0.7350,
		Ymin: 0.1800,
		Ymax: 0.1850,
	}

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = Region{
		Xmin: -1.7390,
		Xmax: -1.7375,
		Ymin: -0.0235,
		Ymax: -0.0220,
	}
)

var regionsByName = map[string]Region{
	"classic":                 Classic,
	"seahorse-valley":         SeahorseValley,
	"elephant-valley":         ElephantValley,
	"spiral-minibrot":         SpiralMinibrot,
	"triple-spiral":           TripleSpiral,
	"valley-of-the-dragon":    ValleyOfTheDragon,
	"minibrot-in-mini-spiral": MinibrotInMiniSpiral,
}

// RegionByName returns one of the predefined regions.
func RegionByName(name string) (Region, bool) {
	r, ok := regionsByName[name]
	return r, ok
}

// RegionNames lists the names accepted by RegionByName in sorted order.
func RegionNames() []string {
	names := make([]string, 0, len(regionsByName))
	for n := range regionsByName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

const (
	DefaultMaxIterations = 100
	DefaultThreshold     = 2.0
)

// Params are shared read-only by every cell evaluation of one grid.
type Params struct {
	MaxIterations int
	Threshold     float64
}

func DefaultParams() Params {
	return Params{MaxIterations: DefaultMaxIterations, Threshold: DefaultThreshold}
}

// Validate rejects parameters no strategy may run with.
// A zero iteration budget and a non-positive threshold are legal degenerate cases.
func (p Params) Validate() error {
	if p.MaxIterations < 0 {
		return &ConfigurationError{Field: "maxIterations", Value: p.MaxIterations, Reason: "must not be negative"}
	}
	if math.IsNaN(p.Threshold) || math.IsInf(p.Threshold, 0) {
		return &ConfigurationError{Field: "escapeThreshold", Value: p.Threshold, Reason: "must be finite"}
	}
	return nil
}

// thresholdSq returns the squared threshold and whether every iterate escapes
// regardless of its magnitude (negative threshold).
func (p Params) thresholdSq() (t2 float64, always bool) {
	if p.Threshold < 0 {
		return 0, true
	}
	return p.Threshold * p.Threshold, false
}

// Step computes one iteration z*z + c on split real/imaginary parts.
// The explicit conversions keep the compiler from fusing multiply-adds, so every
// strategy produces the same bits on every architecture.
func Step(zr, zi, cr, ci float64) (float64, float64) {
	nr := float64(zr*zr) - float64(zi*zi) + cr
	ni := float64(2*zr*zi) + ci
	return nr, ni
}

// Escaped reports whether the iterate z = zr + zi·i lies strictly outside the threshold.
func (p Params) Escaped(zr, zi float64) bool {
	t2, always := p.thresholdSq()
	return always || float64(zr*zr)+float64(zi*zi) > t2
}

// Ratio converts the zero-based escape iteration into the normalized escape-time value.
func (p Params) Ratio(iteration int) float64 {
	return float64(iteration+1) / float64(p.MaxIterations)
}

// Evaluate returns the escape-time value of c: (i+1)/MaxIterations where i is
// the first iteration whose iterate exceeds the threshold, or 1 if none does.
func Evaluate(c complex128, p Params) float64 {
	_, ratio := EvaluateTraced(c, p)
	return ratio
}

// EvaluateTraced is Evaluate that also returns the iterate at the moment of return.
func EvaluateTraced(c complex128, p Params) (complex128, float64) {
	cr, ci := real(c), imag(c)
	var zr, zi float64
	for i := 0; i < p.MaxIterations; i++ {
		zr, zi = Step(zr, zi, cr, ci)
		if p.Escaped(zr, zi) {
			return complex(zr, zi), p.Ratio(i)
		}
	}
	return complex(zr, zi), 1.0
}
