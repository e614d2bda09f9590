package render

import (
	"golang.org/x/sys/cpu"

	mandel "github.com/marben/mandelgrid"
)

const maxLanes = 8

// lanes is the batch width used by the vectorized kernel, sized after the
// widest float64 vector unit the CPU reports.
var lanes = laneWidth()

func laneWidth() int {
	switch {
	case cpu.X86.HasAVX512F:
		return 8
	case cpu.X86.HasAVX2, cpu.ARM64.HasASIMD:
		return 4
	default:
		return 2
	}
}

// EvaluateRow writes the escape-time values of realAxis[r] + imag·i into out.
func EvaluateRow(out, realAxis []float64, imag float64, p mandel.Params) {
	evaluateRow(out, nil, realAxis, imag, p)
}

// EvaluateRowTraced is EvaluateRow that also records each lane's final iterate in zs.
func EvaluateRowTraced(out []float64, zs []complex128, realAxis []float64, imag float64, p mandel.Params) {
	evaluateRow(out, zs, realAxis, imag, p)
}

func evaluateRow(out []float64, zs []complex128, realAxis []float64, imag float64, p mandel.Params) {
	width := min(max(lanes, 1), maxLanes)
	for start := 0; start < len(realAxis); start += width {
		end := min(start+width, len(realAxis))
		var zBatch []complex128
		if zs != nil {
			zBatch = zs[start:end]
		}
		evaluateBatch(out[start:end], zBatch, realAxis[start:end], imag, p)
	}
}

// evaluateBatch iterates every lane for the whole budget with no early exit.
// When a lane first escapes its iteration index and iterate are frozen; the
// other lanes keep updating and may escape later.
func evaluateBatch(out []float64, zs []complex128, cr []float64, ci float64, p mandel.Params) {
	n := len(cr)
	var (
		zr, zi    [maxLanes]float64
		escapedAt [maxLanes]int
		live      [maxLanes]bool
	)
	for l := 0; l < n; l++ {
		escapedAt[l] = -1
		live[l] = true
	}

	for it := 0; it < p.MaxIterations; it++ {
		for l := 0; l < n; l++ {
			nr, ni := mandel.Step(zr[l], zi[l], cr[l], ci)
			escaped := p.Escaped(nr, ni)
			if live[l] {
				zr[l], zi[l] = nr, ni
			}
			if live[l] && escaped {
				escapedAt[l] = it
				live[l] = false
			}
		}
	}

	for l := 0; l < n; l++ {
		if escapedAt[l] < 0 {
			out[l] = 1.0
		} else {
			out[l] = p.Ratio(escapedAt[l])
		}
		if zs != nil {
			zs[l] = complex(zr[l], zi[l])
		}
	}
}
