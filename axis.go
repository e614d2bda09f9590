package mandel

import (
	"fmt"
	"math"
)

// GenerateAxis returns count evenly spaced values from min to max, both inclusive.
// Each value is computed from its index, so the last element equals max exactly.
// With count == 1 the axis is just min. Axes never decrease: min > max is
// rejected, as is a span too wide for float64.
func GenerateAxis(min, max float64, count int) ([]float64, error) {
	if count <= 0 {
		return nil, &ConfigurationError{Field: "detail", Value: count, Reason: "must be positive"}
	}
	if !isFinite(min) || !isFinite(max) {
		return nil, &ConfigurationError{Field: "axis", Value: fmt.Sprintf("[%v, %v]", min, max), Reason: "bounds must be finite"}
	}
	if min > max {
		return nil, &ConfigurationError{Field: "axis", Value: fmt.Sprintf("[%v, %v]", min, max), Reason: "min exceeds max"}
	}
	axis := make([]float64, count)
	axis[0] = min
	if count == 1 {
		return axis, nil
	}
	step := (max - min) / float64(count-1)
	if !isFinite(step) {
		return nil, &ConfigurationError{Field: "axis", Value: fmt.Sprintf("[%v, %v]", min, max), Reason: "span overflows float64"}
	}
	for k := 1; k < count-1; k++ {
		axis[k] = min + float64(k)*step
	}
	axis[count-1] = max
	return axis, nil
}

// ValidateAxis checks an axis handed to a strategy.
func ValidateAxis(name string, axis []float64) error {
	if len(axis) == 0 {
		return &ConfigurationError{Field: name, Value: 0, Reason: "axis is empty"}
	}
	for i, v := range axis {
		if !isFinite(v) {
			return &ConfigurationError{Field: fmt.Sprintf("%s[%d]", name, i), Value: v, Reason: "must be finite"}
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
