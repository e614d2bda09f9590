package mandel

import (
	"errors"
	"math"
	"testing"
)

func TestGenerateAxis(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		count    int
		want     []float64
	}{
		{name: "three points", min: -1, max: 1, count: 3, want: []float64{-1, 0, 1}},
		{name: "single point ignores max", min: 0.5, max: 7, count: 1, want: []float64{0.5}},
		{name: "two points", min: -2, max: 1, count: 2, want: []float64{-2, 1}},
		{name: "constant", min: 3, max: 3, count: 4, want: []float64{3, 3, 3, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateAxis(tt.min, tt.max, tt.count)
			if err != nil {
				t.Fatalf("GenerateAxis: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("axis[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGenerateAxisEndpointsExact(t *testing.T) {
	for _, count := range []int{2, 7, 100, 999, 5000} {
		axis, err := GenerateAxis(-1.5, 1.5, count)
		if err != nil {
			t.Fatalf("GenerateAxis(%d): %v", count, err)
		}
		if axis[0] != -1.5 || axis[count-1] != 1.5 {
			t.Errorf("count %d: endpoints %v, %v", count, axis[0], axis[count-1])
		}
		for i := 1; i < count; i++ {
			if axis[i] < axis[i-1] {
				t.Fatalf("count %d: axis decreases at %d", count, i)
			}
		}
	}
}

func TestGenerateAxisErrors(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		count    int
	}{
		{name: "zero count", min: 0, max: 1, count: 0},
		{name: "negative count", min: 0, max: 1, count: -3},
		{name: "nan bound", min: math.NaN(), max: 1, count: 3},
		{name: "infinite bound", min: 0, max: math.Inf(1), count: 3},
		{name: "span overflows", min: -1e308, max: 1e308, count: 3},
		{name: "decreasing", min: 1, max: 0, count: 3},
		{name: "decreasing single value", min: 1, max: 0, count: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateAxis(tt.min, tt.max, tt.count)
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error = %v, want *ConfigurationError", err)
			}
		})
	}
}

func TestGenerateAxisWideSpan(t *testing.T) {
	axis, err := GenerateAxis(-8e307, 8e307, 5)
	if err != nil {
		t.Fatalf("GenerateAxis: %v", err)
	}
	for i, v := range axis {
		if !isFinite(v) {
			t.Errorf("axis[%d] = %v", i, v)
		}
		if i > 0 && v < axis[i-1] {
			t.Errorf("axis decreases at %d: %v < %v", i, v, axis[i-1])
		}
	}
}

func TestValidateAxis(t *testing.T) {
	if err := ValidateAxis("realAxis", []float64{-1, 0, 1}); err != nil {
		t.Errorf("valid axis: %v", err)
	}
	if err := ValidateAxis("realAxis", nil); !errors.Is(err, ErrConfiguration) {
		t.Errorf("empty axis: error = %v", err)
	}
	err := ValidateAxis("imagAxis", []float64{0, math.NaN()})
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("nan axis: error = %v", err)
	}
	if cfgErr.Field != "imagAxis[1]" {
		t.Errorf("Field = %q, want imagAxis[1]", cfgErr.Field)
	}
}
