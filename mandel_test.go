package mandel

import (
	"errors"
	"math"
	"testing"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		c    complex128
		want float64
	}{
		{name: "origin is a fixed point", c: 0, want: 1.0},
		{name: "period two orbit", c: -1, want: 1.0},
		{name: "escapes at second iteration", c: 1 + 1i, want: 0.02},
		{name: "escapes at third iteration", c: -1 - 1i, want: 0.03},
		{name: "far outside escapes immediately", c: 10 + 10i, want: 0.01},
		{name: "main cardioid", c: -0.5 + 0.25i, want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.c, DefaultParams()); got != tt.want {
				t.Errorf("Evaluate(%v) = %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}

func TestEvaluateThresholdIsStrict(t *testing.T) {
	// z1 = c = 2 has magnitude exactly 2 and must not count as escaped.
	// z2 = 6 escapes.
	if got := Evaluate(2, DefaultParams()); got != 0.02 {
		t.Errorf("Evaluate(2) = %v, want 0.02", got)
	}
}

func TestEvaluateDegenerateParams(t *testing.T) {
	tests := []struct {
		name string
		c    complex128
		p    Params
		want float64
	}{
		{name: "zero iterations", c: 5 + 5i, p: Params{MaxIterations: 0, Threshold: 2}, want: 1.0},
		{name: "zero threshold", c: 0.1, p: Params{MaxIterations: 10, Threshold: 0}, want: 0.1},
		{name: "zero threshold origin", c: 0, p: Params{MaxIterations: 10, Threshold: 0}, want: 1.0},
		{name: "negative threshold", c: 0, p: Params{MaxIterations: 4, Threshold: -1}, want: 0.25},
		{name: "single iteration", c: 1 + 1i, p: Params{MaxIterations: 1, Threshold: 2}, want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.c, tt.p); got != tt.want {
				t.Errorf("Evaluate(%v, %+v) = %v, want %v", tt.c, tt.p, got, tt.want)
			}
		})
	}
}

func TestEvaluateTraced(t *testing.T) {
	z, ratio := EvaluateTraced(1+1i, DefaultParams())
	if ratio != 0.02 {
		t.Errorf("ratio = %v, want 0.02", ratio)
	}
	if z != 1+3i {
		t.Errorf("final z = %v, want (1+3i)", z)
	}

	z, ratio = EvaluateTraced(-1, DefaultParams())
	if ratio != 1.0 {
		t.Errorf("ratio = %v, want 1", ratio)
	}
	// 100 iterations of the -1 → 0 → -1 orbit end on 0.
	if z != 0 {
		t.Errorf("final z = %v, want 0", z)
	}
}

func TestEvaluateConjugateSymmetry(t *testing.T) {
	p := DefaultParams()
	for r := -2.0; r <= 1.0; r += 0.0625 {
		for i := 0.0; i <= 1.5; i += 0.0625 {
			up := Evaluate(complex(r, i), p)
			down := Evaluate(complex(r, -i), p)
			if up != down {
				t.Fatalf("Evaluate(%v%+vi) = %v but Evaluate(%v%+vi) = %v", r, i, up, r, -i, down)
			}
		}
	}
}

func TestEvaluateRange(t *testing.T) {
	p := Params{MaxIterations: 50, Threshold: 2}
	for r := -2.5; r <= 1.5; r += 0.1 {
		for i := -1.5; i <= 1.5; i += 0.1 {
			v := Evaluate(complex(r, i), p)
			if v <= 0 || v > 1 || math.IsNaN(v) {
				t.Fatalf("Evaluate(%v%+vi) = %v, outside (0, 1]", r, i, v)
			}
		}
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		p       Params
		wantErr bool
	}{
		{name: "defaults", p: DefaultParams()},
		{name: "zero iterations", p: Params{MaxIterations: 0, Threshold: 2}},
		{name: "negative threshold", p: Params{MaxIterations: 10, Threshold: -1}},
		{name: "negative iterations", p: Params{MaxIterations: -1, Threshold: 2}, wantErr: true},
		{name: "nan threshold", p: Params{MaxIterations: 10, Threshold: math.NaN()}, wantErr: true},
		{name: "inf threshold", p: Params{MaxIterations: 10, Threshold: math.Inf(1)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrConfiguration) {
				t.Errorf("error %v does not match ErrConfiguration", err)
			}
		})
	}
}

func TestRegionAxes(t *testing.T) {
	re, im, err := Classic.Axes(4)
	if err != nil {
		t.Fatalf("Axes: %v", err)
	}
	wantRe := []float64{-2, -1, 0, 1}
	wantIm := []float64{-1.5, -0.5, 0.5, 1.5}
	for k := range wantRe {
		if re[k] != wantRe[k] || im[k] != wantIm[k] {
			t.Fatalf("Axes(4) = %v, %v; want %v, %v", re, im, wantRe, wantIm)
		}
	}

	if _, _, err := Classic.Axes(0); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Axes(0) error = %v, want ErrConfiguration", err)
	}
}

func TestRegionByName(t *testing.T) {
	for _, name := range RegionNames() {
		if _, ok := RegionByName(name); !ok {
			t.Errorf("RegionByName(%q) not found", name)
		}
	}
	if r, ok := RegionByName("seahorse-valley"); !ok || r != SeahorseValley {
		t.Errorf("RegionByName(seahorse-valley) = %v, %v", r, ok)
	}
	if _, ok := RegionByName("nowhere"); ok {
		t.Error("RegionByName(nowhere) found a region")
	}
}

func TestHardwareConcurrency(t *testing.T) {
	if n := HardwareConcurrency(); n < 1 {
		t.Errorf("HardwareConcurrency() = %d", n)
	}
}
