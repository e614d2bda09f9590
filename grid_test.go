package mandel

import (
	"errors"
	"math"
	"testing"
)

func TestGridLayout(t *testing.T) {
	g := NewGrid(2, 3)
	g.Set(1, 2, 0.5)
	if g.Cells[5] != 0.5 {
		t.Errorf("Set(1, 2) wrote %v", g.Cells)
	}
	if err := g.SetRow(0, []float64{0.1, 0.2, 0.3}); err != nil {
		t.Fatalf("SetRow: %v", err)
	}
	if g.At(0, 1) != 0.2 {
		t.Errorf("At(0, 1) = %v", g.At(0, 1))
	}
	if row := g.Row(1); len(row) != 3 || row[2] != 0.5 {
		t.Errorf("Row(1) = %v", row)
	}
}

func TestGridSetRowErrors(t *testing.T) {
	g := NewGrid(2, 3)
	if err := g.SetRow(2, []float64{1, 1, 1}); err == nil {
		t.Error("SetRow out of range succeeded")
	}
	if err := g.SetRow(0, []float64{1, 1}); err == nil {
		t.Error("SetRow with short row succeeded")
	}
}

func TestGridEqual(t *testing.T) {
	a := &Grid{Rows: 1, Cols: 2, Cells: []float64{0.5, 1}}
	b := &Grid{Rows: 1, Cols: 2, Cells: []float64{0.5 + 1e-12, 1}}
	if !a.Equal(b, 1e-9) {
		t.Error("grids within tolerance reported unequal")
	}
	if a.Equal(b, 0) {
		t.Error("grids outside tolerance reported equal")
	}
	c := &Grid{Rows: 2, Cols: 1, Cells: []float64{0.5, 1}}
	if a.Equal(c, 1) {
		t.Error("grids of different shape reported equal")
	}
	nan := &Grid{Rows: 1, Cols: 2, Cells: []float64{math.NaN(), 1}}
	if a.Equal(nan, 1) {
		t.Error("grid with NaN reported equal")
	}
}

func TestGridValidate(t *testing.T) {
	tests := []struct {
		name    string
		cells   []float64
		wantErr bool
	}{
		{name: "valid", cells: []float64{0.01, 1}},
		{name: "unwritten cell", cells: []float64{0, 1}, wantErr: true},
		{name: "nan", cells: []float64{math.NaN(), 1}, wantErr: true},
		{name: "inf", cells: []float64{math.Inf(1), 1}, wantErr: true},
		{name: "above one", cells: []float64{1.5, 1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Grid{Rows: 1, Cols: 2, Cells: tt.cells}
			err := g.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrNonFinite) {
				t.Errorf("error %v does not wrap ErrNonFinite", err)
			}
		})
	}
}

func TestDispatchError(t *testing.T) {
	cause := errors.New("worker exited")
	err := error(&DispatchError{Row: 4, Worker: 2, Err: cause})
	if !errors.Is(err, ErrDispatch) || !errors.Is(err, cause) {
		t.Errorf("errors.Is failed for %v", err)
	}
	if got, want := err.Error(), "row 4 on worker 2: worker exited"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
