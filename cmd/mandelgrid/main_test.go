package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	mandel "github.com/marben/mandelgrid"
	"github.com/marben/mandelgrid/dataset"
	"github.com/marben/mandelgrid/pool"
	"github.com/marben/mandelgrid/strategy"
)

func TestMain(m *testing.M) {
	pool.MaybeRunWorker()
	os.Exit(m.Run())
}

func TestParseKinds(t *testing.T) {
	tests := []struct {
		in      string
		want    []strategy.Kind
		wantErr bool
	}{
		{in: "", want: strategy.Kinds},
		{in: "all", want: strategy.Kinds},
		{in: "threaded", want: []strategy.Kind{strategy.Threaded}},
		{in: "sequential, parallel", want: []strategy.Kind{strategy.Sequential, strategy.ProcessParallel}},
		{in: "sequential,gpu", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseKinds(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseKinds(%q) error = %v", tt.in, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("parseKinds(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseKinds(%q) = %v, want %v", tt.in, got, tt.want)
				break
			}
		}
	}
}

func TestGridFlags(t *testing.T) {
	tests := []struct {
		args    []string
		want    mandel.Region
		wantErr bool
	}{
		{args: nil, want: mandel.Classic},
		{args: []string{"-region", "seahorse-valley"}, want: mandel.SeahorseValley},
		{args: []string{"-region", "nowhere"}, wantErr: true},
		{args: []string{"-iter", "-5"}, wantErr: true},
	}
	for _, tt := range tests {
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		var g gridFlags
		g.register(fs, 10)
		if err := fs.Parse(tt.args); err != nil {
			t.Fatalf("Parse(%v): %v", tt.args, err)
		}
		r, p, err := g.resolve()
		if (err != nil) != tt.wantErr {
			t.Errorf("resolve(%v) error = %v", tt.args, err)
			continue
		}
		if err != nil {
			if !errors.Is(err, mandel.ErrConfiguration) {
				t.Errorf("resolve(%v) error = %v, want ErrConfiguration", tt.args, err)
			}
			continue
		}
		if r != tt.want || p != mandel.DefaultParams() {
			t.Errorf("resolve(%v) = %v, %v", tt.args, r, p)
		}
	}
}

func TestReferenceAndVerify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.mgt")
	if err := referenceCommand([]string{"-detail", "12", "-o", path}); err != nil {
		t.Fatalf("reference: %v", err)
	}
	ref, err := dataset.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if ref.Name != dataset.DefaultName || ref.Rows != 12 {
		t.Errorf("header = %+v", ref.Header)
	}

	args := []string{"-ref", path, "-threads", "2", "-workers", "1"}
	if testing.Short() {
		args = append(args, "-strategies", "sequential,vectorized,threaded")
	}
	if err := verifyCommand(context.Background(), args); err != nil {
		t.Errorf("verify: %v", err)
	}
}

func TestComputeWritesImage(t *testing.T) {
	out := filepath.Join(t.TempDir(), "grid.bmp")
	args := []string{"-strategy", "vectorized", "-detail", "16", "-o", out, "-caption", "-width", "64"}
	if err := computeCommand(context.Background(), args); err != nil {
		t.Fatalf("compute: %v", err)
	}
	if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
		t.Errorf("stat %s: %v", out, err)
	}

	out = filepath.Join(t.TempDir(), "trace.png")
	if err := traceCommand(context.Background(), []string{"-detail", "16", "-threads", "2", "-o", out}); err != nil {
		t.Fatalf("trace: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Error(err)
	}
}
