// Package dataset persists reference grids as named, self-describing tables.
//
// A table file is one JSON header line followed by rows×cols little-endian
// float64 values in row-major order. The header names the table, records the
// region and parameters the grid was computed with and carries a semantic
// format version; readers accept any version with the same major number that
// is not newer than their own.
package dataset

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/mod/semver"

	mandel "github.com/marben/mandelgrid"
	"github.com/marben/mandelgrid/render"
)

const (
	Format        = "mandelgrid-table"
	FormatVersion = "v1.0.0"

	// DefaultName is the key of the reference grid consumed by the strategy tests.
	DefaultName = "mandelbrot"
	// DefaultDetail keeps the reference small; a low detail already exposes layout and kernel bugs.
	DefaultDetail = 100
)

var ErrFormat = errors.New("not a mandelgrid table")

// Header describes the table that follows it.
type Header struct {
	Format  string        `json:"format"`
	Version string        `json:"version"`
	Name    string        `json:"name"`
	Rows    int           `json:"rows"`
	Cols    int           `json:"cols"`
	Region  mandel.Region `json:"region"`
	Params  mandel.Params `json:"params"`
}

// Table is a named grid together with what produced it.
type Table struct {
	Header
	Grid *mandel.Grid
}

// Axes rebuilds the sampling axes the table was computed on.
func (t Table) Axes() (realAxis, imagAxis []float64, err error) {
	realAxis, err = mandel.GenerateAxis(t.Region.Xmin, t.Region.Xmax, t.Cols)
	if err != nil {
		return nil, nil, err
	}
	imagAxis, err = mandel.GenerateAxis(t.Region.Ymin, t.Region.Ymax, t.Rows)
	if err != nil {
		return nil, nil, err
	}
	return realAxis, imagAxis, nil
}

// Generate computes a reference table with the sequential strategy.
func Generate(name string, region mandel.Region, detail int, p mandel.Params) (Table, error) {
	re, im, err := region.Axes(detail)
	if err != nil {
		return Table{}, err
	}
	g, err := render.ComputeSequential(re, im, p)
	if err != nil {
		return Table{}, fmt.Errorf("compute reference: %w", err)
	}
	return Table{
		Header: Header{
			Format:  Format,
			Version: FormatVersion,
			Name:    name,
			Rows:    g.Rows,
			Cols:    g.Cols,
			Region:  region,
			Params:  p,
		},
		Grid: g,
	}, nil
}

func Write(w io.Writer, t Table) error {
	if t.Grid == nil {
		return errors.New("table has no grid")
	}
	h := t.Header
	h.Format, h.Version = Format, FormatVersion
	h.Rows, h.Cols = t.Grid.Rows, t.Grid.Cols

	bw := bufio.NewWriter(w)
	hdr, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encode header: %w", err)
	}
	bw.Write(hdr)
	bw.WriteByte('\n')
	if err := binary.Write(bw, binary.LittleEndian, t.Grid.Cells); err != nil {
		return fmt.Errorf("encode cells: %w", err)
	}
	return bw.Flush()
}

func Read(r io.Reader) (Table, error) {
	br := bufio.NewReader(r)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return Table{}, fmt.Errorf("read header: %w", err)
	}
	var h Header
	if err := json.Unmarshal(line, &h); err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if h.Format != Format {
		return Table{}, fmt.Errorf("%w: format %q", ErrFormat, h.Format)
	}
	if !compatible(h.Version) {
		return Table{}, fmt.Errorf("%w: unsupported version %q (reader is %s)", ErrFormat, h.Version, FormatVersion)
	}
	if h.Rows <= 0 || h.Cols <= 0 {
		return Table{}, fmt.Errorf("%w: shape %dx%d", ErrFormat, h.Rows, h.Cols)
	}

	g := mandel.NewGrid(h.Rows, h.Cols)
	if err := binary.Read(br, binary.LittleEndian, g.Cells); err != nil {
		return Table{}, fmt.Errorf("read cells: %w", err)
	}
	return Table{Header: h, Grid: g}, nil
}

func compatible(v string) bool {
	return semver.IsValid(v) &&
		semver.Major(v) == semver.Major(FormatVersion) &&
		semver.Compare(v, FormatVersion) <= 0
}

func WriteFile(path string, t Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, t); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func ReadFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()
	t, err := Read(f)
	if err != nil {
		return Table{}, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

// DefaultFileName is where the reference table of the given detail is stored.
func DefaultFileName(detail int) string {
	return fmt.Sprintf("%s_%dx%d.mgt", DefaultName, detail, detail)
}

// Verify compares g against the table element by element.
func (t Table) Verify(g *mandel.Grid, tol float64) error {
	d, err := t.Grid.MaxAbsDiff(g)
	if err != nil {
		return fmt.Errorf("%s: %w", t.Name, err)
	}
	if !(d <= tol) {
		return fmt.Errorf("%s: max difference %g exceeds tolerance %g", t.Name, d, tol)
	}
	return nil
}
