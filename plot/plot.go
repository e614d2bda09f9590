// Package plot turns escape-time grids into images.
//
// Grid columns map to image x. Rows map to image y with row 0, the lowest
// imaginary value, at the bottom unless Options.TopDown is set.
package plot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"math/cmplx"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/tiff"

	mandel "github.com/marben/mandelgrid"
)

// Colormap maps a value in [0, 1] to a color.
type Colormap func(v float64) color.RGBA

// Hot is a black, red, yellow, white ramp.
func Hot(v float64) color.RGBA {
	v = clamp(v)
	r := clamp(v / 0.375)
	g := clamp((v - 0.375) / 0.375)
	b := clamp((v - 0.75) / 0.25)
	return color.RGBA{uint8(r * 255), uint8(g * 255), uint8(b * 255), 255}
}

// HSV cycles the hue with the value; cells that never escaped are black.
func HSV(v float64) color.RGBA {
	if v >= 1 {
		return color.RGBA{A: 255}
	}
	return hsv(clamp(v), 1, 1)
}

// Gray is a linear black to white ramp.
func Gray(v float64) color.RGBA {
	c := uint8(clamp(v) * 255)
	return color.RGBA{c, c, c, 255}
}

var colormaps = map[string]Colormap{
	"hot":  Hot,
	"hsv":  HSV,
	"gray": Gray,
}

// ColormapByName returns one of "hot", "hsv" or "gray".
func ColormapByName(name string) (Colormap, error) {
	cm, ok := colormaps[strings.ToLower(name)]
	if !ok {
		return nil, &mandel.ConfigurationError{Field: "colormap", Value: name, Reason: "unknown colormap"}
	}
	return cm, nil
}

func hsv(h, s, v float64) color.RGBA {
	h = math.Mod(h, 1)
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}
	return color.RGBA{uint8(r * 255), uint8(g * 255), uint8(b * 255), 255}
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

type Options struct {
	// Colormap defaults to Hot.
	Colormap Colormap
	// TopDown draws row 0 at the top of the image.
	TopDown bool
	// Width and Height scale the image when non-zero. A zero dimension keeps
	// the grid's aspect ratio.
	Width, Height int
	// Caption is drawn in the bottom-left corner.
	Caption string
}

// Render draws the ratio grid.
func Render(g *mandel.Grid, opts Options) *image.RGBA {
	return render(g.Rows, g.Cols, g.At, opts)
}

// RenderTrace draws the magnitude of the final iterate, normalized to the
// largest finite magnitude in the grid.
func RenderTrace(t *mandel.TraceGrid, opts Options) *image.RGBA {
	peak := 0.0
	for _, z := range t.Z {
		if a := cmplx.Abs(z); !math.IsInf(a, 0) && !math.IsNaN(a) && a > peak {
			peak = a
		}
	}
	if peak == 0 {
		peak = 1
	}
	return render(t.Rows, t.Cols, func(row, col int) float64 {
		a := cmplx.Abs(t.ZAt(row, col))
		if math.IsInf(a, 0) || math.IsNaN(a) {
			return 1
		}
		return a / peak
	}, opts)
}

func render(rows, cols int, at func(row, col int) float64, opts Options) *image.RGBA {
	cm := opts.Colormap
	if cm == nil {
		cm = Hot
	}

	img := image.NewRGBA(image.Rect(0, 0, cols, rows))
	for row := 0; row < rows; row++ {
		y := rows - 1 - row
		if opts.TopDown {
			y = row
		}
		for col := 0; col < cols; col++ {
			img.SetRGBA(col, y, cm(at(row, col)))
		}
	}

	img = scale(img, opts.Width, opts.Height)
	if opts.Caption != "" {
		caption(img, opts.Caption)
	}
	return img
}

func scale(src *image.RGBA, w, h int) *image.RGBA {
	sb := src.Bounds()
	if sb.Empty() || (w <= 0 && h <= 0) {
		return src
	}
	switch {
	case w <= 0:
		w = max(1, sb.Dx()*h/sb.Dy())
	case h <= 0:
		h = max(1, sb.Dy()*w/sb.Dx())
	}
	if w == sb.Dx() && h == sb.Dy() {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
	return dst
}

func caption(img *image.RGBA, text string) {
	face := basicfont.Face7x13
	b := img.Bounds()
	pad := 2
	// backing strip so the text stays readable over bright cells
	strip := image.Rect(b.Min.X, b.Max.Y-face.Height-2*pad, b.Max.X, b.Max.Y)
	draw.Draw(img, strip, image.NewUniform(color.RGBA{A: 160}), image.Point{}, draw.Over)

	d := font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(b.Min.X+pad, b.Max.Y-pad-face.Descent),
	}
	d.DrawString(text)
}

// Caption describes the region and parameters a grid was computed with.
func Caption(r mandel.Region, p mandel.Params) string {
	return fmt.Sprintf("re [%g, %g] im [%g, %g] iter %d", r.Xmin, r.Xmax, r.Ymin, r.Ymax, p.MaxIterations)
}

// Encode writes img in the format named by the extension of path: .png, .bmp,
// .tif or .tiff.
func Encode(w io.Writer, path string, img image.Image) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return png.Encode(w, img)
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return &mandel.ConfigurationError{Field: "output", Value: path, Reason: fmt.Sprintf("unsupported image format %q", ext)}
	}
}

// SaveFile encodes img into a new file at path.
func SaveFile(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Encode(f, path, img); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
