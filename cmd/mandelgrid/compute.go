package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/marben/mandelgrid/plot"
	"github.com/marben/mandelgrid/render"
	"github.com/marben/mandelgrid/strategy"
)

type imageFlags struct {
	output   string
	width    int
	height   int
	colormap string
	topDown  bool
	caption  bool
}

func (f *imageFlags) register(fs *flag.FlagSet, output, colormap string) {
	fs.StringVar(&f.output, "o", output, "output image (.png, .bmp, .tif)")
	fs.IntVar(&f.width, "width", 0, "scale the image to this width")
	fs.IntVar(&f.height, "height", 0, "scale the image to this height")
	fs.StringVar(&f.colormap, "colormap", colormap, "hot, hsv or gray")
	fs.BoolVar(&f.topDown, "topdown", false, "draw the first row at the top")
	fs.BoolVar(&f.caption, "caption", false, "print the region and iteration count on the image")
}

func (f *imageFlags) options() (plot.Options, error) {
	cm, err := plot.ColormapByName(f.colormap)
	if err != nil {
		return plot.Options{}, err
	}
	return plot.Options{Colormap: cm, TopDown: f.topDown, Width: f.width, Height: f.height}, nil
}

// computeCommand renders one grid and saves it as an image.
func computeCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("compute", flag.ExitOnError)
	var (
		grid  gridFlags
		strat strategyFlags
		img   imageFlags
	)
	kind := fs.String("strategy", "threaded", "sequential, vectorized, threaded or parallel")
	grid.register(fs, 800)
	strat.register(fs)
	img.register(fs, "mandel.png", "hot")
	fs.Parse(args)
	if err := noArgs(fs); err != nil {
		return err
	}

	k, err := strategy.ParseKind(*kind)
	if err != nil {
		return err
	}
	region, params, err := grid.resolve()
	if err != nil {
		return err
	}
	cfg, err := strat.config()
	if err != nil {
		return err
	}
	opts, err := img.options()
	if err != nil {
		return err
	}
	re, im, err := region.Axes(grid.detail)
	if err != nil {
		return err
	}

	log.Printf("computing %dx%d grid of %s with the %s strategy", grid.detail, grid.detail, grid.region, k)
	g, err := strategy.Run(ctx, k, strategy.Request{Real: re, Imag: im, Params: params, Config: cfg}, strat.hook())
	if err != nil {
		return err
	}

	if img.caption {
		opts.Caption = plot.Caption(region, params)
	}
	log.Printf("saving rendered image to %q", img.output)
	if err := plot.SaveFile(img.output, plot.Render(g, opts)); err != nil {
		return err
	}
	log.Printf("rendered image saved to %q", img.output)
	return nil
}

// traceCommand renders the magnitude of every cell's final iterate.
func traceCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("trace", flag.ExitOnError)
	var (
		grid gridFlags
		img  imageFlags
	)
	threads := fs.Int("threads", strategy.DefaultConfig().Threads, "goroutines")
	grid.register(fs, 800)
	img.register(fs, "trace.png", "hot")
	fs.Parse(args)
	if err := noArgs(fs); err != nil {
		return err
	}

	region, params, err := grid.resolve()
	if err != nil {
		return err
	}
	opts, err := img.options()
	if err != nil {
		return err
	}
	re, im, err := region.Axes(grid.detail)
	if err != nil {
		return err
	}

	tg, err := render.ComputeTraced(ctx, re, im, params, *threads)
	if err != nil {
		return fmt.Errorf("render.ComputeTraced: %w", err)
	}
	if img.caption {
		opts.Caption = plot.Caption(region, params)
	}
	if err := plot.SaveFile(img.output, plot.RenderTrace(tg, opts)); err != nil {
		return err
	}
	log.Printf("trace image saved to %q", img.output)
	return nil
}
