package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/marben/mandelgrid/dataset"
	"github.com/marben/mandelgrid/strategy"
)

// referenceCommand computes the reference grid sequentially and stores it.
func referenceCommand(args []string) error {
	fs := flag.NewFlagSet("reference", flag.ExitOnError)
	var grid gridFlags
	var (
		name   = fs.String("name", dataset.DefaultName, "table name")
		output = fs.String("o", "", "output file (default "+dataset.DefaultFileName(dataset.DefaultDetail)+" for the default detail)")
	)
	grid.register(fs, dataset.DefaultDetail)
	fs.Parse(args)
	if err := noArgs(fs); err != nil {
		return err
	}

	region, params, err := grid.resolve()
	if err != nil {
		return err
	}
	path := *output
	if path == "" {
		path = dataset.DefaultFileName(grid.detail)
	}

	t, err := dataset.Generate(*name, region, grid.detail, params)
	if err != nil {
		return err
	}
	if err := dataset.WriteFile(path, t); err != nil {
		return err
	}
	log.Printf("reference %q (%dx%d) saved to %q", t.Name, t.Rows, t.Cols, path)
	return nil
}

// verifyCommand recomputes the reference grid with each strategy and compares.
func verifyCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	var strat strategyFlags
	var (
		ref   = fs.String("ref", dataset.DefaultFileName(dataset.DefaultDetail), "reference dataset")
		tol   = fs.Float64("tol", 0, "largest accepted absolute difference per cell")
		kinds = fs.String("strategies", "all", "comma separated strategies to check")
	)
	strat.register(fs)
	fs.Parse(args)
	if err := noArgs(fs); err != nil {
		return err
	}

	t, err := dataset.ReadFile(*ref)
	if err != nil {
		return err
	}
	cfg, err := strat.config()
	if err != nil {
		return err
	}
	ks, err := parseKinds(*kinds)
	if err != nil {
		return err
	}
	re, im, err := t.Axes()
	if err != nil {
		return err
	}

	failed := 0
	for _, k := range ks {
		g, err := strategy.Run(ctx, k, strategy.Request{Real: re, Imag: im, Params: t.Params, Config: cfg}, strat.hook())
		if err == nil {
			err = t.Verify(g, *tol)
		}
		if err != nil {
			log.Printf("FAIL %s: %v", k, err)
			failed++
			continue
		}
		log.Printf("ok   %s", k)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d strategies disagree with %q", failed, len(ks), *ref)
	}
	return nil
}
