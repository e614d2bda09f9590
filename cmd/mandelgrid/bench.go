package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/text/language"

	"github.com/marben/mandelgrid/bench"
)

// benchCommand times the strategies and prints a table. With -sweep it times
// the process pool over a range of worker counts instead.
func benchCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	var (
		grid  gridFlags
		strat strategyFlags
	)
	var (
		runs    = fs.Int("runs", bench.DefaultRuns, "timed runs per strategy, after one warm-up run")
		kinds   = fs.String("strategies", "all", "comma separated strategies to time")
		sweep   = fs.Int("sweep", 0, "time the parallel strategy with 1..N workers in both modes")
		csvPath = fs.String("csv", "", "also write the timings to this CSV file")
		lang    = fs.String("lang", "en", "language tag used to format the table")
	)
	grid.register(fs, 200)
	strat.register(fs)
	fs.Parse(args)
	if err := noArgs(fs); err != nil {
		return err
	}

	tag, err := language.Parse(*lang)
	if err != nil {
		return fmt.Errorf("invalid -lang: %w", err)
	}
	region, params, err := grid.resolve()
	if err != nil {
		return err
	}
	scfg, err := strat.config()
	if err != nil {
		return err
	}
	ks, err := parseKinds(*kinds)
	if err != nil {
		return err
	}

	cfg := bench.Config{
		Kinds:    ks,
		Region:   region,
		Detail:   grid.detail,
		Params:   params,
		Runs:     *runs,
		Strategy: scfg,
		Hook:     strat.hook(),
	}

	var res bench.Results
	if *sweep > 0 {
		log.Printf("sweeping 1..%d workers at detail %d", *sweep, grid.detail)
		res, err = bench.Sweep(ctx, cfg, *sweep)
	} else {
		log.Printf("timing %d strategies at detail %d", len(ks), grid.detail)
		res, err = bench.Run(ctx, cfg)
	}
	if err != nil {
		return err
	}

	if err := res.WriteText(os.Stdout, tag); err != nil {
		return err
	}
	if *csvPath == "" {
		return nil
	}

	f, err := os.Create(*csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	if err := res.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", *csvPath, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("timings saved to %q", *csvPath)
	return nil
}
