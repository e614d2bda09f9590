// Package bench times grid strategies.
//
// Every strategy is run once to warm up and then Runs more times under the
// clock. Timings are returned as a Results value; nothing is accumulated
// globally and writing reports is left to the caller.
package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	mandel "github.com/marben/mandelgrid"
	"github.com/marben/mandelgrid/pool"
	"github.com/marben/mandelgrid/strategy"
)

const DefaultRuns = 5

type Config struct {
	// Kinds defaults to every registered strategy.
	Kinds    []strategy.Kind
	Region   mandel.Region
	Detail   int
	Params   mandel.Params
	Runs     int
	Strategy strategy.Config
	// Registry defaults to strategy.Default.
	Registry strategy.Registry
	// Hook observes every run, warm-up included.
	Hook mandel.Hook
}

// DefaultConfig benchmarks all strategies on the classic window.
func DefaultConfig(detail int) Config {
	return Config{
		Kinds:    strategy.Kinds,
		Region:   mandel.Classic,
		Detail:   detail,
		Params:   mandel.DefaultParams(),
		Runs:     DefaultRuns,
		Strategy: strategy.DefaultConfig(),
	}
}

// Result is the timing of one strategy configuration.
type Result struct {
	Strategy string
	Mode     string
	Workers  int
	Threads  int
	Runs     int
	Best     time.Duration
	Mean     time.Duration
	Total    time.Duration
}

type Results struct {
	Detail  int
	Region  mandel.Region
	Params  mandel.Params
	Entries []Result
}

// Run benchmarks every kind in cfg.Kinds in order.
func Run(ctx context.Context, cfg Config) (Results, error) {
	cfg, err := withDefaults(cfg)
	if err != nil {
		return Results{}, err
	}
	re, im, err := cfg.Region.Axes(cfg.Detail)
	if err != nil {
		return Results{}, err
	}

	res := Results{Detail: cfg.Detail, Region: cfg.Region, Params: cfg.Params}
	for _, k := range cfg.Kinds {
		r, err := measure(ctx, cfg, k, strategy.Request{Real: re, Imag: im, Params: cfg.Params, Config: cfg.Strategy})
		if err != nil {
			return res, err
		}
		res.Entries = append(res.Entries, r)
	}
	return res, nil
}

// Sweep benchmarks the process-parallel strategy for every worker count from
// 1 to maxWorkers in both dispatch modes. A non-positive maxWorkers means the
// hardware concurrency.
func Sweep(ctx context.Context, cfg Config, maxWorkers int) (Results, error) {
	if maxWorkers <= 0 {
		maxWorkers = mandel.HardwareConcurrency()
	}
	cfg.Kinds = []strategy.Kind{strategy.ProcessParallel}

	var all Results
	for w := 1; w <= maxWorkers; w++ {
		for _, mode := range []pool.Mode{pool.Synchronous, pool.Asynchronous} {
			cfg.Strategy.Workers, cfg.Strategy.Mode = w, mode
			res, err := Run(ctx, cfg)
			if err != nil {
				return all, fmt.Errorf("%d workers %s: %w", w, mode, err)
			}
			all.Detail, all.Region, all.Params = res.Detail, res.Region, res.Params
			all.Entries = append(all.Entries, res.Entries...)
		}
	}
	return all, nil
}

func withDefaults(cfg Config) (Config, error) {
	if cfg.Runs == 0 {
		cfg.Runs = DefaultRuns
	}
	if cfg.Runs < 0 {
		return cfg, &mandel.ConfigurationError{Field: "runs", Value: cfg.Runs, Reason: "must be positive"}
	}
	if len(cfg.Kinds) == 0 {
		cfg.Kinds = strategy.Kinds
	}
	if cfg.Registry == nil {
		cfg.Registry = strategy.Default
	}
	if cfg.Hook == nil {
		cfg.Hook = mandel.NopHook{}
	}
	return cfg, nil
}

func measure(ctx context.Context, cfg Config, k strategy.Kind, req strategy.Request) (Result, error) {
	r := Result{Strategy: k.String(), Runs: cfg.Runs}
	switch k {
	case strategy.Threaded:
		r.Threads = req.Config.Threads
	case strategy.ProcessParallel:
		r.Workers = req.Config.Workers
		r.Mode = req.Config.Mode.String()
	}

	// warm-up
	if _, err := cfg.Registry.Run(ctx, k, req, cfg.Hook); err != nil {
		return r, err
	}
	for i := 0; i < cfg.Runs; i++ {
		start := time.Now()
		if _, err := cfg.Registry.Run(ctx, k, req, cfg.Hook); err != nil {
			return r, err
		}
		d := time.Since(start)
		r.Total += d
		if i == 0 || d < r.Best {
			r.Best = d
		}
	}
	r.Mean = r.Total / time.Duration(cfg.Runs)
	return r, nil
}

// WriteText writes a human readable table with numbers formatted for lang.
func (r Results) WriteText(w io.Writer, lang language.Tag) error {
	p := message.NewPrinter(lang)
	if _, err := p.Fprintf(w, "detail %d, %d iterations, region re [%g, %g] im [%g, %g]\n",
		r.Detail, r.Params.MaxIterations, r.Region.Xmin, r.Region.Xmax, r.Region.Ymin, r.Region.Ymax); err != nil {
		return err
	}
	if _, err := p.Fprintf(w, "%-12s %-6s %7s %7s %5s %12s %12s\n", "strategy", "mode", "workers", "threads", "runs", "best ms", "mean ms"); err != nil {
		return err
	}
	for _, e := range r.Entries {
		if _, err := p.Fprintf(w, "%-12s %-6s %7d %7d %5d %12.3f %12.3f\n",
			e.Strategy, orDash(e.Mode), e.Workers, e.Threads, e.Runs, millis(e.Best), millis(e.Mean)); err != nil {
			return err
		}
	}
	return nil
}

var csvHeader = []string{"strategy", "mode", "workers", "threads", "detail", "runs", "best_seconds", "mean_seconds", "total_seconds"}

// WriteCSV writes one record per entry after a header record.
func (r Results) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range r.Entries {
		rec := []string{
			e.Strategy,
			e.Mode,
			strconv.Itoa(e.Workers),
			strconv.Itoa(e.Threads),
			strconv.Itoa(r.Detail),
			strconv.Itoa(e.Runs),
			seconds(e.Best),
			seconds(e.Mean),
			seconds(e.Total),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 6, 64)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
