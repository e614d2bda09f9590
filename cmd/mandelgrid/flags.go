package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"strings"

	mandel "github.com/marben/mandelgrid"
	"github.com/marben/mandelgrid/pool"
	"github.com/marben/mandelgrid/strategy"
)

// gridFlags select what is computed.
type gridFlags struct {
	region    string
	detail    int
	iter      int
	threshold float64
}

func (g *gridFlags) register(fs *flag.FlagSet, detail int) {
	fs.StringVar(&g.region, "region", "classic", "region name: "+strings.Join(mandel.RegionNames(), ", "))
	fs.IntVar(&g.detail, "detail", detail, "samples along each axis")
	fs.IntVar(&g.iter, "iter", mandel.DefaultMaxIterations, "maximum iterations")
	fs.Float64Var(&g.threshold, "threshold", mandel.DefaultThreshold, "escape threshold on |z|")
}

func (g *gridFlags) resolve() (mandel.Region, mandel.Params, error) {
	r, ok := mandel.RegionByName(g.region)
	if !ok {
		return r, mandel.Params{}, &mandel.ConfigurationError{Field: "region", Value: g.region, Reason: "unknown region"}
	}
	p := mandel.Params{MaxIterations: g.iter, Threshold: g.threshold}
	return r, p, p.Validate()
}

// strategyFlags configure the concurrent strategies.
type strategyFlags struct {
	threads int
	workers int
	mode    string
	verbose bool
}

func (s *strategyFlags) register(fs *flag.FlagSet) {
	def := strategy.DefaultConfig()
	fs.IntVar(&s.threads, "threads", def.Threads, "goroutines of the threaded strategy")
	fs.IntVar(&s.workers, "workers", def.Workers, "worker processes of the parallel strategy")
	fs.StringVar(&s.mode, "mode", def.Mode.String(), "parallel dispatch mode: sync or async")
	fs.BoolVar(&s.verbose, "v", false, "log strategy and pool lifecycle")
}

func (s *strategyFlags) config() (strategy.Config, error) {
	mode, err := pool.ParseMode(s.mode)
	if err != nil {
		return strategy.Config{}, err
	}
	logger := log.New(io.Discard, "", 0)
	if s.verbose {
		logger = log.Default()
	}
	return strategy.Config{
		Threads:     s.threads,
		Workers:     s.workers,
		Mode:        mode,
		PoolOptions: []pool.Option{pool.WithLogger(logger)},
	}, nil
}

func (s *strategyFlags) hook() mandel.Hook {
	if s.verbose {
		return strategy.LogHook{}
	}
	return mandel.NopHook{}
}

// parseKinds parses a comma separated strategy list; "all" or "" selects every strategy.
func parseKinds(list string) ([]strategy.Kind, error) {
	if list == "" || list == "all" {
		return strategy.Kinds, nil
	}
	var kinds []strategy.Kind
	for _, name := range strings.Split(list, ",") {
		k, err := strategy.ParseKind(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func noArgs(fs *flag.FlagSet) error {
	if fs.NArg() > 0 {
		return fmt.Errorf("%s: unexpected arguments %q", fs.Name(), fs.Args())
	}
	return nil
}
