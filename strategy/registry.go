// Package strategy maps strategy identifiers to implementations and runs them
// behind an instrumentation hook.
package strategy

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	mandel "github.com/marben/mandelgrid"
	"github.com/marben/mandelgrid/pool"
	"github.com/marben/mandelgrid/render"
)

// Kind identifies one way of filling a grid.
type Kind int

const (
	Sequential Kind = iota
	Vectorized
	Threaded
	ProcessParallel
)

// Kinds lists every strategy in registry order.
var Kinds = []Kind{Sequential, Vectorized, Threaded, ProcessParallel}

func (k Kind) String() string {
	switch k {
	case Sequential:
		return "sequential"
	case Vectorized:
		return "vectorized"
	case Threaded:
		return "threaded"
	case ProcessParallel:
		return "parallel"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, &mandel.ConfigurationError{Field: "strategy", Value: s, Reason: "unknown strategy"}
}

// Config carries the knobs of the concurrent strategies.
type Config struct {
	Threads     int
	Workers     int
	Mode        pool.Mode
	PoolOptions []pool.Option
}

// DefaultConfig uses every available CPU and asynchronous dispatch.
func DefaultConfig() Config {
	hw := mandel.HardwareConcurrency()
	return Config{Threads: hw, Workers: hw, Mode: pool.Asynchronous}
}

// Registry resolves a Kind to a ready to run Strategy.
type Registry map[Kind]func(Config) mandel.Strategy

// Default is the registry of the four built in strategies.
var Default = Registry{
	Sequential: func(Config) mandel.Strategy { return render.Sequential{} },
	Vectorized: func(Config) mandel.Strategy { return render.Vectorized{} },
	Threaded: func(c Config) mandel.Strategy {
		return render.Threaded{Threads: c.Threads}
	},
	ProcessParallel: func(c Config) mandel.Strategy {
		return pool.Parallel{Workers: c.Workers, Mode: c.Mode, Options: c.PoolOptions}
	},
}

func (r Registry) Lookup(k Kind, c Config) (mandel.Strategy, error) {
	build, ok := r[k]
	if !ok {
		return nil, &mandel.ConfigurationError{Field: "strategy", Value: k, Reason: "not registered"}
	}
	return build(c), nil
}

// Request is one grid computation.
type Request struct {
	Real, Imag []float64
	Params     mandel.Params
	Config     Config
}

// Run resolves k in r and computes the grid, calling hook before and after.
// A nil hook is replaced by mandel.NopHook.
func (r Registry) Run(ctx context.Context, k Kind, req Request, hook mandel.Hook) (*mandel.Grid, error) {
	if hook == nil {
		hook = mandel.NopHook{}
	}
	s, err := r.Lookup(k, req.Config)
	if err != nil {
		return nil, err
	}

	name := k.String()
	hook.StrategyStarted(name, len(req.Imag), len(req.Real))
	start := time.Now()
	g, err := s.Compute(ctx, req.Real, req.Imag, req.Params)
	hook.StrategyFinished(name, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return g, nil
}

// Run uses the Default registry.
func Run(ctx context.Context, k Kind, req Request, hook mandel.Hook) (*mandel.Grid, error) {
	return Default.Run(ctx, k, req, hook)
}

// LogHook logs strategy start and completion with the standard logger.
type LogHook struct {
	Logger *log.Logger
}

func (h LogHook) logger() *log.Logger {
	if h.Logger == nil {
		return log.Default()
	}
	return h.Logger
}

func (h LogHook) StrategyStarted(name string, rows, cols int) {
	h.logger().Printf("%s: computing %dx%d grid", name, rows, cols)
}

func (h LogHook) StrategyFinished(name string, elapsed time.Duration, err error) {
	if err != nil {
		h.logger().Printf("%s: failed after %s: %v", name, elapsed, err)
		return
	}
	h.logger().Printf("%s: done in %s", name, elapsed)
}

var _ mandel.Hook = LogHook{}
