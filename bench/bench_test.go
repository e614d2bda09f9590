package bench

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"

	mandel "github.com/marben/mandelgrid"
	"github.com/marben/mandelgrid/pool"
	"github.com/marben/mandelgrid/strategy"
)

type countingHook struct {
	runs map[string]int
}

func (h *countingHook) StrategyStarted(name string, rows, cols int) {
	h.runs[name]++
}

func (h *countingHook) StrategyFinished(string, time.Duration, error) {}

func testConfig() Config {
	cfg := DefaultConfig(16)
	cfg.Runs = 2
	cfg.Strategy = strategy.Config{
		Threads: 2,
		Workers: 1,
		Mode:    pool.Asynchronous,
		PoolOptions: []pool.Option{
			pool.WithSpawner(pool.GoroutineSpawner{}),
			pool.WithLogger(log.New(io.Discard, "", 0)),
		},
	}
	return cfg
}

func TestRun(t *testing.T) {
	cfg := testConfig()
	hook := &countingHook{runs: map[string]int{}}
	cfg.Hook = hook

	res, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Detail != 16 || res.Region != mandel.Classic {
		t.Errorf("results describe detail %d region %v", res.Detail, res.Region)
	}
	if len(res.Entries) != len(strategy.Kinds) {
		t.Fatalf("%d entries, want %d", len(res.Entries), len(strategy.Kinds))
	}
	for i, e := range res.Entries {
		if e.Strategy != strategy.Kinds[i].String() {
			t.Errorf("entry %d is %s, want %s", i, e.Strategy, strategy.Kinds[i])
		}
		if e.Runs != 2 || e.Best <= 0 || e.Best > e.Mean || e.Total < e.Mean {
			t.Errorf("%s: implausible timing %+v", e.Strategy, e)
		}
		// one warm-up plus the timed runs
		if n := hook.runs[e.Strategy]; n != 3 {
			t.Errorf("%s ran %d times, want 3", e.Strategy, n)
		}
	}

	last := res.Entries[len(res.Entries)-1]
	if last.Workers != 1 || last.Mode != "async" {
		t.Errorf("parallel entry = %+v", last)
	}
	if res.Entries[2].Threads != 2 {
		t.Errorf("threaded entry = %+v", res.Entries[2])
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{name: "negative runs", modify: func(c *Config) { c.Runs = -1 }},
		{name: "zero detail", modify: func(c *Config) { c.Detail = 0 }},
		{name: "zero threads", modify: func(c *Config) {
			c.Kinds = []strategy.Kind{strategy.Threaded}
			c.Strategy.Threads = 0
		}},
		{name: "too many workers", modify: func(c *Config) {
			c.Kinds = []strategy.Kind{strategy.ProcessParallel}
			c.Strategy.Workers = mandel.HardwareConcurrency() + 1
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(&cfg)
			if _, err := Run(context.Background(), cfg); !errors.Is(err, mandel.ErrConfiguration) {
				t.Errorf("error = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestSweep(t *testing.T) {
	res, err := Sweep(context.Background(), testConfig(), 1)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("%d entries, want 2", len(res.Entries))
	}
	for i, mode := range []string{"sync", "async"} {
		e := res.Entries[i]
		if e.Strategy != "parallel" || e.Mode != mode || e.Workers != 1 {
			t.Errorf("entry %d = %+v", i, e)
		}
	}
}

func sampleResults() Results {
	return Results{
		Detail: 100,
		Region: mandel.Classic,
		Params: mandel.DefaultParams(),
		Entries: []Result{
			{Strategy: "sequential", Runs: 3, Best: 1500 * time.Millisecond, Mean: 2 * time.Second, Total: 6 * time.Second},
			{Strategy: "parallel", Mode: "sync", Workers: 4, Runs: 3, Best: 250 * time.Millisecond, Mean: 300 * time.Millisecond, Total: 900 * time.Millisecond},
		},
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleResults().WriteText(&buf, language.English); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"detail 100", "sequential", "1,500.000", "parallel", "sync", "250.000"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines != 4 {
		t.Errorf("report has %d lines, want 4", lines)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleResults().WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	recs, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse CSV: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("%d records, want 3", len(recs))
	}
	want := []string{"parallel", "sync", "4", "0", "100", "3", "0.250000", "0.300000", "0.900000"}
	for i, v := range want {
		if recs[2][i] != v {
			t.Errorf("field %s = %q, want %q", recs[0][i], recs[2][i], v)
		}
	}
}
