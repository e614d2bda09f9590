// Command mandelgrid computes Mandelbrot escape-time grids with interchangeable
// strategies, benchmarks them and checks them against a stored reference.
//
// Usage:
//
//	mandelgrid compute -strategy parallel -workers 4 -o mandel.png
//	mandelgrid bench -detail 500 -csv times.csv
//	mandelgrid reference -detail 100
//	mandelgrid verify -ref mandelbrot_100x100.mgt
//
// The process-parallel strategy re-executes this binary as its workers.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/marben/mandelgrid/pool"
)

func main() {
	// Worker processes never get past this line.
	pool.MaybeRunWorker()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	if err := run(os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func run(command string, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch command {
	case "compute":
		return computeCommand(ctx, args)
	case "trace":
		return traceCommand(ctx, args)
	case "bench":
		return benchCommand(ctx, args)
	case "reference":
		return referenceCommand(args)
	case "verify":
		return verifyCommand(ctx, args)
	case "worker":
		return workerCommand(ctx, args)
	case "help", "--help", "-h":
		printUsage()
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
	return nil
}

func printUsage() {
	fmt.Print(`mandelgrid - Mandelbrot escape-time grids

USAGE:
    mandelgrid <command> [arguments]

COMMANDS:
    compute      Compute a grid with one strategy and save it as an image
    trace        Compute the final iterate of every cell and save its magnitude
    bench        Time the strategies, or sweep worker counts
    reference    Write the reference dataset
    verify       Check strategies against the reference dataset
    worker       Serve rows for a pool running elsewhere
    help         Show this help message

STRATEGIES:
    sequential   one cell after another
    vectorized   lane-masked batches of cells
    threaded     rows spread over goroutines
    parallel     rows dispatched to worker processes (sync or async)

EXAMPLES:
    # Render the seahorse valley on four worker processes
    mandelgrid compute -region seahorse-valley -strategy parallel -workers 4 -o sea.png

    # Benchmark all strategies and export the timings
    mandelgrid bench -detail 500 -runs 3 -csv times.csv

    # Time the process pool with 1..8 workers in both modes
    mandelgrid bench -sweep 8

    # Store and check the reference grid
    mandelgrid reference
    mandelgrid verify -ref mandelbrot_100x100.mgt

Run 'mandelgrid <command> -h' for the flags of a command.
`)
}
