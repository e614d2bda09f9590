package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"github.com/marben/mandelgrid/pool"
	"github.com/marben/mandelgrid/render"
)

// workerCommand connects to a pool by URL, for running workers by hand.
func workerCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("worker", flag.ExitOnError)
	var (
		url       = fs.String("url", "", "websocket URL of the pool, including the worker query")
		id        = fs.Int("id", 0, "worker id, as in the URL")
		readLimit = fs.Int64("read-limit", pool.DefaultReadLimit, "largest websocket message accepted from the pool")
		verbose   = fs.Bool("v", false, "log every rendered row")
	)
	fs.Parse(args)
	if err := noArgs(fs); err != nil {
		return err
	}
	if *url == "" {
		return errors.New("worker: -url is required")
	}

	renderer := render.RendererImpl{}
	if *verbose {
		renderer.OnRowRender = func(row int) { log.Printf("rendering row %d", row) }
	}
	log.Printf("connecting to %s", *url)
	w := pool.Worker{ID: *id, URL: *url, ReadLimit: *readLimit}
	if err := pool.ServeWorker(ctx, w, renderer); err != nil {
		return err
	}
	log.Printf("released by the pool")
	return nil
}
