package pool

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strconv"

	mandel "github.com/marben/mandelgrid"
	"github.com/marben/mandelgrid/render"
)

const (
	// WorkerURLEnv tells a re-executed binary which pool endpoint to dial.
	WorkerURLEnv = "MANDELGRID_WORKER_URL"
	// WorkerIDEnv carries the worker index assigned by the pool.
	WorkerIDEnv = "MANDELGRID_WORKER_ID"
	// WorkerReadLimitEnv carries the pool's websocket read limit.
	WorkerReadLimitEnv = "MANDELGRID_WORKER_READ_LIMIT"
)

// Process is a started worker.
type Process interface {
	Wait() error
	Kill() error
}

// Spawner starts worker w.
type Spawner interface {
	Spawn(ctx context.Context, w Worker) (Process, error)
}

// environ returns the variables workerFromEnv reads w back from.
func (w Worker) environ() []string {
	return []string{
		WorkerURLEnv + "=" + w.URL,
		WorkerIDEnv + "=" + strconv.Itoa(w.ID),
		WorkerReadLimitEnv + "=" + strconv.FormatInt(w.ReadLimit, 10),
	}
}

// workerFromEnv reads the Worker set up by ExecSpawner. ok is false when the
// process was not started as a worker.
func workerFromEnv() (w Worker, ok bool, err error) {
	w.URL = os.Getenv(WorkerURLEnv)
	if w.URL == "" {
		return Worker{}, false, nil
	}
	if s := os.Getenv(WorkerIDEnv); s != "" {
		if w.ID, err = strconv.Atoi(s); err != nil {
			return w, true, fmt.Errorf("%s: %w", WorkerIDEnv, err)
		}
	}
	if s := os.Getenv(WorkerReadLimitEnv); s != "" {
		if w.ReadLimit, err = strconv.ParseInt(s, 10, 64); err != nil {
			return w, true, fmt.Errorf("%s: %w", WorkerReadLimitEnv, err)
		}
	}
	return w, true, nil
}

// ExecSpawner starts each worker as a separate operating system process.
// The executable must call MaybeRunWorker (or handle WorkerURLEnv itself) before
// doing anything else. An empty Path re-executes the current binary.
type ExecSpawner struct {
	Path   string
	Args   []string
	Env    []string
	Stderr io.Writer
}

func (s ExecSpawner) Spawn(_ context.Context, w Worker) (Process, error) {
	path := s.Path
	if path == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("os.Executable: %w", err)
		}
		path = exe
	}

	cmd := exec.Command(path, s.Args...)
	cmd.Env = append(os.Environ(), s.Env...)
	cmd.Env = append(cmd.Env, w.environ()...)
	cmd.Stderr = s.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start worker %d: %w", w.ID, err)
	}
	return execProcess{cmd: cmd}, nil
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p execProcess) Wait() error {
	return p.cmd.Wait()
}

func (p execProcess) Kill() error {
	return p.cmd.Process.Kill()
}

// GoroutineSpawner runs workers inside the current process. They still serve
// the pool over irpc on a websocket, so the orchestrator code path is the same
// as with ExecSpawner.
type GoroutineSpawner struct {
	// Renderer defaults to render.RendererImpl.
	Renderer mandel.RowRenderer
}

func (s GoroutineSpawner) Spawn(_ context.Context, w Worker) (Process, error) {
	renderer := s.Renderer
	if renderer == nil {
		renderer = render.RendererImpl{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	gp := &goroutineProcess{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(gp.done)
		gp.err = ServeWorker(ctx, w, renderer)
	}()
	return gp, nil
}

type goroutineProcess struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

func (p *goroutineProcess) Wait() error {
	<-p.done
	return p.err
}

func (p *goroutineProcess) Kill() error {
	p.cancel()
	return nil
}

// MaybeRunWorker turns the current process into a pool worker when it was
// started by ExecSpawner, and exits once the pool releases it. It returns
// immediately in any other process. Call it first thing in main (or TestMain).
func MaybeRunWorker() {
	MaybeRunWorkerWith(render.RendererImpl{})
}

// MaybeRunWorkerWith is MaybeRunWorker with a custom row renderer.
func MaybeRunWorkerWith(renderer mandel.RowRenderer) {
	w, ok, err := workerFromEnv()
	if !ok {
		return
	}
	log.SetPrefix(fmt.Sprintf("worker %d: ", w.ID))
	if err != nil {
		log.Fatalf("environment: %v", err)
	}
	if err := ServeWorker(context.Background(), w, renderer); err != nil {
		log.Fatalf("serve: %v", err)
	}
	os.Exit(0)
}
