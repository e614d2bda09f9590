// Package pool computes escape-time grids on a fixed set of worker processes.
//
// A Pool has an explicit lifecycle: New validates the size, Start spawns the
// workers and waits for each of them to connect back over a websocket, Dispatch
// queues row tasks, Pending.Wait collects their results and Close shuts the
// workers down. Every worker serves the mandel.RowRenderer irpc service and
// shares no memory with the orchestrator; a task carries its imaginary value,
// the whole real axis and the parameters, and its result is matched to the
// Pending it was dispatched as.
package pool

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/marben/irpc"
	"golang.org/x/sync/errgroup"

	mandel "github.com/marben/mandelgrid"
)

// ErrClosed is the cause reported for tasks that were still queued when the pool closed.
var ErrClosed = errors.New("pool closed")

// Task is one grid row to compute.
type Task struct {
	Row    int
	Imag   float64
	Real   []float64
	Params mandel.Params
}

// Pending is a dispatched task whose result has not necessarily arrived yet.
type Pending struct {
	task   Task
	pool   *Pool
	done   chan struct{}
	values []float64
	err    error
}

func (pd *Pending) Row() int {
	return pd.task.Row
}

func (pd *Pending) finish(values []float64, err error) {
	pd.values, pd.err = values, err
	close(pd.done)
}

// Wait blocks until the task's row arrives, the pool fails or ctx is done.
func (pd *Pending) Wait(ctx context.Context) ([]float64, error) {
	select {
	case <-pd.done:
		return pd.values, pd.err
	case <-pd.pool.ctx.Done():
		select {
		case <-pd.done:
			return pd.values, pd.err
		default:
		}
		return nil, &mandel.DispatchError{Row: pd.task.Row, Worker: -1, Err: context.Cause(pd.pool.ctx)}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type Option func(*Pool)

// WithSpawner replaces the default ExecSpawner, which re-executes the current binary.
func WithSpawner(s Spawner) Option {
	return func(p *Pool) { p.spawner = s }
}

// WithStartTimeout bounds how long Start waits for all workers to connect.
func WithStartTimeout(d time.Duration) Option {
	return func(p *Pool) { p.startTimeout = d }
}

// WithReadLimit bounds the size of a single websocket message read by the
// pool and by its workers.
func WithReadLimit(n int64) Option {
	return func(p *Pool) { p.readLimit = n }
}

// WithLogger sets the logger used for pool lifecycle messages.
func WithLogger(l *log.Logger) Option {
	return func(p *Pool) { p.logger = l }
}

// Pool is a fixed-size set of worker processes.
type Pool struct {
	size         int
	spawner      Spawner
	startTimeout time.Duration
	reapTimeout  time.Duration
	readLimit    int64
	logger       *log.Logger

	ctx    context.Context
	cancel context.CancelCauseFunc

	ln        net.Listener
	srv       *http.Server
	wsl       *wsListener
	rpc       *irpc.Server
	connected chan *remoteWorker
	procs     []*spawned
	conns     []*remoteWorker
	serve     errgroup.Group

	// queued tasks, guarded by m; notify wakes idle connections
	queue   []*Pending
	notify  chan struct{}
	closed  bool
	workers int
	m       sync.Mutex
}

// remoteWorker is the irpc endpoint of one connected worker.
type remoteWorker struct {
	id       int
	ep       *irpc.Endpoint
	renderer mandel.RowRenderer
}

// New validates size against the available hardware concurrency and returns an
// unstarted pool. Nothing is spawned until Start.
func New(size int, opts ...Option) (*Pool, error) {
	if size <= 0 {
		return nil, &mandel.ConfigurationError{Field: "workerCount", Value: size, Reason: "must be positive"}
	}
	if hw := mandel.HardwareConcurrency(); size > hw {
		return nil, &mandel.ConfigurationError{
			Field:  "workerCount",
			Value:  size,
			Reason: fmt.Sprintf("exceeds available hardware concurrency %d", hw),
		}
	}

	p := &Pool{
		size:         size,
		spawner:      ExecSpawner{},
		startTimeout: 30 * time.Second,
		reapTimeout:  5 * time.Second,
		readLimit:    DefaultReadLimit,
		logger:       log.Default(),
		notify:       make(chan struct{}, size),
		connected:    make(chan *remoteWorker),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.ctx, p.cancel = context.WithCancelCause(context.Background())
	return p, nil
}

func (p *Pool) Size() int {
	return p.size
}

// Start spawns the workers and returns once every one of them has connected.
// On failure everything started so far is torn down.
func (p *Pool) Start(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			p.reapTimeout = 0
			p.Close()
		}
	}()

	p.ln, err = net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("net.Listen: %w", err)
	}
	p.wsl, p.srv = webServer(p.ln, p.readLimit, p.logger)
	go func() {
		if err := p.srv.Serve(p.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			p.logger.Printf("pool: http server: %v", err)
		}
	}()

	p.rpc = irpc.NewServer(irpc.WithOnConnect(p.onConnect))
	go func() {
		if err := p.rpc.Serve(p.wsl); !errors.Is(err, irpc.ErrServerClosed) {
			p.logger.Printf("pool: irpc server: %v", err)
		}
	}()

	exited := make(chan error, p.size)
	for id := 0; id < p.size; id++ {
		w := Worker{ID: id, URL: p.wsl.workerURL(id), ReadLimit: p.readLimit}
		proc, err := p.spawner.Spawn(ctx, w)
		if err != nil {
			return err
		}
		sp := watch(id, proc)
		p.procs = append(p.procs, sp)
		go func() {
			<-sp.exited
			exited <- fmt.Errorf("worker %d exited before connecting: %s", id, exitStatus(sp.err))
		}()
	}

	startCtx, cancel := context.WithTimeoutCause(ctx, p.startTimeout,
		fmt.Errorf("workers did not connect within %s", p.startTimeout))
	defer cancel()
	acceptCtx, stop := context.WithCancelCause(startCtx)
	defer stop(nil)
	go func() {
		select {
		case err := <-exited:
			stop(err)
		case <-acceptCtx.Done():
		}
	}()

	for len(p.conns) < p.size {
		select {
		case w := <-p.connected:
			p.logger.Printf("pool: worker %d connected", w.id)
			p.conns = append(p.conns, w)
		case <-acceptCtx.Done():
			return fmt.Errorf("waiting for workers: %w", context.Cause(acceptCtx))
		}
	}

	p.logger.Printf("pool: %d workers connected on %s", len(p.conns), p.wsl.Addr())
	for _, w := range p.conns {
		p.serve.Go(func() error {
			return p.serveConn(w)
		})
	}
	return nil
}

// onConnect runs for every endpoint the irpc server accepts and hands the
// worker's RowRenderer client to Start.
func (p *Pool) onConnect(ep *irpc.Endpoint) {
	addr, ok := ep.RemoteAddr().(workerAddr)
	if !ok {
		p.logger.Printf("pool: unexpected connection from %v", ep.RemoteAddr())
		ep.Close()
		return
	}
	client, err := mandel.NewRowRendererIrpcClient(ep)
	if err != nil {
		p.logger.Printf("pool: worker %d: %v", addr.id, err)
		ep.Close()
		return
	}

	select {
	case p.connected <- &remoteWorker{id: addr.id, ep: ep, renderer: client}:
	case <-p.ctx.Done():
		ep.Close()
	}
}

// Dispatch queues a task. It never blocks; the result is collected with Wait.
func (p *Pool) Dispatch(task Task) *Pending {
	pd := &Pending{task: task, pool: p, done: make(chan struct{})}

	p.m.Lock()
	defer p.m.Unlock()
	if p.closed {
		pd.finish(nil, &mandel.DispatchError{Row: task.Row, Worker: -1, Err: ErrClosed})
		return pd
	}
	p.queue = append(p.queue, pd)
	select {
	case p.notify <- struct{}{}:
	default:
	}
	return pd
}

// popTask takes the oldest queued task. done reports that the pool is closed
// and the queue drained.
func (p *Pool) popTask() (pd *Pending, done bool) {
	p.m.Lock()
	defer p.m.Unlock()
	if len(p.queue) > 0 {
		pd = p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		return pd, false
	}
	return nil, p.closed
}

// Workers returns the number of connections currently serving tasks.
func (p *Pool) Workers() int {
	p.m.Lock()
	defer p.m.Unlock()
	return p.workers
}

func (p *Pool) incActiveWorkers() {
	p.m.Lock()
	p.workers++
	p.m.Unlock()
}

func (p *Pool) decActiveWorkers() {
	p.m.Lock()
	p.workers--
	w := p.workers
	p.m.Unlock()

	if w == 0 {
		p.logger.Printf("pool: all workers released")
	}
}

// serveConn feeds queued tasks to one worker until the pool closes or a call
// fails. Any failure aborts the whole pool.
func (p *Pool) serveConn(w *remoteWorker) error {
	p.incActiveWorkers()
	defer p.decActiveWorkers()
	defer w.ep.Close()

	for {
		if p.ctx.Err() != nil {
			return nil
		}
		pd, done := p.popTask()
		if done {
			return nil
		}
		if pd == nil {
			select {
			case <-p.notify:
				continue
			case <-p.ctx.Done():
				return nil
			}
		}

		values, err := renderRow(w.renderer, pd.task)
		if err != nil {
			derr := &mandel.DispatchError{Row: pd.task.Row, Worker: w.id, Err: err}
			pd.finish(nil, derr)
			p.cancel(derr)
			return derr
		}
		pd.finish(values, nil)
	}
}

func renderRow(r mandel.RowRenderer, t Task) ([]float64, error) {
	values, err := r.RenderRow(t.Row, t.Imag, t.Real, t.Params)
	if err != nil {
		return nil, err
	}
	if len(values) != len(t.Real) {
		return nil, fmt.Errorf("worker returned %d values for %d columns", len(values), len(t.Real))
	}
	return values, nil
}

// Abort fails the pool: connections stop after their current task and every
// task not yet answered completes with a DispatchError carrying cause.
func (p *Pool) Abort(cause error) {
	p.cancel(cause)
}

// Close stops accepting tasks, lets the connections finish the tasks already
// queued, releases the workers and waits for their processes to exit. Tasks
// still queued after a failure are completed with a DispatchError.
func (p *Pool) Close() error {
	p.m.Lock()
	if p.closed {
		p.m.Unlock()
		return nil
	}
	p.closed = true
	close(p.notify)
	p.m.Unlock()

	serveErr := p.serve.Wait()

	// Anything left in the queue was never picked up because the pool failed.
	cause := context.Cause(p.ctx)
	if cause == nil {
		cause = ErrClosed
	}
	for {
		pd, _ := p.popTask()
		if pd == nil {
			break
		}
		pd.finish(nil, &mandel.DispatchError{Row: pd.task.Row, Worker: -1, Err: cause})
	}

	p.cancel(ErrClosed)
	if p.rpc != nil {
		// endpoints released by serveConn report their close cause here
		p.rpc.Close()
	}
	if p.srv != nil {
		p.srv.Close()
	}
	if p.wsl != nil {
		p.wsl.Close()
	}
	p.reap()
	return serveErr
}

// spawned tracks the single Wait call of a worker process.
type spawned struct {
	id     int
	proc   Process
	exited chan struct{}
	err    error
}

func watch(id int, proc Process) *spawned {
	sp := &spawned{id: id, proc: proc, exited: make(chan struct{})}
	go func() {
		sp.err = proc.Wait()
		close(sp.exited)
	}()
	return sp
}

func exitStatus(err error) string {
	if err == nil {
		return "exit status 0"
	}
	return err.Error()
}

// reap waits for the worker processes, killing those that do not exit in time.
func (p *Pool) reap() {
	timeout := time.After(p.reapTimeout)
	for _, sp := range p.procs {
		select {
		case <-sp.exited:
		case <-timeout:
			p.logger.Printf("pool: killing worker %d", sp.id)
			sp.proc.Kill()
			<-sp.exited
		}
	}
}
