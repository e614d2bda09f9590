package pool

import (
	"context"
	"errors"
	"fmt"

	"github.com/coder/websocket"
	"github.com/marben/irpc"

	mandel "github.com/marben/mandelgrid"
)

// DefaultReadLimit bounds a single websocket message.
const DefaultReadLimit = 64 << 20

// Worker is what a spawned worker needs to connect back to its pool.
type Worker struct {
	ID  int
	URL string
	// ReadLimit bounds a single websocket message. Zero means DefaultReadLimit.
	ReadLimit int64
}

func (w Worker) readLimit() int64 {
	if w.ReadLimit <= 0 {
		return DefaultReadLimit
	}
	return w.ReadLimit
}

// ServeWorker dials the pool at w.URL and serves renderer as the RowRenderer
// irpc service until the pool closes the connection. A close by the pool or
// by ctx returns nil.
func ServeWorker(ctx context.Context, w Worker, renderer mandel.RowRenderer) error {
	c, _, err := websocket.Dial(ctx, w.URL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", w.URL, err)
	}
	conn := websocket.NetConn(ctx, c, websocket.MessageBinary)
	// NetConn lifts the limit
	c.SetReadLimit(w.readLimit())

	ep := irpc.NewEndpoint(conn, irpc.WithEndpointServices(mandel.NewRowRendererIrpcService(renderer)))
	select {
	case <-ep.Context().Done():
	case <-ctx.Done():
		ep.Close()
		return nil
	}
	if ctx.Err() != nil {
		return nil
	}
	if err := context.Cause(ep.Context()); !errors.Is(err, irpc.ErrEndpointClosedByCounterpart) {
		return fmt.Errorf("worker %d: %w", w.ID, err)
	}
	return nil
}
