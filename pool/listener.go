package pool

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
)

// webServer serves the /ws endpoint workers dial back to.
// Accepted connections are handed to the returned wsListener.
func webServer(ln net.Listener, readLimit int64, logger *log.Logger) (*wsListener, *http.Server) {
	l := newWSListener(ln.Addr(), readLimit, logger)
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", websocketHandler(l))

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          logger,
	}
	return l, srv
}

// websocketHandler handles the http ws endpoint
// if websocket is successfully initialized it is passed to wsListener so it can be accepted
func websocketHandler(l *wsListener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.URL.Query().Get("worker"))
		if err != nil {
			l.logger.Printf("pool: rejecting connection from %s: missing worker id", r.RemoteAddr)
			http.Error(w, "missing worker id", http.StatusBadRequest)
			return
		}
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			l.logger.Printf("pool: accept worker %d: %v", id, err)
			return
		}

		select {
		case l.ch <- acceptedConn{id: id, conn: c}:
		case <-l.ctx.Done():
			c.Close(websocket.StatusGoingAway, "pool closed")
		}
	}
}

type acceptedConn struct {
	id   int
	conn *websocket.Conn
}

// wsListener implements net.Listener over websocket connections accepted by
// the http server, so that irpc can serve them.
type wsListener struct {
	ch        chan acceptedConn
	ctx       context.Context
	cancel    context.CancelFunc
	addr      net.Addr
	readLimit int64
	logger    *log.Logger
}

var _ net.Listener = &wsListener{}

func newWSListener(addr net.Addr, readLimit int64, logger *log.Logger) *wsListener {
	ctx, cancel := context.WithCancel(context.Background())
	return &wsListener{
		ch:        make(chan acceptedConn),
		ctx:       ctx,
		cancel:    cancel,
		addr:      addr,
		readLimit: readLimit,
		logger:    logger,
	}
}

// Accept returns the next worker connection. Its RemoteAddr is a workerAddr
// carrying the id the worker dialed with.
func (l *wsListener) Accept() (net.Conn, error) {
	select {
	case ac := <-l.ch:
		nc := websocket.NetConn(l.ctx, ac.conn, websocket.MessageBinary)
		// NetConn lifts the limit
		ac.conn.SetReadLimit(l.readLimit)
		return workerConn{Conn: nc, id: ac.id}, nil
	case <-l.ctx.Done():
		return nil, net.ErrClosed
	}
}

func (l *wsListener) Addr() net.Addr {
	return wsAddr{l.addr.String()}
}

func (l *wsListener) Close() error {
	l.cancel()
	return nil
}

// workerURL is the address worker id dials.
func (l *wsListener) workerURL(id int) string {
	return fmt.Sprintf("ws://%s/ws?worker=%d", l.addr, id)
}

type wsAddr struct {
	addr string
}

func (a wsAddr) Network() string { return "ws" }
func (a wsAddr) String() string  { return a.addr }

// workerAddr identifies a connected worker by the id the pool spawned it with.
type workerAddr struct {
	id int
}

func (a workerAddr) Network() string { return "ws" }
func (a workerAddr) String() string  { return "worker " + strconv.Itoa(a.id) }

type workerConn struct {
	net.Conn
	id int
}

func (c workerConn) RemoteAddr() net.Addr {
	return workerAddr{id: c.id}
}
