// Package mirror serves a read-only live view of a session: the current
// snapshot as JSON, a WebSocket stream of snapshots and Prometheus metrics.
package mirror

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gorilla/websocket"

	"github.com/smykla-skalski/codemate/internal/session"
	"github.com/smykla-skalski/codemate/pkg/logger"
)

const (
	pingInterval    = 30 * time.Second
	readDeadline    = 60 * time.Second
	writeDeadline   = 10 * time.Second
	sendBuffer      = 16
	shutdownTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	// Loopback-only viewer
	CheckOrigin: func(*http.Request) bool { return true },
}

// Server mirrors a session store to HTTP clients.
type Server struct {
	store   *session.Store
	metrics http.Handler
	logger  logger.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool

	unsubscribe func()
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// New creates a server and subscribes it to store.
func New(store *session.Store, opts ...Option) *Server {
	s := &Server{
		store:   store,
		logger:  logger.NewNoOpLogger(),
		clients: make(map[*client]struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.unsubscribe = store.Subscribe(s.broadcast)

	return s
}

// Handler returns the routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}

	return mux
}

// Serve listens on addr until ctx is done.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", addr)
	}

	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is done.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: writeDeadline,
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.Info("mirror listening", "address", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return errors.Wrap(err, "mirror server failed")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	// Hijacked WebSocket connections are not tracked by Shutdown
	s.Close()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "failed to shut down mirror server")
	}

	return nil
}

// Close unsubscribes from the store and disconnects every client.
func (s *Server) Close() {
	s.unsubscribe()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	for c := range s.clients {
		delete(s.clients, c)
		close(c.send)
	}
}

// Clients returns the number of connected WebSocket clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.clients)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(s.store.Snapshot()); err != nil {
		s.logger.Error("failed to write snapshot", "error", err.Error())
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Info("websocket upgrade failed", "error", err.Error())

		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	if !s.register(c) {
		_ = conn.Close()

		return
	}

	s.logger.Debug("mirror client connected", "remote", r.RemoteAddr)

	go s.writePump(c)
	go s.readPump(c)
}

// register adds c and queues the current snapshot for it. The snapshot is
// taken after c joined, so no change in between is missed. A change that
// raced ahead may arrive twice; clients skip seq values they already saw.
func (s *Server) register(c *client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	s.clients[c] = struct{}{}

	if data, err := json.Marshal(s.store.Snapshot()); err == nil {
		c.send <- data
	}

	return true
}

func (s *Server) broadcast(snap session.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		s.logger.Error("failed to encode snapshot", "error", err.Error())

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			s.logger.Debug("mirror client too slow, snapshot skipped", "seq", snap.Seq)
		}
	}
}

func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
}

// readPump discards client frames and notices disconnects.
func (s *Server) readPump(c *client) {
	defer func() {
		s.removeClient(c)
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read failed", "error", err.Error())
			}

			return
		}
	}
}

func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))

			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})

				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
