package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vk/gridrelax/internal/ctxlog"
	"github.com/vk/gridrelax/internal/engine"
)

// queueSize bounds the notifications waiting for the broadcaster.
const queueSize = 256

const writeTimeout = 2 * time.Second

// Message is one websocket frame on /progress.
type Message struct {
	Type     string           `json:"type"`
	Phase    string           `json:"phase,omitempty"`
	Progress *engine.Progress `json:"progress,omitempty"`
}

// Server is the progress monitor.
type Server struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader
	events   chan Message
	quit     chan struct{}
	pumped   chan struct{}
	dropped  atomic.Int64
	stopped  atomic.Bool

	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
	phase   string

	httpServer *http.Server
	listener   net.Listener
}

// New creates a monitor that logs through the logger carried by ctx.
func New(ctx context.Context) *Server {
	return &Server{
		logger: ctxlog.FromContext(ctx),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		events:  make(chan Message, queueSize),
		quit:    make(chan struct{}),
		pumped:  make(chan struct{}),
		clients: make(map[*websocket.Conn]*sync.Mutex),
		phase:   "IDLE",
	}
}

// Handler returns the monitor's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/progress", s.progressHandler)
	return mux
}

// Start listens on addr and serves in the background.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("monitor: listen on %s: %w", addr, err)
	}
	s.listener = ln
	s.httpServer = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}

	s.logger.Info("Monitor server starting.", "address", fmt.Sprintf("http://%s/health", ln.Addr()))
	go s.pump()
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Monitor server failed unexpectedly.", "error", err)
		}
	}()
	return nil
}

// Addr is the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Dropped is the number of notifications discarded because the queue was full.
func (s *Server) Dropped() int64 {
	return s.dropped.Load()
}

// PhaseChanged implements engine.Observer.
func (s *Server) PhaseChanged(p engine.Phase) {
	s.publish(Message{Type: "phase", Phase: p.String()})
}

// Generation implements engine.Observer.
func (s *Server) Generation(p engine.Progress) {
	s.publish(Message{Type: "progress", Progress: &p})
}

func (s *Server) publish(m Message) {
	select {
	case s.events <- m:
	default:
		s.dropped.Add(1)
	}
}

// Shutdown stops the HTTP server, flushes queued notifications to the
// connected clients, then disconnects them.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		s.logger.Debug("Monitor server was not running.")
		return nil
	}
	if !s.stopped.CompareAndSwap(false, true) {
		return nil
	}
	s.logger.Debug("Shutting down monitor server...")

	err := s.httpServer.Shutdown(ctx)
	close(s.quit)
	<-s.pumped

	s.mu.Lock()
	for conn := range s.clients {
		conn.Close()
		delete(s.clients, conn)
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("Monitor server shutdown failed.", "error", err)
		return err
	}
	s.logger.Debug("Monitor server shut down gracefully.", "dropped", s.Dropped())
	return nil
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (s *Server) progressHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("Websocket upgrade failed.", "remote_addr", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	connMu := &sync.Mutex{}
	s.mu.Lock()
	s.clients[conn] = connMu
	current := s.phase
	s.mu.Unlock()
	defer s.drop(conn)

	// A new client first sees the current phase.
	if err := s.send(conn, connMu, Message{Type: "phase", Phase: current}); err != nil {
		return
	}

	// The stream is one-way; reading only detects the client going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) pump() {
	defer close(s.pumped)
	for {
		select {
		case <-s.quit:
			// Deliver what the solver queued before shutdown, typically
			// the final generations and the DONE phase.
			for {
				select {
				case m := <-s.events:
					s.broadcast(m)
				default:
					return
				}
			}
		case m := <-s.events:
			s.broadcast(m)
		}
	}
}

func (s *Server) broadcast(m Message) {
	s.mu.Lock()
	if m.Type == "phase" {
		s.phase = m.Phase
	}
	s.mu.Unlock()

	s.mu.RLock()
	var failed []*websocket.Conn
	for conn, connMu := range s.clients {
		if err := s.send(conn, connMu, m); err != nil {
			failed = append(failed, conn)
		}
	}
	s.mu.RUnlock()

	for _, conn := range failed {
		s.drop(conn)
		conn.Close()
	}
}

func (s *Server) send(conn *websocket.Conn, connMu *sync.Mutex, m Message) error {
	connMu.Lock()
	defer connMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(m); err != nil {
		s.logger.Debug("Websocket write failed.", "remote_addr", conn.RemoteAddr().String(), "error", err)
		return err
	}
	return nil
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
}
