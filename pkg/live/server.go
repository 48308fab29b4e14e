// Package live serves description trees to remote clients over
// websockets. Each connection gets its own runtime over a wire backend;
// reactive updates stream to the client as binary patch frames, and
// client interactions come back as event messages dispatched into the
// session's handlers.
package live

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/filament-ui/filament/pkg/ui"
)

// Server hosts live sessions: one runtime, wire backend, and websocket
// per connected client.
type Server struct {
	config *Config
	root   func() *ui.Node
	logger *slog.Logger

	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[uint64]*Session
	nextID   atomic.Uint64

	httpServer *http.Server
}

// New creates a live server that renders root for every session.
func New(config *Config, root func() *ui.Node) *Server {
	config = config.withDefaults()

	s := &Server{
		config:   config,
		root:     root,
		logger:   slog.Default().With("component", "live"),
		sessions: make(map[uint64]*Session),
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  config.ReadBufferSize,
		WriteBufferSize: config.WriteBufferSize,
		CheckOrigin:     config.CheckOrigin,
	}

	return s
}

// Router builds the HTTP surface: the websocket endpoint, a health
// check, and prometheus metrics.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Get("/live", s.handleWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// ListenAndServe starts serving until ctx is cancelled, then shuts down
// gracefully: open sessions are closed and the listener drained.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:        s.config.Address,
		Handler:     s.Router(),
		ReadTimeout: s.config.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	s.logger.Info("listening", "address", s.config.Address)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.closeAllSessions()
	return s.httpServer.Shutdown(shutdownCtx)
}

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	sess := newSession(s.nextID.Add(1), s, conn)

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logger.Info("session opened", "session", sess.id, "remote", r.RemoteAddr)
	sess.run()
}

func (s *Server) removeSession(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()
}

func (s *Server) closeAllSessions() {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}
}
