package live

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	interrors "github.com/filament-ui/filament/internal/errors"
	"github.com/filament-ui/filament/pkg/backend/wire"
	"github.com/filament-ui/filament/pkg/protocol"
	filruntime "github.com/filament-ui/filament/pkg/runtime"
)

// Session is one connected client: a runtime rendering into a wire
// backend whose patches are framed and sent over the websocket.
//
// Reactive work the session itself initiates (event dispatch, ticker
// flushes, teardown) runs under the session mutex. Signal writes from
// other goroutines must go through Do, which takes the same mutex;
// writing a session-owned signal directly from outside races the
// dispatch path.
type Session struct {
	id     uint64
	server *Server
	conn   *websocket.Conn
	logger *slog.Logger

	mu      sync.Mutex
	backend *wire.Backend
	rt      *filruntime.Runtime
	sched   *filruntime.Scheduler
	root    *filruntime.Root

	patches []protocol.Patch
	seq     uint64

	send      chan []byte
	closeOnce sync.Once
	closed    chan struct{}
}

func newSession(id uint64, server *Server, conn *websocket.Conn) *Session {
	s := &Session{
		id:     id,
		server: server,
		conn:   conn,
		logger: server.logger.With("session", id),
		send:   make(chan []byte, 64),
		closed: make(chan struct{}),
	}

	s.backend = wire.New(func(p protocol.Patch) {
		s.patches = append(s.patches, p)
	})
	s.sched = filruntime.NewScheduler()
	s.rt = filruntime.New(s.backend, filruntime.WithScheduler(s.sched))

	return s
}

// run performs the initial render and blocks pumping the connection
// until it closes.
func (s *Session) run() {
	defer s.teardown()

	s.mu.Lock()
	container := s.backend.NewRoot()
	s.root = s.rt.CreateRoot(container)
	s.root.Render(s.server.root())
	s.sched.Flush()
	s.cutFrameLocked()
	s.mu.Unlock()

	go s.writePump()
	go s.flushLoop()
	s.readPump()
}

// readPump reads event messages until the connection dies.
func (s *Session) readPump() {
	for {
		s.conn.SetReadDeadline(time.Now().Add(s.server.config.ReadTimeout))
		s.conn.SetPongHandler(func(string) error {
			s.conn.SetReadDeadline(time.Now().Add(s.server.config.ReadTimeout))
			return nil
		})

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		ev, err := protocol.DecodeEvent(msg)
		if err != nil {
			s.logger.Error("event decode failed",
				"error", interrors.FrameDecode(err))
			continue
		}

		s.dispatch(ev)
	}
}

// dispatch routes one client event into the session's handlers and
// flushes the resulting mutations as a frame.
func (s *Session) dispatch(ev *protocol.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.backend.DispatchEvent(ev) {
		s.logger.Debug("event without handler", "node", ev.Node, "name", ev.Name)
	}

	s.sched.Flush()
	s.cutFrameLocked()
}

// Do runs fn under the session's reactive serialization and frames any
// resulting mutations. Server-side goroutines (timers, pub/sub
// listeners) use it to write signals owned by this session's tree.
func (s *Session) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn()
	s.sched.Flush()
	s.cutFrameLocked()
}

// flushLoop drains scheduler backlog not already flushed by an event
// dispatch or a Do call.
func (s *Session) flushLoop() {
	ticker := time.NewTicker(s.server.config.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			s.sched.Flush()
			s.cutFrameLocked()
			s.mu.Unlock()
		case <-s.closed:
			return
		}
	}
}

// cutFrameLocked packages buffered patches into one frame and queues it
// for sending. Empty buffers produce no frame. Caller holds s.mu.
func (s *Session) cutFrameLocked() {
	if len(s.patches) == 0 {
		return
	}

	s.seq++
	frame := &protocol.Frame{Seq: s.seq, Patches: s.patches}
	s.patches = nil

	select {
	case s.send <- protocol.EncodeFrame(frame):
	default:
		s.logger.Warn("send buffer full, closing slow session")
		s.Close()
	}
}

// writePump sends queued frames and keepalive pings.
func (s *Session) writePump() {
	ticker := time.NewTicker(s.server.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(s.server.config.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
				s.logger.Error("write error", "error", err)
				s.Close()
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(s.server.config.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.Close()
				return
			}
		case <-s.closed:
			return
		}
	}
}

// Close shuts the session down. Safe to call repeatedly.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
		s.conn.Close()
	})
}

func (s *Session) teardown() {
	s.Close()

	s.mu.Lock()
	if s.root != nil {
		s.root.Unmount()
		s.root = nil
	}
	s.mu.Unlock()

	s.server.removeSession(s)
	s.logger.Info("session closed")
}
