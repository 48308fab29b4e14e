package live

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/filament-ui/filament/pkg/protocol"
	"github.com/filament-ui/filament/pkg/reactive"
	"github.com/filament-ui/filament/pkg/ui"
)

func TestConfigDefaults(t *testing.T) {
	var c *Config
	got := c.withDefaults()

	if got.Address != ":8080" {
		t.Errorf("Address = %q, want :8080", got.Address)
	}
	if got.FrameInterval != 16*time.Millisecond {
		t.Errorf("FrameInterval = %v, want 16ms", got.FrameInterval)
	}
	if got.ReadBufferSize == 0 || got.WriteBufferSize == 0 {
		t.Error("buffer sizes not defaulted")
	}
}

func TestConfigKeepsExplicitValues(t *testing.T) {
	c := &Config{Address: ":9999", FrameInterval: 50 * time.Millisecond}
	got := c.withDefaults()

	if got.Address != ":9999" {
		t.Errorf("Address = %q, want :9999", got.Address)
	}
	if got.FrameInterval != 50*time.Millisecond {
		t.Errorf("FrameInterval = %v, want 50ms", got.FrameInterval)
	}
	if got.ReadTimeout == 0 {
		t.Error("unset fields not defaulted")
	}
}

func counterApp() *ui.Node {
	count := reactive.NewSignal(0)
	return ui.El("div",
		ui.El("span", ui.Dyn(func() any { return fmt.Sprintf("count: %d", count.Get()) })),
		ui.El("button",
			ui.On("click", func() { count.Update(func(n int) int { return n + 1 }) }),
			ui.Text("+"),
		),
	)
}

func dialSession(t *testing.T) (*websocket.Conn, *Server, func()) {
	t.Helper()

	srv := New(&Config{
		FrameInterval: 5 * time.Millisecond,
		CheckOrigin:   func(*http.Request) bool { return true },
	}, counterApp)
	ts := httptest.NewServer(srv.Router())

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		ts.Close()
		t.Fatalf("dial: %v", err)
	}

	return conn, srv, func() {
		conn.Close()
		ts.Close()
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) *protocol.Frame {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	f, err := protocol.DecodeFrame(msg)
	if err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	return f
}

func TestSessionInitialFrame(t *testing.T) {
	conn, _, done := dialSession(t)
	defer done()

	f := readFrame(t, conn)
	if f.Seq != 1 {
		t.Errorf("initial frame seq = %d, want 1", f.Seq)
	}

	var sawButton, sawText bool
	for _, p := range f.Patches {
		if p.Op == protocol.PatchCreateElement && p.Tag == "button" {
			sawButton = true
		}
		if p.Op == protocol.PatchCreateText && p.Value == "count: 0" {
			sawText = true
		}
	}
	if !sawButton || !sawText {
		t.Errorf("initial frame missing content: button=%v text=%v patches=%+v",
			sawButton, sawText, f.Patches)
	}
}

func TestSessionDispatchProducesUpdateFrame(t *testing.T) {
	conn, _, done := dialSession(t)
	defer done()

	initial := readFrame(t, conn)

	var buttonID uint64
	for _, p := range initial.Patches {
		if p.Op == protocol.PatchCreateElement && p.Tag == "button" {
			buttonID = p.Node
		}
	}
	if buttonID == 0 {
		t.Fatalf("button not found in initial frame: %+v", initial.Patches)
	}

	ev := &protocol.Event{Node: buttonID, Name: "click"}
	if err := conn.WriteMessage(websocket.BinaryMessage, protocol.EncodeEvent(ev)); err != nil {
		t.Fatalf("write event: %v", err)
	}

	update := readFrame(t, conn)
	if update.Seq != initial.Seq+1 {
		t.Errorf("update seq = %d, want %d", update.Seq, initial.Seq+1)
	}

	var sawUpdate bool
	for _, p := range update.Patches {
		if p.Op == protocol.PatchSetText && p.Value == "count: 1" {
			sawUpdate = true
		}
	}
	if !sawUpdate {
		t.Errorf("update frame missing new text: %+v", update.Patches)
	}
}

func TestSessionCountTracksLifecycle(t *testing.T) {
	conn, srv, done := dialSession(t)
	defer done()

	readFrame(t, conn)

	if got := srv.SessionCount(); got != 1 {
		t.Fatalf("SessionCount = %d, want 1", got)
	}

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for srv.SessionCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("session not removed, count = %d", srv.SessionCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSessionDoFramesExternalWrites(t *testing.T) {
	status := reactive.NewSignal("idle")
	srv := New(&Config{
		FrameInterval: 5 * time.Millisecond,
		CheckOrigin:   func(*http.Request) bool { return true },
	}, func() *ui.Node {
		return ui.Span(ui.Dyn(func() any { return status.Get() }))
	})
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	readFrame(t, conn)

	var sess *Session
	srv.mu.Lock()
	for _, s := range srv.sessions {
		sess = s
	}
	srv.mu.Unlock()
	if sess == nil {
		t.Fatal("no session registered")
	}

	// A server-side goroutine updates the tree through Do.
	done := make(chan struct{})
	go func() {
		defer close(done)
		sess.Do(func() { status.Set("busy") })
	}()
	<-done

	f := readFrame(t, conn)
	var saw bool
	for _, p := range f.Patches {
		if p.Op == protocol.PatchSetText && p.Value == "busy" {
			saw = true
		}
	}
	if !saw {
		t.Errorf("frame missing externally written text: %+v", f.Patches)
	}
}
