package daemon

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/b/ratrak/pkg/companion"
	"github.com/b/ratrak/pkg/sprite"
)

func startServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	sock := filepath.Join(dir, "r.sock")
	s := NewServerAt(sock, filepath.Join(dir, "r.pid"))
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(s.Stop)
	return s, sock
}

func dial(t *testing.T, sock string) *Client {
	t.Helper()
	c, err := Dial(sock)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return c
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSubscribeReceivesCurrentAndLaterStates(t *testing.T) {
	s, sock := startServer(t)
	s.Publish(companion.View{Seq: 1, State: sprite.Idle})

	c := dial(t, sock)
	if err := c.Subscribe(); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	msg, err := c.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	state, ok := msg.Payload.(*StatePayload)
	if msg.Type != MsgState || !ok {
		t.Fatalf("got %s %T, want state", msg.Type, msg.Payload)
	}
	if state.View.State != sprite.Idle || msg.ClientID != c.ID {
		t.Fatalf("unexpected first state %+v for %q", state, msg.ClientID)
	}

	waitFor(t, func() bool { return s.ClientCount() == 1 })
	s.Publish(companion.View{Seq: 2, State: sprite.Work, DrawerOpen: true})

	// the pre-subscribe publish may still be in flight
	var next *StatePayload
	for next == nil || next.View.State != sprite.Work {
		msg, err = c.Receive()
		if err != nil {
			t.Fatalf("Receive: %v", err)
		}
		next = msg.Payload.(*StatePayload)
	}
	if !next.View.DrawerOpen {
		t.Fatalf("unexpected view %+v", next.View)
	}
	if next.Seq <= state.Seq {
		t.Fatalf("seq did not advance: %d then %d", state.Seq, next.Seq)
	}
}

func TestSubscribeDoesNotAdvanceSeq(t *testing.T) {
	s, sock := startServer(t)
	s.Publish(companion.View{State: sprite.Idle})
	waitFor(t, func() bool {
		s.latestMu.Lock()
		defer s.latestMu.Unlock()
		return s.seq == 1
	})

	for i := 0; i < 3; i++ {
		c := dial(t, sock)
		if err := c.Subscribe(); err != nil {
			t.Fatalf("Subscribe: %v", err)
		}
		msg, err := c.Receive()
		if err != nil {
			t.Fatalf("Receive: %v", err)
		}
		if got := msg.Payload.(*StatePayload).Seq; got != 1 {
			t.Fatalf("subscriber %d got seq %d, want 1", i, got)
		}
	}

	s.Publish(companion.View{State: sprite.Work})
	waitFor(t, func() bool {
		s.latestMu.Lock()
		defer s.latestMu.Unlock()
		return s.seq == 2
	})
}

func TestInputForwarded(t *testing.T) {
	s, sock := startServer(t)
	got := make(chan InputPayload, 1)
	s.OnInput = func(_ string, in InputPayload) { got <- in }

	c := dial(t, sock)
	if err := c.SendInput(InputPayload{Type: InputClick, Target: "ratrakBtn"}); err != nil {
		t.Fatalf("SendInput: %v", err)
	}
	select {
	case in := <-got:
		if in.Type != InputClick || in.Target != "ratrakBtn" {
			t.Fatalf("got %+v", in)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("input not forwarded")
	}
}

func TestPingPong(t *testing.T) {
	_, sock := startServer(t)
	c := dial(t, sock)
	if err := c.Ping(); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	msg, err := c.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if msg.Type != MsgPong {
		t.Fatalf("got %s, want pong", msg.Type)
	}
}

func TestBadMessagesGetErrors(t *testing.T) {
	_, sock := startServer(t)
	c := dial(t, sock)

	if err := c.send(Message{Type: "dance"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := c.send(Message{Type: MsgInput, Payload: InputPayload{Type: "wiggle"}}); err != nil {
		t.Fatalf("send: %v", err)
	}
	for i := 0; i < 2; i++ {
		msg, err := c.Receive()
		if err != nil {
			t.Fatalf("Receive: %v", err)
		}
		if msg.Type != MsgError {
			t.Fatalf("message %d: got %s, want error", i, msg.Type)
		}
	}
}

func TestInputValidate(t *testing.T) {
	tests := []struct {
		in InputPayload
		ok bool
	}{
		{InputPayload{Type: InputClick, Target: "x"}, true},
		{InputPayload{Type: InputClick}, false},
		{InputPayload{Type: InputKey, Key: "g"}, true},
		{InputPayload{Type: InputKeyUp}, false},
		{InputPayload{Type: InputScroll}, true},
		{InputPayload{Type: "hover"}, false},
	}
	for _, tt := range tests {
		if err := tt.in.Validate(); (err == nil) != tt.ok {
			t.Errorf("Validate(%+v) = %v, want ok=%v", tt.in, err, tt.ok)
		}
	}
}

func TestPidfileBlocksSecondServer(t *testing.T) {
	dir := t.TempDir()
	pid := filepath.Join(dir, "r.pid")
	a := NewServerAt(filepath.Join(dir, "a.sock"), pid)
	if err := a.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer a.Stop()

	b := NewServerAt(filepath.Join(dir, "b.sock"), pid)
	if err := b.Start(); err == nil {
		b.Stop()
		t.Fatal("second server claimed a live pidfile")
	}
}

func TestStalePidfileReclaimed(t *testing.T) {
	dir := t.TempDir()
	pid := filepath.Join(dir, "r.pid")
	// pid 0 is never a live process
	if err := os.WriteFile(pid, []byte("0"), 0644); err != nil {
		t.Fatal(err)
	}
	s := NewServerAt(filepath.Join(dir, "r.sock"), pid)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	data, _ := os.ReadFile(pid)
	if string(data) != strconv.Itoa(os.Getpid()) {
		t.Fatalf("pidfile = %q", data)
	}
}

func TestStopIdempotent(t *testing.T) {
	s, sock := startServer(t)
	s.Stop()
	s.Stop()
	if _, err := os.Stat(sock); !os.IsNotExist(err) {
		t.Fatalf("socket still present: %v", err)
	}
}
