package daemon

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/b/ratrak/pkg/companion"
)

// Server broadcasts companion views to subscribers and hands remote
// input to OnInput.
type Server struct {
	socketPath string
	pidPath    string
	listener   net.Listener
	clients    map[string]net.Conn
	clientsMu  sync.RWMutex
	done       chan struct{}
	stopOnce   sync.Once

	latest   *companion.View
	latestMu sync.Mutex
	notify   chan struct{}
	seq      uint64

	// OnInput is called from the connection goroutine; callers must hand
	// the event to their own loop (tea.Program.Send).
	OnInput func(clientID string, input InputPayload)

	Log *log.Logger
}

// NewServer creates a server for a session's default socket.
func NewServer(session string) *Server {
	return NewServerAt(SocketPath(session), PidPath(session))
}

// NewServerAt creates a server on explicit paths.
func NewServerAt(socketPath, pidPath string) *Server {
	return &Server{
		socketPath: socketPath,
		pidPath:    pidPath,
		clients:    make(map[string]net.Conn),
		done:       make(chan struct{}),
		notify:     make(chan struct{}, 1),
		Log:        log.New(io.Discard, "", 0),
	}
}

// Start begins listening for client connections
func (s *Server) Start() error {
	if err := s.checkAndClaimPid(); err != nil {
		return err
	}

	// Remove stale socket if exists (safe now that we own the pidfile)
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		os.Remove(s.pidPath)
		return fmt.Errorf("failed to listen on socket: %w", err)
	}
	s.listener = listener

	go s.acceptLoop()
	go s.broadcastLoop()
	return nil
}

// checkAndClaimPid checks for a live server and claims the pidfile
func (s *Server) checkAndClaimPid() error {
	if data, err := os.ReadFile(s.pidPath); err == nil {
		pidStr := strings.TrimSpace(string(data))
		if pid, err := strconv.Atoi(pidStr); err == nil && pid > 0 {
			if process, err := os.FindProcess(pid); err == nil {
				// On Unix, FindProcess always succeeds, so we need to send signal 0
				if err := process.Signal(syscall.Signal(0)); err == nil {
					return fmt.Errorf("ratrak already running with pid %d", pid)
				}
			}
		}
		os.Remove(s.pidPath)
	}

	pid := os.Getpid()
	if err := os.WriteFile(s.pidPath, []byte(strconv.Itoa(pid)), 0644); err != nil {
		return fmt.Errorf("failed to write pidfile: %w", err)
	}
	return nil
}

// Stop shuts down the server. Safe to call more than once.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.listener != nil {
			s.listener.Close()
		}
		s.clientsMu.Lock()
		for id, conn := range s.clients {
			conn.Close()
			delete(s.clients, id)
		}
		s.clientsMu.Unlock()
		os.Remove(s.socketPath)
		os.Remove(s.pidPath)
	})
}

// ClientCount returns the number of subscribed clients
func (s *Server) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// GetSocketPath returns the socket path
func (s *Server) GetSocketPath() string {
	return s.socketPath
}

// Publish records v as the latest view and wakes the broadcaster. It
// never blocks; views published faster than clients read are coalesced.
func (s *Server) Publish(v companion.View) {
	s.latestMu.Lock()
	s.latest = &v
	s.latestMu.Unlock()
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *Server) broadcastLoop() {
	for {
		select {
		case <-s.done:
			return
		case <-s.notify:
		}
		msg, ok := s.stateMessage()
		if !ok {
			continue
		}
		s.clientsMu.RLock()
		conns := make(map[string]net.Conn, len(s.clients))
		for id, c := range s.clients {
			conns[id] = c
		}
		s.clientsMu.RUnlock()
		for id, conn := range conns {
			msg.ClientID = id
			if err := s.sendMessage(conn, msg); err != nil {
				s.Log.Printf("broadcast to %s failed: %v", id, err)
			}
		}
	}
}

func (s *Server) stateMessage() (Message, bool) {
	s.latestMu.Lock()
	defer s.latestMu.Unlock()
	if s.latest == nil {
		return Message{}, false
	}
	s.seq++
	return Message{Type: MsgState, Payload: StatePayload{Seq: s.seq, View: *s.latest}}, true
}

// currentState is the latest view under the last broadcast sequence
// number, for a client that just subscribed.
func (s *Server) currentState() (Message, bool) {
	s.latestMu.Lock()
	defer s.latestMu.Unlock()
	if s.latest == nil {
		return Message{}, false
	}
	return Message{Type: MsgState, Payload: StatePayload{Seq: s.seq, View: *s.latest}}, true
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				continue
			}
		}
		go s.handleClient(conn)
	}
}

// handleClient processes messages from a client
func (s *Server) handleClient(conn net.Conn) {
	defer conn.Close()
	defer func() {
		if r := recover(); r != nil {
			s.Log.Printf("client handler panic: %v", r)
		}
	}()

	scanner := bufio.NewScanner(conn)
	var clientID string

	for scanner.Scan() {
		var msg Message
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			s.sendError(conn, "malformed message")
			continue
		}
		if msg.ClientID != "" {
			clientID = msg.ClientID
		}

		switch msg.Type {
		case MsgSubscribe:
			if clientID == "" {
				s.sendError(conn, "subscribe without client_id")
				continue
			}
			s.clientsMu.Lock()
			s.clients[clientID] = conn
			s.clientsMu.Unlock()
			s.Log.Printf("client %s subscribed", clientID)
			if state, ok := s.currentState(); ok {
				state.ClientID = clientID
				s.sendMessage(conn, state)
			}

		case MsgUnsubscribe:
			s.removeClient(clientID, conn)
			return

		case MsgInput:
			var input InputPayload
			if err := decodePayload(msg.Payload, &input); err != nil {
				s.sendError(conn, err.Error())
				continue
			}
			if err := input.Validate(); err != nil {
				s.sendError(conn, err.Error())
				continue
			}
			if s.OnInput != nil {
				s.OnInput(clientID, input)
			}

		case MsgPing:
			s.sendMessage(conn, Message{Type: MsgPong, ClientID: clientID})

		default:
			s.sendError(conn, fmt.Sprintf("unknown message type %q", msg.Type))
		}
	}

	s.removeClient(clientID, conn)
}

func (s *Server) removeClient(id string, conn net.Conn) {
	if id == "" {
		return
	}
	s.clientsMu.Lock()
	if s.clients[id] == conn {
		delete(s.clients, id)
	}
	s.clientsMu.Unlock()
}

func (s *Server) sendError(conn net.Conn, text string) {
	s.sendMessage(conn, Message{Type: MsgError, Payload: ErrorPayload{Message: text}})
}

// sendMessage sends a message to a client
func (s *Server) sendMessage(conn net.Conn, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(time.Second))
	_, err = conn.Write(append(data, '\n'))
	return err
}
