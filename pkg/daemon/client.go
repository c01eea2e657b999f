package daemon

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Client is a socket client. Receive must be called from one goroutine;
// writes are safe from any.
type Client struct {
	ID      string
	conn    net.Conn
	scanner *bufio.Scanner
	writeMu sync.Mutex
}

// Dial connects to a server, retrying briefly while it starts up.
func Dial(socketPath string) (*Client, error) {
	var conn net.Conn
	var err error
	for i := 0; i < 10; i++ {
		conn, err = net.Dial("unix", socketPath)
		if err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", socketPath, err)
	}
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	return &Client{ID: uuid.NewString(), conn: conn, scanner: scanner}, nil
}

func (c *Client) send(msg Message) error {
	msg.ClientID = c.ID
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(time.Second))
	_, err = c.conn.Write(append(data, '\n'))
	return err
}

// Subscribe asks for state broadcasts. The server answers with the
// current view if it has one.
func (c *Client) Subscribe() error { return c.send(Message{Type: MsgSubscribe}) }

// Unsubscribe stops broadcasts; the server closes the connection.
func (c *Client) Unsubscribe() error { return c.send(Message{Type: MsgUnsubscribe}) }

func (c *Client) Ping() error { return c.send(Message{Type: MsgPing}) }

// SendInput forwards an input event into the companion.
func (c *Client) SendInput(in InputPayload) error {
	if err := in.Validate(); err != nil {
		return err
	}
	return c.send(Message{Type: MsgInput, Payload: in})
}

// Receive blocks for the next message. State payloads are decoded into
// *StatePayload, errors into *ErrorPayload.
func (c *Client) Receive() (Message, error) {
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return Message{}, err
		}
		return Message{}, fmt.Errorf("connection closed")
	}
	var raw struct {
		Type     MessageType     `json:"type"`
		ClientID string          `json:"client_id"`
		Payload  json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(c.scanner.Bytes(), &raw); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	msg := Message{Type: raw.Type, ClientID: raw.ClientID}
	switch raw.Type {
	case MsgState:
		var p StatePayload
		if err := json.Unmarshal(raw.Payload, &p); err != nil {
			return Message{}, fmt.Errorf("decode state: %w", err)
		}
		msg.Payload = &p
	case MsgError:
		var p ErrorPayload
		if err := json.Unmarshal(raw.Payload, &p); err != nil {
			return Message{}, fmt.Errorf("decode error: %w", err)
		}
		msg.Payload = &p
	}
	return msg, nil
}

func (c *Client) Close() error { return c.conn.Close() }
