// Package daemon exposes a running companion over a unix socket.
// Messages are newline-delimited JSON. Subscribers receive a state
// message for every published view; any client may send input.
package daemon

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/b/ratrak/pkg/companion"
	"github.com/b/ratrak/pkg/paths"
)

// MessageType identifies the type of message
type MessageType string

const (
	MsgSubscribe   MessageType = "subscribe"
	MsgUnsubscribe MessageType = "unsubscribe"
	MsgState       MessageType = "state" // server -> client: companion view
	MsgInput       MessageType = "input" // client -> server: forwarded into the program
	MsgPing        MessageType = "ping"
	MsgPong        MessageType = "pong"
	MsgError       MessageType = "error"
)

// Message is the envelope for every line on the socket.
type Message struct {
	Type     MessageType `json:"type"`
	ClientID string      `json:"client_id,omitempty"`
	Payload  interface{} `json:"payload,omitempty"`
}

// StatePayload carries one companion view. Seq is the server's own
// broadcast counter; View.Seq is the controller's.
type StatePayload struct {
	Seq  uint64         `json:"seq"`
	View companion.View `json:"view"`
}

// Input types.
const (
	InputClick  = "click"
	InputKey    = "key"
	InputKeyUp  = "keyup"
	InputScroll = "scroll"
)

// InputPayload is a remote input event.
type InputPayload struct {
	Type   string `json:"type"`
	Target string `json:"target,omitempty"` // element id for clicks
	Key    string `json:"key,omitempty"`
}

// Validate checks that the event names something the companion handles.
func (in InputPayload) Validate() error {
	switch in.Type {
	case InputClick:
		if in.Target == "" {
			return fmt.Errorf("click without target")
		}
	case InputKey, InputKeyUp:
		if in.Key == "" {
			return fmt.Errorf("%s without key", in.Type)
		}
	case InputScroll:
	default:
		return fmt.Errorf("unknown input type %q", in.Type)
	}
	return nil
}

// ErrorPayload reports a rejected message back to its sender.
type ErrorPayload struct {
	Message string `json:"message"`
}

// decodePayload converts a generically decoded payload into out.
func decodePayload(payload interface{}, out interface{}) error {
	if payload == nil {
		return fmt.Errorf("missing payload")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// SocketPath returns the control socket path for a session
func SocketPath(session string) string {
	return paths.SocketPath(session)
}

// PidPath returns the pidfile path for a session
func PidPath(session string) string {
	if session == "" {
		session = "default"
	}
	return filepath.Join(paths.RuntimeDir(), fmt.Sprintf("ratrak-%s.pid", session))
}
