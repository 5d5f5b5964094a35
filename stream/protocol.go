package stream

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/akmonengine/droplet"
)

// Message types
const (
	MsgAddCircle          = "add_circle"
	MsgAddStaticCircle    = "add_static_circle"
	MsgAddStaticRectangle = "add_static_rectangle"
	MsgResize             = "resize"
	MsgError              = "error"
)

var ErrUnknownMessage = errors.New("stream: unknown message type")

// InEnvelope is a message received from a viewer: {"t":"add_circle","d":{...}}
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d"`
}

// Envelope is a text message sent to a viewer
type Envelope struct {
	T    string `json:"t"`
	Data any    `json:"d,omitempty"`
}

type ErrorMsg struct {
	Msg string `json:"msg"`
}

// DecodeCommand turns a text message into a world command
func DecodeCommand(raw []byte) (droplet.Command, error) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	switch env.T {
	case MsgAddCircle:
		return decode[droplet.AddCircle](env)
	case MsgAddStaticCircle:
		return decode[droplet.AddStaticCircle](env)
	case MsgAddStaticRectangle:
		return decode[droplet.AddStaticRectangle](env)
	case MsgResize:
		return decode[droplet.Resize](env)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, env.T)
	}
}

func decode[T droplet.Command](env InEnvelope) (droplet.Command, error) {
	var cmd T
	if len(env.D) == 0 {
		return nil, fmt.Errorf("decode %s: missing payload", env.T)
	}
	if err := json.Unmarshal(env.D, &cmd); err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.T, err)
	}

	return cmd, nil
}
