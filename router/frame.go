package router

import (
	"encoding/json"
	"fmt"
)

// FrameKind classifies a message on the connection. It is the routing key.
type FrameKind uint8

const (
	FrameText FrameKind = iota + 1
	FrameBinary
	FramePing
	FramePong
	FrameClose
)

// FrameKinds lists every kind in a stable order.
var FrameKinds = []FrameKind{FrameText, FrameBinary, FramePing, FramePong, FrameClose}

func (k FrameKind) String() string {
	switch k {
	case FrameText:
		return "text"
	case FrameBinary:
		return "binary"
	case FramePing:
		return "ping"
	case FramePong:
		return "pong"
	case FrameClose:
		return "close"
	default:
		return fmt.Sprintf("FrameKind(%d)", uint8(k))
	}
}

// ClosePayload is the structured content of a close frame.
type ClosePayload struct {
	Reason string `json:"reason"`
	Code   uint16 `json:"code"`
}

// Frame is a message already decoded by the transport.
// Close is only meaningful for FrameClose; nil means the peer sent no status.
type Frame struct {
	Kind  FrameKind
	Data  []byte
	Close *ClosePayload
}

// TextFrame builds an outbound text frame.
func TextFrame(s string) Frame {
	return Frame{Kind: FrameText, Data: []byte(s)}
}

// Classify turns a decoded transport frame into a Request. Close frames are
// flattened into their JSON encoding so they travel through the same byte
// oriented pipeline; a close without payload yields an empty body.
// Classify takes ownership of f.Data.
func Classify(f Frame) Request {
	switch f.Kind {
	case FrameText, FrameBinary, FramePing, FramePong:
		return Request{kind: f.Kind, body: f.Data}
	case FrameClose:
		if f.Close == nil {
			return Request{kind: FrameClose}
		}
		body, err := json.Marshal(f.Close)
		if err != nil {
			return Request{kind: FrameClose}
		}
		return Request{kind: FrameClose, body: body}
	default:
		return Request{kind: FrameBinary, body: f.Data}
	}
}

// Frame converts the request back into a transport frame.
func (r Request) Frame() (Frame, error) {
	switch r.kind {
	case FrameText:
		s, err := r.Text()
		if err != nil {
			return Frame{}, err
		}
		return TextFrame(s), nil
	case FrameClose:
		payload, err := parseClose(r.body)
		if err != nil {
			return Frame{}, err
		}
		return Frame{Kind: FrameClose, Close: payload}, nil
	case FrameBinary, FramePing, FramePong:
		return Frame{Kind: r.kind, Data: r.Bytes()}, nil
	default:
		return Frame{}, fmt.Errorf("unknown frame kind %d", uint8(r.kind))
	}
}

func parseClose(body []byte) (*ClosePayload, error) {
	if len(body) == 0 {
		return nil, nil
	}
	var payload ClosePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &Rejection{Status: StatusJSONError, Err: err}
	}
	return &payload, nil
}
