package router

import "unicode/utf8"

// Request is the immutable envelope of one inbound message. Copies share the
// underlying buffer, which is never written after construction.
type Request struct {
	kind FrameKind
	body []byte
}

// NewRequest builds a Request from a copy of body.
func NewRequest(kind FrameKind, body []byte) Request {
	var b []byte
	if len(body) > 0 {
		b = make([]byte, len(body))
		copy(b, body)
	}
	return Request{kind: kind, body: b}
}

// Kind returns the routing key.
func (r Request) Kind() FrameKind { return r.kind }

// Bytes returns a copy of the body.
func (r Request) Bytes() []byte {
	if r.body == nil {
		return nil
	}
	b := make([]byte, len(r.body))
	copy(b, r.body)
	return b
}

// Text returns the body as a string, or ErrInvalidUTF8.
func (r Request) Text() (string, error) {
	if !utf8.Valid(r.body) {
		return "", ErrInvalidUTF8
	}
	return string(r.body), nil
}

func (r Request) Len() int { return len(r.body) }

func (r Request) IsEmpty() bool { return len(r.body) == 0 }
