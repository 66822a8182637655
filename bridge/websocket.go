package bridge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Prescott-Data/nextdoor/bridge/auth"
	"github.com/Prescott-Data/nextdoor/router"
)

// WebSocketDialer is the default Dialer. It opens gorilla/websocket
// connections and surfaces control frames as router frames.
type WebSocketDialer struct {
	Dialer           *websocket.Dialer
	Header           http.Header
	Strategy         *auth.Strategy
	Credentials      auth.Credentials
	MessageSizeLimit int64
	WriteTimeout     time.Duration
	// PongWait is the read deadline, extended on every pong. Zero disables it.
	PongWait time.Duration
}

// NewWebSocketDialer returns a dialer with a 64KB read limit and a 10s write timeout.
func NewWebSocketDialer() *WebSocketDialer {
	return &WebSocketDialer{
		Dialer:           websocket.DefaultDialer,
		MessageSizeLimit: 65536, // 64KB
		WriteTimeout:     10 * time.Second,
	}
}

// Dial performs the handshake. Malformed endpoints and credentials that
// cannot be applied are permanent errors.
func (d *WebSocketDialer) Dial(ctx context.Context, endpointURL string) (Transport, error) {
	if err := checkEndpoint(endpointURL); err != nil {
		return nil, NewPermanentError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, nil)
	if err != nil {
		return nil, NewPermanentError(err)
	}
	for k, vs := range d.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if d.Strategy != nil {
		if err := auth.Apply(req, *d.Strategy, d.Credentials); err != nil {
			return nil, NewPermanentError(fmt.Errorf("failed to apply auth strategy: %w", err))
		}
	}

	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, resp, err := dialer.DialContext(ctx, req.URL.String(), req.Header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("handshake failed with status %d: %w", resp.StatusCode, err)
		}
		return nil, err
	}
	if d.MessageSizeLimit > 0 {
		conn.SetReadLimit(d.MessageSizeLimit)
	}
	return newWSTransport(conn, d.WriteTimeout, d.PongWait), nil
}

// checkEndpoint accepts absolute ws and wss URLs.
func checkEndpoint(endpointURL string) error {
	u, err := url.Parse(endpointURL)
	if err != nil {
		return fmt.Errorf("invalid endpoint URL: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}
	return nil
}

// wsTransport adapts a gorilla connection. Control frames arrive through
// gorilla's handlers while ReadMessage runs, so they are buffered in
// pending and handed out by Receive in arrival order.
type wsTransport struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
	pongWait     time.Duration

	pending []router.Frame
	readErr error

	closeOnce sync.Once
	closeErr  error
}

func newWSTransport(conn *websocket.Conn, writeTimeout, pongWait time.Duration) *wsTransport {
	t := &wsTransport{conn: conn, writeTimeout: writeTimeout, pongWait: pongWait}

	t.extendReadDeadline()
	conn.SetPingHandler(func(appData string) error {
		t.pending = append(t.pending, router.Frame{Kind: router.FramePing, Data: []byte(appData)})
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), t.deadline())
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil
		}
		return err
	})
	conn.SetPongHandler(func(appData string) error {
		t.extendReadDeadline()
		t.pending = append(t.pending, router.Frame{Kind: router.FramePong, Data: []byte(appData)})
		return nil
	})
	conn.SetCloseHandler(func(code int, text string) error {
		frame := router.Frame{Kind: router.FrameClose}
		if code != websocket.CloseNoStatusReceived {
			frame.Close = &router.ClosePayload{Reason: text, Code: uint16(code)}
		}
		t.pending = append(t.pending, frame)
		// Echo the close as the protocol requires. The read error that
		// follows ends the connection.
		conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, ""), t.deadline())
		return nil
	})
	return t
}

func (t *wsTransport) deadline() time.Time {
	if t.writeTimeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(t.writeTimeout)
}

func (t *wsTransport) extendReadDeadline() {
	if t.pongWait > 0 {
		t.conn.SetReadDeadline(time.Now().Add(t.pongWait))
	}
}

// Receive returns the next frame. Once the connection has failed every call
// returns the same error; gorilla panics on repeated reads of a failed
// connection.
func (t *wsTransport) Receive() (router.Frame, error) {
	for {
		if len(t.pending) > 0 {
			frame := t.pending[0]
			t.pending = t.pending[1:]
			return frame, nil
		}
		if t.readErr != nil {
			return router.Frame{}, t.readErr
		}

		messageType, data, err := t.conn.ReadMessage()
		if err != nil {
			t.readErr = err
			continue
		}
		switch messageType {
		case websocket.TextMessage:
			t.pending = append(t.pending, router.Frame{Kind: router.FrameText, Data: data})
		case websocket.BinaryMessage:
			t.pending = append(t.pending, router.Frame{Kind: router.FrameBinary, Data: data})
		}
	}
}

func (t *wsTransport) Send(frame router.Frame) error {
	switch frame.Kind {
	case router.FrameText, router.FrameBinary:
		messageType := websocket.TextMessage
		if frame.Kind == router.FrameBinary {
			messageType = websocket.BinaryMessage
		}
		if err := t.conn.SetWriteDeadline(t.deadline()); err != nil {
			return err
		}
		return t.conn.WriteMessage(messageType, frame.Data)
	case router.FramePing:
		return t.conn.WriteControl(websocket.PingMessage, frame.Data, t.deadline())
	case router.FramePong:
		return t.conn.WriteControl(websocket.PongMessage, frame.Data, t.deadline())
	case router.FrameClose:
		code, reason := websocket.CloseNormalClosure, ""
		if frame.Close != nil {
			code, reason = int(frame.Close.Code), frame.Close.Reason
		}
		return t.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), t.deadline())
	default:
		return fmt.Errorf("cannot send frame of kind %s", frame.Kind)
	}
}

// Close sends a normal closure and closes the socket. It is safe to call
// more than once.
func (t *wsTransport) Close() error {
	t.closeOnce.Do(func() {
		t.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		t.closeErr = t.conn.Close()
	})
	return t.closeErr
}
