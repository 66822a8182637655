package bridge

import (
	"context"

	"github.com/Prescott-Data/nextdoor/router"
)

// Transport is one established connection yielding decoded frames.
// Receive is only called by the reader goroutine and Send only by the writer
// goroutine. Close may be called at any time and must unblock both.
type Transport interface {
	Receive() (router.Frame, error)
	Send(frame router.Frame) error
	Close() error
}

// Dialer opens transports. Errors wrapped in *PermanentError stop the
// bridge; any other error counts as a failed connection attempt.
type Dialer interface {
	Dial(ctx context.Context, endpointURL string) (Transport, error)
}

// DialerFunc adapts a function to Dialer.
type DialerFunc func(ctx context.Context, endpointURL string) (Transport, error)

func (f DialerFunc) Dial(ctx context.Context, endpointURL string) (Transport, error) {
	return f(ctx, endpointURL)
}

// Dispatcher routes inbound requests. *router.Router implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, req router.Request) router.Response
}
