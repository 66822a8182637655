package bridge

import "github.com/Prescott-Data/nextdoor/router"

// SendFunc queues a frame on the live connection. It blocks while the
// outbound queue is full and fails with ErrConnectionClosed once the
// connection is gone.
type SendFunc func(frame router.Frame) error

// ConnectHook is called when a new connection is successfully established,
// before the bridge starts watching for its end. It should return promptly.
// The send function stays valid until that connection ends; once the reader
// or writer stops it fails with ErrConnectionClosed instead of blocking.
type ConnectHook func(send SendFunc)

// DisconnectHook is called when the connection is lost. The bridge will
// automatically attempt to reconnect.
type DisconnectHook func(err error)
