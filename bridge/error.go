package bridge

import (
	"errors"
	"fmt"
)

var (
	// ErrMaxRetriesExceeded is returned once the reconnect policy gives up.
	ErrMaxRetriesExceeded = errors.New("max reconnect retries exceeded")
	// ErrConnectionClosed is returned by a SendFunc after its connection ended.
	ErrConnectionClosed = errors.New("connection is closed")
	// ErrReconnectRequested is passed to the disconnect hook when a handler
	// asked for a reconnect.
	ErrReconnectRequested = errors.New("reconnect requested by handler")
)

// PermanentError represents an error that should not be retried.
// When the bridge encounters this error, it will stop the reconnection loop.
type PermanentError struct {
	Err error
}

// NewPermanentError creates a new PermanentError.
func NewPermanentError(err error) *PermanentError {
	return &PermanentError{Err: err}
}

// Error implements the error interface.
func (e *PermanentError) Error() string {
	return fmt.Sprintf("permanent error: %v", e.Err)
}

// Unwrap provides compatibility for Go 1.13+ error chains.
func (e *PermanentError) Unwrap() error {
	return e.Err
}

// TransportError is a dial, send or receive failure at the transport boundary.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
