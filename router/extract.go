package router

import (
	"encoding/json"
	"fmt"
)

// Extractor derives a typed value from a request and the router's shared
// state. A failure should be a *Rejection so it maps onto a Status.
type Extractor[T any] interface {
	Extract(req Request, state any) (T, error)
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc[T any] func(req Request, state any) (T, error)

func (f ExtractorFunc[T]) Extract(req Request, state any) (T, error) {
	return f(req, state)
}

// JSONBody decodes a UTF-8 JSON body into T.
func JSONBody[T any]() Extractor[T] {
	return ExtractorFunc[T](func(req Request, _ any) (T, error) {
		var v T
		s, err := req.Text()
		if err != nil {
			return v, Reject(StatusFromStringError, err)
		}
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			return v, Reject(StatusJSONError, err)
		}
		return v, nil
	})
}

// String yields the body as text.
func String() Extractor[string] {
	return ExtractorFunc[string](func(req Request, _ any) (string, error) {
		s, err := req.Text()
		if err != nil {
			return "", Reject(StatusFromStringError, err)
		}
		return s, nil
	})
}

// Bytes yields a copy of the raw body. Used for binary, ping and pong frames.
func Bytes() Extractor[[]byte] {
	return ExtractorFunc[[]byte](func(req Request, _ any) ([]byte, error) {
		return req.Bytes(), nil
	})
}

// Raw yields the request itself.
func Raw() Extractor[Request] {
	return ExtractorFunc[Request](func(req Request, _ any) (Request, error) {
		return req, nil
	})
}

// State yields the router's shared value. The router must have been built
// WithState holding a C.
func State[C any]() Extractor[C] {
	return ExtractorFunc[C](func(_ Request, state any) (C, error) {
		c, ok := state.(C)
		if !ok {
			var zero C
			return zero, Reject(StatusNotImplemented,
				fmt.Errorf("shared state is %T, handler wants %T", state, zero))
		}
		return c, nil
	})
}

// CloseReason parses a close frame body. It yields nil when the peer sent no
// status; a malformed body is a JsonError rejection.
func CloseReason() Extractor[*ClosePayload] {
	return ExtractorFunc[*ClosePayload](func(req Request, _ any) (*ClosePayload, error) {
		return parseClose(req.body)
	})
}
