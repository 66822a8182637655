package router

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Status is the outcome vocabulary shared by the router and the bridge.
type Status uint8

const (
	StatusOK Status = iota
	StatusNoContent
	StatusNotFound
	StatusNotFoundPath
	StatusNotImplemented
	StatusJSONError
	StatusFromStringError
	StatusReconnect
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusNoContent:
		return "NoContent"
	case StatusNotFound:
		return "NotFound"
	case StatusNotFoundPath:
		return "NotFoundPath"
	case StatusNotImplemented:
		return "NotImplemented"
	case StatusJSONError:
		return "JsonError"
	case StatusFromStringError:
		return "FromStringError"
	case StatusReconnect:
		return "Reconnect"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// IsSuccess reports whether the body should be forwarded to the peer.
func (s Status) IsSuccess() bool { return s == StatusOK }

// IsReconnect reports whether a handler asked for a new connection.
func (s Status) IsReconnect() bool { return s == StatusReconnect }

// IsError reports every status other than OK and Reconnect.
func (s Status) IsError() bool { return s != StatusOK && s != StatusReconnect }

// IntoResponse implements Responder.
func (s Status) IntoResponse() Response { return Response{Status: s} }

// Response is the result of one dispatch attempt.
type Response struct {
	Status Status
	Body   string
}

func NewResponse(status Status, body string) Response {
	return Response{Status: status, Body: body}
}

// OK is a successful response whose body is sent back to the peer.
func OK(body string) Response { return Response{Status: StatusOK, Body: body} }

func Error(status Status, message string) Response {
	return Response{Status: status, Body: message}
}

// Reconnect asks the bridge to drop the connection and dial again. A non-empty
// url replaces the current endpoint.
func Reconnect(url string) Response {
	return Response{Status: StatusReconnect, Body: url}
}

// IntoResponse implements Responder.
func (r Response) IntoResponse() Response { return r }

// Responder is implemented by handler results that know how to become a
// Response.
type Responder interface {
	IntoResponse() Response
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func() Response

func (f ResponderFunc) IntoResponse() Response { return f() }

// IntoResponse converts a handler result:
//
//	nil            -> NoContent
//	Responder      -> its own conversion
//	string, []byte -> OK
//	error          -> the Responder it wraps, else NotFound with its message
//
// Anything else is NotImplemented.
func IntoResponse(v any) Response {
	switch v := v.(type) {
	case nil:
		return Response{Status: StatusNoContent}
	case Responder:
		return v.IntoResponse()
	case string:
		return OK(v)
	case []byte:
		return OK(string(v))
	case error:
		return errorResponse(v)
	default:
		return Error(StatusNotImplemented, fmt.Sprintf("unsupported handler result %T", v))
	}
}

func errorResponse(err error) Response {
	var r Responder
	if errors.As(err, &r) {
		return r.IntoResponse()
	}
	return Error(StatusNotFound, err.Error())
}

// Result converts a (value, error) pair, the error arm taking precedence.
func Result[T any](v T, err error) Responder {
	return ResponderFunc(func() Response {
		if err != nil {
			return errorResponse(err)
		}
		return IntoResponse(v)
	})
}

// Optional converts a comma-ok pair; a missing value is NotFound.
func Optional[T any](v T, ok bool) Responder {
	return ResponderFunc(func() Response {
		if !ok {
			return Error(StatusNotFound, "Not Found")
		}
		return IntoResponse(v)
	})
}

// JSON serializes v as the response body.
func JSON(v any) Responder {
	return ResponderFunc(func() Response {
		b, err := json.Marshal(v)
		if err != nil {
			return Error(StatusJSONError, err.Error())
		}
		return OK(string(b))
	})
}
