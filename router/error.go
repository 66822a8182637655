package router

import (
	"errors"
	"fmt"
)

// ErrInvalidUTF8 is returned when a body that must be text is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("body is not valid UTF-8")

// Rejection is an extraction failure. It converts into an error Response so
// the route's fallback chain can move on to the next handler.
type Rejection struct {
	Status Status
	Err    error
}

// Reject wraps err in a Rejection with the given status.
func Reject(status Status, err error) *Rejection {
	return &Rejection{Status: status, Err: err}
}

func (r *Rejection) Error() string {
	if r == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %v", r.Status, r.Err)
}

func (r *Rejection) Unwrap() error {
	if r == nil {
		return nil
	}
	return r.Err
}

// IntoResponse implements Responder. A nil Rejection means no failure and
// converts like a nil result.
func (r *Rejection) IntoResponse() Response {
	if r == nil {
		return Response{Status: StatusNoContent}
	}
	switch r.Status {
	case StatusFromStringError:
		return Error(r.Status, fmt.Sprintf("Failed to parse request body as UTF-8: %v", r.Err))
	case StatusJSONError:
		return Error(r.Status, fmt.Sprintf("Failed to parse JSON payload: %v", r.Err))
	default:
		if r.Err == nil {
			return Error(r.Status, "")
		}
		return Error(r.Status, r.Err.Error())
	}
}
