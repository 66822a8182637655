package router

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Classes(t *testing.T) {
	assert.True(t, StatusOK.IsSuccess())
	assert.False(t, StatusOK.IsError())
	assert.True(t, StatusReconnect.IsReconnect())
	assert.False(t, StatusReconnect.IsError())

	for _, s := range []Status{StatusNoContent, StatusNotFound, StatusNotFoundPath,
		StatusNotImplemented, StatusJSONError, StatusFromStringError} {
		assert.True(t, s.IsError(), s.String())
		assert.False(t, s.IsSuccess(), s.String())
	}
}

func TestIntoResponse(t *testing.T) {
	notFound := errors.New("no such order")

	tests := []struct {
		name string
		in   any
		want Response
	}{
		{"nil", nil, Response{Status: StatusNoContent}},
		{"nil error", error(nil), Response{Status: StatusNoContent}},
		{"nil rejection", (*Rejection)(nil), Response{Status: StatusNoContent}},
		{"status", StatusNotImplemented, Response{Status: StatusNotImplemented}},
		{"pair", NewResponse(StatusJSONError, "bad"), Response{Status: StatusJSONError, Body: "bad"}},
		{"string", "send to server", OK("send to server")},
		{"bytes", []byte("raw"), OK("raw")},
		{"plain error", notFound, Error(StatusNotFound, "no such order")},
		{"wrapped rejection", fmt.Errorf("ctx: %w", Reject(StatusJSONError, notFound)),
			Error(StatusJSONError, "Failed to parse JSON payload: no such order")},
		{"result ok", Result("found", nil), OK("found")},
		{"result err", Result("", Reject(StatusNotFound, notFound)), Error(StatusNotFound, "no such order")},
		{"result status err", Result[string]("ignored", errors.New("boom")), Error(StatusNotFound, "boom")},
		{"optional some", Optional("found", true), OK("found")},
		{"optional none", Optional("", false), Error(StatusNotFound, "Not Found")},
		{"reconnect", Reconnect("wss://alt"), Response{Status: StatusReconnect, Body: "wss://alt"}},
		{"unsupported", 42, Error(StatusNotImplemented, "unsupported handler result int")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IntoResponse(tt.in))
		})
	}
}

func TestJSON(t *testing.T) {
	type payload struct {
		Field string `json:"field"`
	}
	assert.Equal(t, OK(`{"field":"test"}`), JSON(payload{Field: "test"}).IntoResponse())

	res := JSON(make(chan int)).IntoResponse()
	assert.Equal(t, StatusJSONError, res.Status)
	assert.NotEmpty(t, res.Body)
}

func TestRejection_NilReceiver(t *testing.T) {
	var r *Rejection
	assert.Equal(t, "<nil>", r.Error())
	assert.NoError(t, r.Unwrap())
	assert.Equal(t, Response{Status: StatusNoContent}, r.IntoResponse())
}
