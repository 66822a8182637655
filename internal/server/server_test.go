package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getHealth(t *testing.T, s *Server) (int, healthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHealth_FollowsConnection(t *testing.T) {
	status := NewStatus("conn-1")
	s := New(":0", status)

	code, body := getHealth(t, s)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "disconnected", body.Status)
	assert.Equal(t, "conn-1", body.ConnectionID)

	status.OnConnect(nil)
	code, body = getHealth(t, s)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body.Status)

	status.OnDisconnect(errors.New("transport receive: EOF"))
	code, body = getHealth(t, s)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "transport receive: EOF", body.LastError)
}

func TestMetricsEndpoint(t *testing.T) {
	s := New(":0", NewStatus("conn-1"))
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
