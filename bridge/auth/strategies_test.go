package auth

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUpgradeRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "wss://stream.example.com/ws?room=1", nil)
	require.NoError(t, err)
	return req
}

func TestApply(t *testing.T) {
	tests := []struct {
		name        string
		strategy    Strategy
		creds       Credentials
		expectError bool
		validate    func(*testing.T, *http.Request)
	}{
		{
			name:     "Header Auth - Default",
			strategy: Strategy{Type: TypeHeader},
			creds:    Credentials{"api_key": "my-secret-key"},
			validate: func(t *testing.T, req *http.Request) {
				assert.Equal(t, "my-secret-key", req.Header.Get("Authorization"))
			},
		},
		{
			name: "Header Auth - Custom",
			strategy: Strategy{Type: TypeHeader, Config: map[string]string{
				"header_name":      "X-API-Key",
				"value_prefix":     "Token ",
				"credential_field": "token",
			}},
			creds: Credentials{"token": "abc-123"},
			validate: func(t *testing.T, req *http.Request) {
				assert.Equal(t, "Token abc-123", req.Header.Get("X-API-Key"))
			},
		},
		{
			name:        "Header Auth - Missing Credential",
			strategy:    Strategy{Type: TypeHeader},
			creds:       Credentials{},
			expectError: true,
		},
		{
			name:     "Query Param",
			strategy: Strategy{Type: TypeQueryParam, Config: map[string]string{"param_name": "access_token"}},
			creds:    Credentials{"api_key": "q-secret"},
			validate: func(t *testing.T, req *http.Request) {
				assert.Equal(t, "q-secret", req.URL.Query().Get("access_token"))
				assert.Equal(t, "1", req.URL.Query().Get("room"))
			},
		},
		{
			name:        "Query Param - Missing Name",
			strategy:    Strategy{Type: TypeQueryParam},
			creds:       Credentials{"api_key": "q-secret"},
			expectError: true,
		},
		{
			name:     "Basic Auth",
			strategy: Strategy{Type: TypeBasicAuth},
			creds:    Credentials{"username": "alice", "password": "pw"},
			validate: func(t *testing.T, req *http.Request) {
				user, pass, ok := req.BasicAuth()
				assert.True(t, ok)
				assert.Equal(t, "alice", user)
				assert.Equal(t, "pw", pass)
			},
		},
		{
			name:        "Basic Auth - Empty Password",
			strategy:    Strategy{Type: TypeBasicAuth},
			creds:       Credentials{"username": "alice", "password": ""},
			expectError: true,
		},
		{
			name:     "Bearer",
			strategy: Strategy{Type: TypeBearer},
			creds:    Credentials{"access_token": "tok"},
			validate: func(t *testing.T, req *http.Request) {
				assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
			},
		},
		{
			name:     "AWS SigV4",
			strategy: Strategy{Type: TypeAWSSigV4, Config: map[string]string{"service": "execute-api", "region": "eu-west-1"}},
			creds:    Credentials{"access_key": "AKIDEXAMPLE", "secret_key": "secret", "session_token": "session"},
			validate: func(t *testing.T, req *http.Request) {
				authz := req.Header.Get("Authorization")
				assert.True(t, strings.HasPrefix(authz, "AWS4-HMAC-SHA256 Credential=AKIDEXAMPLE/"), authz)
				assert.Contains(t, authz, "/eu-west-1/execute-api/aws4_request")
				assert.Equal(t, "session", req.Header.Get("X-Amz-Security-Token"))
				assert.Equal(t, emptyPayloadHash, req.Header.Get("X-Amz-Content-Sha256"))
				assert.NotEmpty(t, req.Header.Get("X-Amz-Date"))
			},
		},
		{
			name:        "AWS SigV4 - Missing Service",
			strategy:    Strategy{Type: TypeAWSSigV4},
			creds:       Credentials{"access_key": "a", "secret_key": "b"},
			expectError: true,
		},
		{
			name:        "Unsupported",
			strategy:    Strategy{Type: "kerberos"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newUpgradeRequest(t)
			err := Apply(req, tt.strategy, tt.creds)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, req)
			}
		})
	}
}

func TestApplyAWSSigV4_Deterministic(t *testing.T) {
	strategy := Strategy{Type: TypeAWSSigV4, Config: map[string]string{"service": "execute-api"}}
	creds := Credentials{"access_key": "AKIDEXAMPLE", "secret_key": "secret"}
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	first := newUpgradeRequest(t)
	second := newUpgradeRequest(t)
	require.NoError(t, applyAWSSigV4(first, strategy, creds, now))
	require.NoError(t, applyAWSSigV4(second, strategy, creds, now))

	assert.Equal(t, first.Header.Get("Authorization"), second.Header.Get("Authorization"))
	assert.Equal(t, "20240102T030405Z", first.Header.Get("X-Amz-Date"))
}
