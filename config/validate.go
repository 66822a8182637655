package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Prescott-Data/nextdoor/bridge/auth"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...interface{}) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg for structural correctness. It returns a *ValidationError
// when one or more problems are found, allowing callers to inspect all issues.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	validateConnection(cfg, ve)
	validateReconnect(cfg, ve)
	validateTransport(cfg, ve)
	validateAuth(cfg, ve)
	validateLog(cfg, ve)
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateConnection(cfg *Config, ve *ValidationError) {
	if cfg.URL == "" {
		ve.Add("url is required")
	} else if u, err := url.Parse(cfg.URL); err != nil {
		ve.Add("url is invalid: %v", err)
	} else if u.Scheme != "ws" && u.Scheme != "wss" {
		ve.Add("url scheme must be ws or wss, got %q", u.Scheme)
	}
	if cfg.Capacity <= 0 {
		ve.Add("capacity must be > 0")
	}
	if cfg.ReconnectDelay < 0 {
		ve.Add("reconnect_delay must be >= 0")
	}
}

func validateReconnect(cfg *Config, ve *ValidationError) {
	r := cfg.Reconnect
	if r == nil {
		return
	}
	if r.InitialDelay <= 0 {
		ve.Add("reconnect.initial_delay must be > 0")
	}
	if r.MaxDelay < 0 {
		ve.Add("reconnect.max_delay must be >= 0")
	}
	if r.MaxRetries < 0 {
		ve.Add("reconnect.max_retries must be >= 0")
	}
	if r.BackoffFactor < 1 {
		ve.Add("reconnect.backoff_factor must be >= 1")
	}
}

func validateTransport(cfg *Config, ve *ValidationError) {
	t := cfg.Transport
	if t.WriteTimeout < 0 {
		ve.Add("transport.write_timeout must be >= 0")
	}
	if t.HandshakeTimeout < 0 {
		ve.Add("transport.handshake_timeout must be >= 0")
	}
	if t.PingInterval < 0 {
		ve.Add("transport.ping_interval must be >= 0")
	}
	if t.MessageSizeLimit < 0 {
		ve.Add("transport.message_size_limit must be >= 0")
	}
}

func validateAuth(cfg *Config, ve *ValidationError) {
	if cfg.Auth == nil {
		return
	}
	switch cfg.Auth.Type {
	case auth.TypeHeader, auth.TypeQueryParam, auth.TypeBasicAuth, auth.TypeBearer, auth.TypeAWSSigV4:
	case "":
		ve.Add("auth.type is required when auth is set")
	default:
		ve.Add("auth.type %q is not supported", cfg.Auth.Type)
	}
}

func validateLog(cfg *Config, ve *ValidationError) {
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		ve.Add("log.level must be one of debug, info, warn, error; got %q", cfg.Log.Level)
	}
}
