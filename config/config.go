// Package config loads the agent configuration from YAML with NEXTDOOR_*
// environment overrides.
package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"gopkg.in/yaml.v3"

	"github.com/Prescott-Data/nextdoor/bridge"
	"github.com/Prescott-Data/nextdoor/bridge/auth"
)

// Config is the root configuration of the agent.
type Config struct {
	URL            string           `yaml:"url"`
	ConnectionID   string           `yaml:"connection_id"`
	Capacity       int              `yaml:"capacity"`
	ReconnectDelay time.Duration    `yaml:"reconnect_delay"`
	Reconnect      *ReconnectConfig `yaml:"reconnect"`
	Transport      TransportConfig  `yaml:"transport"`
	Auth           *AuthConfig      `yaml:"auth"`
	Metrics        MetricsConfig    `yaml:"metrics"`
	Log            LogConfig        `yaml:"log"`
}

// ReconnectConfig governs retries of failed connection attempts. Setting
// `reconnect: null` makes the first failure fatal.
type ReconnectConfig struct {
	InitialDelay  time.Duration `yaml:"initial_delay"`
	MaxDelay      time.Duration `yaml:"max_delay"`
	MaxRetries    int           `yaml:"max_retries"`
	BackoffFactor float64       `yaml:"backoff_factor"`
}

// Policy converts to the bridge form.
func (r *ReconnectConfig) Policy() bridge.ReconnectPolicy {
	return bridge.ReconnectPolicy{
		InitialDelay:  r.InitialDelay,
		MaxDelay:      r.MaxDelay,
		MaxRetries:    r.MaxRetries,
		BackoffFactor: r.BackoffFactor,
	}
}

type TransportConfig struct {
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	PingInterval     time.Duration `yaml:"ping_interval"`
	MessageSizeLimit int64         `yaml:"message_size_limit"`
}

// AuthConfig selects a handshake auth strategy; see package bridge/auth.
type AuthConfig struct {
	Type        string            `yaml:"type"`
	Config      map[string]string `yaml:"config"`
	Credentials map[string]string `yaml:"credentials"`
}

// MetricsConfig controls the /metrics listener. An empty Addr disables it.
type MetricsConfig struct {
	Addr   string            `yaml:"addr"`
	Labels map[string]string `yaml:"labels"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	policy := bridge.DefaultReconnectPolicy()
	return &Config{
		Capacity:       100,
		ReconnectDelay: time.Second,
		Reconnect: &ReconnectConfig{
			InitialDelay:  policy.InitialDelay,
			MaxDelay:      policy.MaxDelay,
			MaxRetries:    policy.MaxRetries,
			BackoffFactor: policy.BackoffFactor,
		},
		Transport: TransportConfig{
			WriteTimeout:     10 * time.Second,
			HandshakeTimeout: 45 * time.Second,
			PingInterval:     30 * time.Second,
			MessageSizeLimit: 65536,
		},
		Metrics: MetricsConfig{Addr: ":9090"},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnvOverrides(cfg)
			if err := Validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if r := cfg.Reconnect; r != nil {
		def := bridge.DefaultReconnectPolicy()
		if r.InitialDelay == 0 {
			r.InitialDelay = def.InitialDelay
		}
		if r.BackoffFactor == 0 {
			r.BackoffFactor = def.BackoffFactor
		}
	}

	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides maps NEXTDOOR_* env vars to config fields.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NEXTDOOR_URL"); v != "" {
		cfg.URL = v
	}
	if v := os.Getenv("NEXTDOOR_CONNECTION_ID"); v != "" {
		cfg.ConnectionID = v
	}
	if v := os.Getenv("NEXTDOOR_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Capacity = n
		}
	}
	if v := os.Getenv("NEXTDOOR_RECONNECT_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ReconnectDelay = d
		}
	}
	if v := os.Getenv("NEXTDOOR_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			if cfg.Reconnect == nil {
				cfg.Reconnect = Defaults().Reconnect
			}
			cfg.Reconnect.MaxRetries = n
		}
	}
	// Keeps tokens out of config files.
	if v := os.Getenv("NEXTDOOR_AUTH_TOKEN"); v != "" {
		if cfg.Auth == nil {
			cfg.Auth = &AuthConfig{Type: auth.TypeBearer}
		}
		if cfg.Auth.Credentials == nil {
			cfg.Auth.Credentials = map[string]string{}
		}
		cfg.Auth.Credentials["access_token"] = v
	}
	if v := os.Getenv("NEXTDOOR_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("NEXTDOOR_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// BridgeOptions translates the connection settings into bridge options.
// Logging and metrics are left to the caller.
func (c *Config) BridgeOptions() []bridge.Option {
	opts := []bridge.Option{
		bridge.WithCapacity(c.Capacity),
		bridge.WithReconnectDelay(c.ReconnectDelay),
		bridge.WithWriteTimeout(c.Transport.WriteTimeout),
		bridge.WithMessageSizeLimit(c.Transport.MessageSizeLimit),
		bridge.WithPingInterval(c.Transport.PingInterval),
		bridge.WithWebSocketDialer(&websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: c.Transport.HandshakeTimeout,
		}),
	}
	if c.Reconnect != nil {
		opts = append(opts, bridge.WithReconnectPolicy(c.Reconnect.Policy()))
	}
	if c.Auth != nil {
		opts = append(opts, bridge.WithAuth(
			auth.Strategy{Type: c.Auth.Type, Config: c.Auth.Config},
			auth.Credentials(c.Auth.Credentials),
		))
	}
	return opts
}
