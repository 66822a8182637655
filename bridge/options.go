package bridge

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Prescott-Data/nextdoor/bridge/auth"
)

// --- Interfaces ---

// Logger is an interface that allows for plugging in custom structured loggers.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(err error, msg string, keysAndValues ...interface{})
}

// Metrics is an interface that allows for plugging in custom metrics collectors.
type Metrics interface {
	IncConnections()
	IncDisconnects()
	IncRedirects()
	IncConnectFailures()
	ObserveDispatch(kind, status string)
	SetConnectionStatus(status float64)
}

// --- No-op Implementations ---

type nopLogger struct{}

func (l *nopLogger) Info(msg string, keysAndValues ...interface{})             {}
func (l *nopLogger) Error(err error, msg string, keysAndValues ...interface{}) {}

type nopMetrics struct{}

func (m *nopMetrics) IncConnections()                     {}
func (m *nopMetrics) IncDisconnects()                     {}
func (m *nopMetrics) IncRedirects()                       {}
func (m *nopMetrics) IncConnectFailures()                 {}
func (m *nopMetrics) ObserveDispatch(kind, status string) {}
func (m *nopMetrics) SetConnectionStatus(status float64)  {}

// --- Configuration ---

// Option is a function that configures a Bridge.
type Option func(*Bridge)

// WithLogger sets a custom logger for the Bridge.
func WithLogger(logger Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// WithMetrics sets a custom metrics collector for the Bridge.
func WithMetrics(metrics Metrics) Option {
	return func(b *Bridge) {
		b.metrics = metrics
	}
}

// WithReconnectPolicy enables retries of failed connection attempts.
// Without a policy the first failed attempt is returned to the caller.
func WithReconnectPolicy(policy ReconnectPolicy) Option {
	return func(b *Bridge) {
		p := policy
		b.policy = &p
	}
}

// WithReconnectDelay sets the fixed pause before reconnecting after a
// handler-requested reconnect or a dropped connection. Defaults to 1 second.
func WithReconnectDelay(d time.Duration) Option {
	return func(b *Bridge) {
		b.reconnectDelay = d
	}
}

// WithCapacity bounds the outbound queue of each connection. Defaults to 100.
func WithCapacity(n int) Option {
	return func(b *Bridge) {
		if n > 0 {
			b.capacity = n
		}
	}
}

// WithDialer replaces the WebSocket transport entirely.
func WithDialer(dialer Dialer) Option {
	return func(b *Bridge) {
		b.dialer = dialer
	}
}

// WithWebSocketDialer sets the gorilla dialer used by the default transport.
func WithWebSocketDialer(dialer *websocket.Dialer) Option {
	return func(b *Bridge) {
		b.ws.Dialer = dialer
	}
}

// WithPingInterval sets how often keepalive pings are sent. Zero disables
// them. Defaults to 30 seconds.
func WithPingInterval(d time.Duration) Option {
	return func(b *Bridge) {
		b.pingInterval = d
	}
}

// WithOnConnect registers a hook run after every successful connection.
func WithOnConnect(hook ConnectHook) Option {
	return func(b *Bridge) {
		b.onConnect = hook
	}
}

// WithOnDisconnect registers a hook run whenever an established connection ends.
func WithOnDisconnect(hook DisconnectHook) Option {
	return func(b *Bridge) {
		b.onDisconnect = hook
	}
}

// WithMessageSizeLimit sets the maximum size in bytes for inbound messages.
// Defaults to 64KB.
func WithMessageSizeLimit(limit int64) Option {
	return func(b *Bridge) {
		b.ws.MessageSizeLimit = limit
	}
}

// WithWriteTimeout sets the deadline for each outbound write. Defaults to 10 seconds.
func WithWriteTimeout(d time.Duration) Option {
	return func(b *Bridge) {
		b.ws.WriteTimeout = d
	}
}

// WithHeader adds static headers to every handshake request.
func WithHeader(header http.Header) Option {
	return func(b *Bridge) {
		b.ws.Header = header.Clone()
	}
}

// WithAuth applies the strategy to every handshake request.
func WithAuth(strategy auth.Strategy, creds auth.Credentials) Option {
	return func(b *Bridge) {
		b.ws.Strategy = &strategy
		b.ws.Credentials = creds
	}
}
