// Package bridge keeps a WebSocket connection alive and feeds every inbound
// frame through a router, queueing successful responses back to the peer.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Prescott-Data/nextdoor/bridge/telemetry"
	"github.com/Prescott-Data/nextdoor/router"
)

// Bridge manages persistent connections.
type Bridge struct {
	dispatcher     Dispatcher
	logger         Logger
	metrics        Metrics
	policy         *ReconnectPolicy
	reconnectDelay time.Duration
	capacity       int
	pingInterval   time.Duration
	ws             *WebSocketDialer
	dialer         Dialer
	onConnect      ConnectHook
	onDisconnect   DisconnectHook

	sleep func(ctx context.Context, d time.Duration) bool
}

// New creates a new Bridge with optional configurations.
func New(dispatcher Dispatcher, opts ...Option) *Bridge {
	// Define default values
	bridge := &Bridge{
		dispatcher:     dispatcher,
		logger:         &nopLogger{},
		metrics:        &nopMetrics{},
		reconnectDelay: time.Second,
		capacity:       100,
		pingInterval:   30 * time.Second,
		ws:             NewWebSocketDialer(),
		sleep:          sleepContext,
	}

	// Apply all the functional options provided by the user
	for _, opt := range opts {
		opt(bridge)
	}

	if bridge.dialer == nil {
		if bridge.pingInterval > 0 && bridge.ws.PongWait == 0 {
			bridge.ws.PongWait = bridge.pingInterval + bridge.ws.WriteTimeout
		}
		bridge.dialer = bridge.ws
	}

	return bridge
}

// NewStandard creates a new Bridge with production-ready defaults:
// - Structured JSON logging (Slog) to Stdout
// - Prometheus metrics registered to the default registry
func NewStandard(dispatcher Dispatcher, agentLabels map[string]string, opts ...Option) *Bridge {
	defaultOpts := []Option{
		WithLogger(telemetry.NewLogger()),
		WithMetrics(telemetry.NewMetrics(nil, agentLabels)), // nil = use default registry
	}
	finalOpts := append(defaultOpts, opts...)
	return New(dispatcher, finalOpts...)
}

// connResult is how a single connection ended.
type connResult struct {
	shutdown  bool
	reconnect bool
	url       string
	err       error
}

// MaintainWebSocket is the main entry point. It connects to endpointURL and
// serves the connection, reconnecting until ctx is cancelled or a terminal
// error occurs. Cancellation returns nil.
//
// Failed connection attempts are retried per the ReconnectPolicy, if any;
// the retry count starts over after every successful connection. Dropped
// connections and handler-requested reconnects wait the fixed reconnect
// delay and never consume retries.
func (b *Bridge) MaintainWebSocket(ctx context.Context, connectionID string, endpointURL string) error {
	if connectionID == "" {
		connectionID = uuid.NewString()
	}
	var retry *backoff
	if b.policy != nil {
		retry = newBackoff(*b.policy)
	}
	defer b.metrics.SetConnectionStatus(0)

	currentURL := endpointURL
	for {
		if ctx.Err() != nil {
			b.logger.Info("Context cancelled; shutting down bridge", "connectionID", connectionID)
			return nil
		}
		endpoint := telemetry.RedactURL(currentURL)

		conn, err := b.dialer.Dial(ctx, currentURL)
		if err != nil {
			if ctx.Err() != nil {
				b.logger.Info("Context cancelled while connecting; shutting down bridge", "connectionID", connectionID)
				return nil
			}
			var permanentErr *PermanentError
			if errors.As(err, &permanentErr) {
				b.logger.Error(err, "Permanent error; will not retry", "connectionID", connectionID, "endpoint", endpoint)
				return err
			}

			b.metrics.IncConnectFailures()
			transportErr := &TransportError{Op: "dial", URL: endpoint, Err: err}
			if retry == nil {
				b.logger.Error(transportErr, "Connection failed and no reconnect policy is set", "connectionID", connectionID)
				return transportErr
			}
			delay, ok := retry.next()
			if !ok {
				b.logger.Error(transportErr, "Giving up after max retries", "connectionID", connectionID, "attempt", retry.retries)
				return fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, transportErr)
			}
			b.logger.Info("Reconnecting", "connectionID", connectionID, "endpoint", endpoint, "attempt", retry.retries, "after", delay)
			if !b.sleep(ctx, delay) {
				return nil
			}
			continue
		}

		if retry != nil {
			retry.reset()
		}
		res := b.serve(ctx, connectionID, endpoint, conn)
		switch {
		case res.shutdown:
			b.logger.Info("Context cancelled; shutting down bridge", "connectionID", connectionID)
			return nil
		case res.reconnect:
			b.metrics.IncRedirects()
			if res.url != "" {
				if err := checkEndpoint(res.url); err != nil {
					b.logger.Error(err, "Ignoring invalid reconnect target; keeping current endpoint", "connectionID", connectionID, "endpoint", endpoint)
				} else {
					currentURL = res.url
				}
			}
			b.logger.Info("Handler requested reconnect", "connectionID", connectionID, "endpoint", telemetry.RedactURL(currentURL), "after", b.reconnectDelay)
		default:
			b.logger.Error(res.err, "Connection lost; reconnecting", "connectionID", connectionID, "endpoint", endpoint, "after", b.reconnectDelay)
		}
		if !b.sleep(ctx, b.reconnectDelay) {
			return nil
		}
	}
}

// serve runs the reader and writer of one connection and waits for the
// first of: reader done, writer done, shutdown.
func (b *Bridge) serve(ctx context.Context, connectionID, endpoint string, conn Transport) connResult {
	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer conn.Close()

	b.metrics.IncConnections()
	b.metrics.SetConnectionStatus(1)
	b.logger.Info("Successfully established WebSocket connection", "connectionID", connectionID, "endpoint", endpoint)

	outbound := make(chan router.Frame, b.capacity)
	readDone := make(chan connResult, 1)
	writeDone := make(chan error, 1)

	// Either pump finishing cancels connCtx, so a send from the connect hook
	// never waits on a dead connection.
	go func() {
		readDone <- b.readPump(connCtx, connectionID, endpoint, conn, outbound)
		cancel()
	}()
	go func() {
		writeDone <- b.writePump(connCtx, endpoint, conn, outbound)
		cancel()
	}()

	if b.onConnect != nil {
		b.onConnect(func(frame router.Frame) error {
			select {
			case outbound <- frame:
				return nil
			case <-connCtx.Done():
				return ErrConnectionClosed
			}
		})
	}

	var res connResult
	select {
	case <-ctx.Done():
	case res = <-readDone:
		// The reader only sees ErrConnectionClosed after the writer stopped.
		if errors.Is(res.err, ErrConnectionClosed) {
			res = connResult{err: <-writeDone}
		}
	case err := <-writeDone:
		// Cancelled by a finished reader; its result is already queued.
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			res = <-readDone
		} else {
			res = connResult{err: err}
		}
	}
	if ctx.Err() != nil {
		return connResult{shutdown: true}
	}

	b.metrics.IncDisconnects()
	b.metrics.SetConnectionStatus(0)
	if b.onDisconnect != nil {
		err := res.err
		if res.reconnect {
			err = ErrReconnectRequested
		}
		b.onDisconnect(err)
	}
	return res
}

// readPump handles inbound frames one at a time so responses are queued in
// request order. Handler errors are logged and never end the connection.
func (b *Bridge) readPump(ctx context.Context, connectionID, endpoint string, conn Transport, outbound chan<- router.Frame) connResult {
	for {
		frame, err := conn.Receive()
		if err != nil {
			return connResult{err: &TransportError{Op: "receive", URL: endpoint, Err: err}}
		}

		req := router.Classify(frame)
		res := b.dispatch(ctx, connectionID, req)
		b.metrics.ObserveDispatch(req.Kind().String(), res.Status.String())

		switch {
		case res.Status.IsReconnect():
			return connResult{reconnect: true, url: res.Body}
		case res.Status.IsSuccess():
			select {
			case outbound <- router.TextFrame(res.Body):
			case <-ctx.Done():
				return connResult{err: ErrConnectionClosed}
			}
		default:
			b.logger.Info("Handler returned an error response", "connectionID", connectionID,
				"kind", req.Kind().String(), "status", res.Status.String(), "body", res.Body)
		}
	}
}

// dispatch keeps a panicking Dispatcher from taking down the process.
func (b *Bridge) dispatch(ctx context.Context, connectionID string, req router.Request) (res router.Response) {
	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("dispatcher panic: %v", p)
			b.logger.Error(err, "Recovered from dispatcher panic", "connectionID", connectionID, "kind", req.Kind().String())
			res = router.Error(router.StatusNotImplemented, err.Error())
		}
	}()
	return b.dispatcher.Dispatch(ctx, req)
}

// writePump is the only writer of data frames on the connection.
func (b *Bridge) writePump(ctx context.Context, endpoint string, conn Transport, outbound <-chan router.Frame) error {
	var pingC <-chan time.Time
	if b.pingInterval > 0 {
		pingTicker := time.NewTicker(b.pingInterval)
		defer pingTicker.Stop()
		pingC = pingTicker.C
	}

	for {
		select {
		case frame := <-outbound:
			if err := conn.Send(frame); err != nil {
				return &TransportError{Op: "send", URL: endpoint, Err: err}
			}
		case <-pingC:
			// Assume connection is dead if ping fails.
			if err := conn.Send(router.Frame{Kind: router.FramePing}); err != nil {
				return &TransportError{Op: "ping", URL: endpoint, Err: err}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
