package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PromMetrics implements the bridge.Metrics interface using Prometheus.
type PromMetrics struct {
	connections     prometheus.Counter
	disconnects     prometheus.Counter
	redirects       prometheus.Counter
	connectFailures prometheus.Counter
	dispatches      *prometheus.CounterVec
	connStatus      prometheus.Gauge
}

// NewMetrics creates and registers standard bridge metrics.
// If registry is nil, it uses the global default registry.
func NewMetrics(registry prometheus.Registerer, agentLabels map[string]string) *PromMetrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	m := &PromMetrics{
		connections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "bridge",
			Name:        "connections_total",
			Help:        "Total number of successful WebSocket connections established.",
			ConstLabels: agentLabels,
		}),
		disconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "bridge",
			Name:        "disconnects_total",
			Help:        "Total number of WebSocket disconnects.",
			ConstLabels: agentLabels,
		}),
		redirects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "bridge",
			Name:        "handler_reconnects_total",
			Help:        "Total number of reconnects requested by message handlers.",
			ConstLabels: agentLabels,
		}),
		connectFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "bridge",
			Name:        "connect_failures_total",
			Help:        "Total number of failed connection attempts.",
			ConstLabels: agentLabels,
		}),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "bridge",
			Name:        "dispatches_total",
			Help:        "Inbound frames dispatched, by frame kind and response status.",
			ConstLabels: agentLabels,
		}, []string{"kind", "status"}),
		connStatus: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "bridge",
			Name:        "connection_status",
			Help:        "Current status of the connection (1 = connected, 0 = disconnected).",
			ConstLabels: agentLabels,
		}),
	}

	registry.MustRegister(m.connections)
	registry.MustRegister(m.disconnects)
	registry.MustRegister(m.redirects)
	registry.MustRegister(m.connectFailures)
	registry.MustRegister(m.dispatches)
	registry.MustRegister(m.connStatus)

	return m
}

func (m *PromMetrics) IncConnections() {
	m.connections.Inc()
}

func (m *PromMetrics) IncDisconnects() {
	m.disconnects.Inc()
}

func (m *PromMetrics) IncRedirects() {
	m.redirects.Inc()
}

func (m *PromMetrics) IncConnectFailures() {
	m.connectFailures.Inc()
}

func (m *PromMetrics) ObserveDispatch(kind, status string) {
	m.dispatches.WithLabelValues(kind, status).Inc()
}

func (m *PromMetrics) SetConnectionStatus(status float64) {
	m.connStatus.Set(status)
}
