package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors for the control surface: the
// HTTP/websocket API fronting the agent fleet, as distinct from the
// per-agent domain metrics in internal/goap/metrics.
type Metrics struct {
	HTTPRequestLatency *prometheus.HistogramVec
	ErrorRates         *prometheus.CounterVec
	SnapshotCacheHits  *prometheus.GaugeVec
	AgentsRunning      prometheus.Gauge
	ActiveConnections  *prometheus.GaugeVec
}

// NewMetrics initializes and returns a new Metrics struct.
func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		}, []string{"method", "path", "status"}),
		ErrorRates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "error_rate_total",
			Help: "Total number of errors",
		}, []string{"service", "endpoint", "error_type"}),
		SnapshotCacheHits: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "snapshot_cache_hit_rate",
			Help: "WorldState snapshot cache hit rate (0.0-1.0)",
		}, []string{"agent_id"}),
		AgentsRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "agents_running",
			Help: "Number of agent loops currently running",
		}),
		ActiveConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "active_connections",
			Help: "Number of active connections",
		}, []string{"type"}), // websocket, database
	}
}

// Register registers all metrics with the provided registry.
func (m *Metrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(
		m.HTTPRequestLatency,
		m.ErrorRates,
		m.SnapshotCacheHits,
		m.AgentsRunning,
		m.ActiveConnections,
	)
}
