package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the departures service
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Store Metrics
	StoreWritesTotal      *prometheus.CounterVec
	StoreWriteDuration    *prometheus.HistogramVec
	SnapshotsReceived     prometheus.Counter
	RealtimeSubscriptions prometheus.Gauge

	// Business Metrics
	DeparturesCurrent prometheus.Gauge
	ImportsTotal      *prometheus.CounterVec
	SignalsTotal      *prometheus.CounterVec
	FormSessions      prometheus.Counter
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry registered on reg
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "avganger_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "avganger_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "avganger_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Store Metrics
		StoreWritesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "avganger_store_writes_total",
				Help: "Full-collection writes by backend and result",
			},
			[]string{"backend", "result"},
		),
		StoreWriteDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "avganger_store_write_duration_seconds",
				Help:    "Full-collection write time in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"backend"},
		),
		SnapshotsReceived: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "avganger_snapshots_received_total",
				Help: "Collection snapshots delivered by the store",
			},
		),
		RealtimeSubscriptions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "avganger_realtime_subscriptions",
				Help: "Open websocket snapshot streams",
			},
		),

		// Business Metrics
		DeparturesCurrent: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "avganger_departures",
				Help: "Departures in the latest snapshot",
			},
		),
		ImportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "avganger_imports_total",
				Help: "Backup imports by mode",
			},
			[]string{"mode"},
		),
		SignalsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "avganger_signals_total",
				Help: "Toast signals emitted by kind",
			},
			[]string{"kind"},
		),
		FormSessions: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "avganger_form_sessions_created_total",
				Help: "Form sessions opened",
			},
		),
	}
}

// ObserveSnapshot records an inbound snapshot of n records.
func (m *MetricsRegistry) ObserveSnapshot(n int) {
	if m == nil {
		return
	}
	m.SnapshotsReceived.Inc()
	m.DeparturesCurrent.Set(float64(n))
}

// ObserveWrite records a full-collection write.
func (m *MetricsRegistry) ObserveWrite(backend string, seconds float64, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.StoreWritesTotal.WithLabelValues(backend, result).Inc()
	m.StoreWriteDuration.WithLabelValues(backend).Observe(seconds)
}

// ObserveImport counts an applied import.
func (m *MetricsRegistry) ObserveImport(mode string) {
	if m == nil {
		return
	}
	m.ImportsTotal.WithLabelValues(mode).Inc()
}

// ObserveSignal counts a toast signal.
func (m *MetricsRegistry) ObserveSignal(kind string) {
	if m == nil {
		return
	}
	m.SignalsTotal.WithLabelValues(kind).Inc()
}

// ObserveFormSession counts a newly opened form session.
func (m *MetricsRegistry) ObserveFormSession() {
	if m == nil {
		return
	}
	m.FormSessions.Inc()
}

// StreamOpened and StreamClosed track open websocket snapshot streams.
func (m *MetricsRegistry) StreamOpened() {
	if m == nil {
		return
	}
	m.RealtimeSubscriptions.Inc()
}

func (m *MetricsRegistry) StreamClosed() {
	if m == nil {
		return
	}
	m.RealtimeSubscriptions.Dec()
}
