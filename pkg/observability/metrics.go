package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the daemon.
type Metrics struct {
	registry *prometheus.Registry

	// Index metrics
	TrackedResources      *prometheus.GaugeVec
	DependencyEventsTotal *prometheus.CounterVec
	SetupDurationSeconds  prometheus.Histogram
	AuditDriftKeys        prometheus.Gauge
	AuditRunsTotal        *prometheus.CounterVec

	// Workspace metrics
	WorkspaceReloadsTotal *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,

		TrackedResources: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "depscope_tracked_resources",
				Help: "Number of distinct shared resources currently referenced by at least one module",
			},
			[]string{"kind"},
		),
		DependencyEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depscope_dependency_events_total",
				Help: "Total dependency index events emitted to observers",
			},
			[]string{"event", "kind"},
		),
		SetupDurationSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "depscope_setup_duration_seconds",
				Help:    "Duration of the initial full dependency scan",
				Buckets: prometheus.DefBuckets,
			},
		),
		AuditDriftKeys: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "depscope_audit_drift_keys",
				Help: "Resource keys whose live referrer count disagreed with the model in the last audit",
			},
		),
		AuditRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depscope_audit_runs_total",
				Help: "Total consistency audit runs",
			},
			[]string{"result"},
		),
		WorkspaceReloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depscope_workspace_reloads_total",
				Help: "Total workspace file reloads",
			},
			[]string{"result"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depscope_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "depscope_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}

	registry.MustRegister(
		m.TrackedResources,
		m.DependencyEventsTotal,
		m.SetupDurationSeconds,
		m.AuditDriftKeys,
		m.AuditRunsTotal,
		m.WorkspaceReloadsTotal,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)
	return m
}

// Handler returns the /metrics endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
