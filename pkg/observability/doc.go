// Package observability provides logging, metrics, health probes and graceful
// shutdown for the depscope daemon.
//
// # Overview
//
// Logging is structured logrus; NewLogger configures level and format from
// configuration. Metrics are Prometheus collectors describing the dependency
// index (tracked resources, emitted events, scan duration, audit drift) plus
// HTTP request metrics. Health probes run on a separate port so orchestration
// can reach them even when the API server is saturated.
//
// # Usage Example
//
//	log := observability.NewLogger("debug", "text")
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//
//	health := observability.NewHealthChecker()
//	health.AddCheck("index", func(ctx context.Context) error {
//		// return nil when the index is consistent
//		return nil
//	})
package observability
