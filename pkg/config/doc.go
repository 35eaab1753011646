// Package config loads daemon configuration from environment variables.
//
// All variables are prefixed DEPSCOPE_. Everything has a sensible default
// except the workspace path, which must point at an existing workspace file.
//
//	DEPSCOPE_WORKSPACE          path to the workspace yaml (required)
//	DEPSCOPE_HOST               API bind host (default 0.0.0.0)
//	DEPSCOPE_PORT               API port (default 8080)
//	DEPSCOPE_HEALTH_PORT        health/metrics port (default 9090)
//	DEPSCOPE_LOG_LEVEL          debug|info|warn|error (default info)
//	DEPSCOPE_LOG_FORMAT         text|json (default text)
//	DEPSCOPE_METRICS_ENABLED    default true
//	DEPSCOPE_AUDIT_ENABLED      default true
//	DEPSCOPE_AUDIT_SCHEDULE     cron spec for consistency audits (default every 10 minutes)
//	DEPSCOPE_RELOAD_DEBOUNCE    workspace watcher debounce (default 500ms)
//	DEPSCOPE_JOURNAL_SIZE       max recent-event entries (default 256)
//	DEPSCOPE_JOURNAL_TTL        recent-event retention (default 1h)
package config
