package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all daemon configuration.
type Config struct {
	Server        ServerConfig
	Workspace     WorkspaceConfig
	Observability ObservabilityConfig
	Audit         AuditConfig
	Journal       JournalConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for probes)
	HealthPort string
}

// WorkspaceConfig points at the workspace file feeding the structural model.
type WorkspaceConfig struct {
	Path           string
	ReloadDebounce time.Duration
}

// ObservabilityConfig holds logging and metrics settings.
type ObservabilityConfig struct {
	LogLevel       string
	LogFormat      string
	MetricsEnabled bool
}

// AuditConfig schedules the periodic index consistency audit.
type AuditConfig struct {
	Enabled  bool
	Schedule string
}

// JournalConfig bounds the recent-event journal.
type JournalConfig struct {
	Size int
	TTL  time.Duration
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("DEPSCOPE_HOST", "0.0.0.0"),
			Port:            getEnv("DEPSCOPE_PORT", "8080"),
			ReadTimeout:     getEnvDuration("DEPSCOPE_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("DEPSCOPE_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("DEPSCOPE_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("DEPSCOPE_SHUTDOWN_TIMEOUT", 30*time.Second),
			HealthPort:      getEnv("DEPSCOPE_HEALTH_PORT", "9090"),
		},
		Workspace: WorkspaceConfig{
			Path:           getEnv("DEPSCOPE_WORKSPACE", ""),
			ReloadDebounce: getEnvDuration("DEPSCOPE_RELOAD_DEBOUNCE", 500*time.Millisecond),
		},
		Observability: ObservabilityConfig{
			LogLevel:       getEnv("DEPSCOPE_LOG_LEVEL", "info"),
			LogFormat:      getEnv("DEPSCOPE_LOG_FORMAT", "text"),
			MetricsEnabled: getEnvBool("DEPSCOPE_METRICS_ENABLED", true),
		},
		Audit: AuditConfig{
			Enabled:  getEnvBool("DEPSCOPE_AUDIT_ENABLED", true),
			Schedule: getEnv("DEPSCOPE_AUDIT_SCHEDULE", "*/10 * * * *"),
		},
		Journal: JournalConfig{
			Size: getEnvInt("DEPSCOPE_JOURNAL_SIZE", 256),
			TTL:  getEnvDuration("DEPSCOPE_JOURNAL_TTL", time.Hour),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}
	if c.Workspace.Path == "" {
		return fmt.Errorf("DEPSCOPE_WORKSPACE is required")
	}
	switch strings.ToLower(c.Observability.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Observability.LogLevel)
	}
	if c.Journal.Size < 1 {
		return fmt.Errorf("journal size must be positive")
	}
	return nil
}

// getEnv returns an environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
