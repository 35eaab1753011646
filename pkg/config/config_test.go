package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DEPSCOPE_WORKSPACE", "/etc/depscope/workspace.yaml")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "9090", cfg.Server.HealthPort)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "/etc/depscope/workspace.yaml", cfg.Workspace.Path)
	assert.Equal(t, 500*time.Millisecond, cfg.Workspace.ReloadDebounce)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
	assert.True(t, cfg.Observability.MetricsEnabled)
	assert.True(t, cfg.Audit.Enabled)
	assert.Equal(t, "*/10 * * * *", cfg.Audit.Schedule)
	assert.Equal(t, 256, cfg.Journal.Size)
	assert.Equal(t, time.Hour, cfg.Journal.TTL)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DEPSCOPE_WORKSPACE", "/tmp/ws.yaml")
	t.Setenv("DEPSCOPE_PORT", "8888")
	t.Setenv("DEPSCOPE_LOG_LEVEL", "debug")
	t.Setenv("DEPSCOPE_METRICS_ENABLED", "false")
	t.Setenv("DEPSCOPE_RELOAD_DEBOUNCE", "2s")
	t.Setenv("DEPSCOPE_JOURNAL_SIZE", "32")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8888", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
	assert.False(t, cfg.Observability.MetricsEnabled)
	assert.Equal(t, 2*time.Second, cfg.Workspace.ReloadDebounce)
	assert.Equal(t, 32, cfg.Journal.Size)
}

func TestLoadConfigRequiresWorkspace(t *testing.T) {
	t.Setenv("DEPSCOPE_WORKSPACE", "")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidateRejectsSharedPorts(t *testing.T) {
	t.Setenv("DEPSCOPE_WORKSPACE", "/tmp/ws.yaml")
	t.Setenv("DEPSCOPE_PORT", "8080")
	t.Setenv("DEPSCOPE_HEALTH_PORT", "8080")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	t.Setenv("DEPSCOPE_WORKSPACE", "/tmp/ws.yaml")
	t.Setenv("DEPSCOPE_LOG_LEVEL", "verbose")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("DEPSCOPE_WORKSPACE", "/tmp/ws.yaml")
	t.Setenv("DEPSCOPE_JOURNAL_SIZE", "not-a-number")
	t.Setenv("DEPSCOPE_RELOAD_DEBOUNCE", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.Journal.Size)
	assert.Equal(t, 500*time.Millisecond, cfg.Workspace.ReloadDebounce)
}
