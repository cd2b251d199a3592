package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfroyo/crudapi/pkg/telemetry"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadTelemetryDefaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	cfg, v, err := LoadTelemetry("", "")
	require.NoError(t, err)
	require.NotNil(t, v)

	def := telemetry.DefaultConfig()
	assert.Equal(t, def.ServiceName, cfg.ServiceName)
	assert.Equal(t, def.Logging.Level, cfg.Logging.Level)
	assert.Equal(t, def.Metrics.Path, cfg.Metrics.Path)
	assert.Equal(t, def.Tracing.ExportTimeout, cfg.Tracing.ExportTimeout)
	assert.Empty(t, v.ConfigFileUsed())
}

func TestLoadTelemetryFile(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	path := filepath.Join(t.TempDir(), "crudapi.yaml")
	writeFile(t, path, `
environment: staging
logging:
  level: debug
  format: json
tracing:
  enabled: true
  exporter: none
  export_timeout: 10s
metrics:
  path: /internal/metrics
  histogram_buckets: [0.01, 0.1, 1]
`)

	cfg, _, err := LoadTelemetry(path, "")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Tracing.ExportTimeout)
	assert.Equal(t, "/internal/metrics", cfg.Metrics.Path)
	assert.Equal(t, []float64{0.01, 0.1, 1}, cfg.Metrics.DefaultHistogramBuckets)
	// Unset keys keep their defaults
	assert.Equal(t, "crudapi", cfg.Metrics.Namespace)
}

func TestLoadTelemetryEnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("CRUDAPI_METRICS_ENABLED", "false")

	cfg, _, err := LoadTelemetry("", "")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadTelemetryErrors(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	_, _, err := LoadTelemetry(filepath.Join(t.TempDir(), "missing.yaml"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, path, "logging:\n  level: loud\n")
	_, _, err = LoadTelemetry(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid telemetry config")
}

func TestWatchTelemetry(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	_, v, err := LoadTelemetry("", "")
	require.NoError(t, err)
	assert.False(t, WatchTelemetry(v, func(*telemetry.Config, error) {}), "no file, nothing to watch")

	path := filepath.Join(t.TempDir(), "crudapi.yaml")
	writeFile(t, path, "logging:\n  level: info\n")

	_, v, err = LoadTelemetry(path, "")
	require.NoError(t, err)

	changed := make(chan string, 16)
	require.True(t, WatchTelemetry(v, func(cfg *telemetry.Config, err error) {
		if err != nil {
			return
		}
		select {
		case changed <- cfg.Logging.Level:
		default:
		}
	}))

	writeFile(t, path, "logging:\n  level: debug\n")

	// A rewrite can surface as several events, some observing a truncated file.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case level := <-changed:
			if level == "debug" {
				return
			}
		case <-deadline:
			t.Fatal("config change was not observed")
		}
	}
}

func TestLoadTelemetryPreset(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	cfg, _, err := LoadTelemetry("", "production")
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "otlp", cfg.Tracing.Exporter)

	_, _, err = LoadTelemetry("", "staging")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown environment preset")
}
