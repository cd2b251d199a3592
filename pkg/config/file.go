package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/openfroyo/crudapi/pkg/telemetry"
)

const envPrefix = "CRUDAPI"

// LoadTelemetry reads telemetry settings from the YAML file at path, layered
// over the named preset (see telemetry.PresetConfig). An empty path uses the
// preset and environment overrides only. The returned viper instance can be
// passed to WatchTelemetry.
func LoadTelemetry(path, preset string) (*telemetry.Config, *viper.Viper, error) {
	base, err := telemetry.PresetConfig(preset)
	if err != nil {
		return nil, nil, err
	}

	v := viper.New()
	setTelemetryDefaults(v, base)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("logging.level", envPrefix+"_LOGGING_LEVEL", "LOG_LEVEL"); err != nil {
		return nil, nil, fmt.Errorf("bind env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg, err := decodeTelemetry(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

func decodeTelemetry(v *viper.Viper) (*telemetry.Config, error) {
	cfg := &telemetry.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode telemetry config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid telemetry config: %w", err)
	}
	return cfg, nil
}

// setTelemetryDefaults registers every key so env overrides are seen by Unmarshal.
func setTelemetryDefaults(v *viper.Viper, d *telemetry.Config) {
	v.SetDefault("service_name", d.ServiceName)
	v.SetDefault("service_version", d.ServiceVersion)
	v.SetDefault("environment", d.Environment)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.enable_caller", d.Logging.EnableCaller)
	v.SetDefault("logging.time_format", d.Logging.TimeFormat)

	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
	v.SetDefault("tracing.sampling_rate", d.Tracing.SamplingRate)
	v.SetDefault("tracing.max_export_batch_size", d.Tracing.MaxExportBatchSize)
	v.SetDefault("tracing.export_timeout", d.Tracing.ExportTimeout)
	v.SetDefault("tracing.insecure", d.Tracing.Insecure)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("metrics.histogram_buckets", d.Metrics.DefaultHistogramBuckets)
}
