// Package config loads crudapi configuration.
//
// Connection and listener settings come from environment variables (see
// Config). Telemetry settings come from an optional YAML file layered over
// telemetry.DefaultConfig, with CRUDAPI_* environment overrides, and can be
// watched for live log level changes.
package config
