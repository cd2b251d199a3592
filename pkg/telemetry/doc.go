// Package telemetry provides logging, tracing and metrics for crudapi.
//
// It bundles three pieces behind a single Telemetry value:
//
//  1. Structured Logging - zerolog, with the logger carried in the context
//  2. Distributed Tracing - OpenTelemetry spans exported over OTLP or stdout
//  3. Metrics Collection - Prometheus collectors on a private registry
//
// # Usage
//
// Initialize telemetry at application startup:
//
//	cfg := telemetry.DefaultConfig()
//	cfg.ServiceVersion = "1.0.0"
//
//	tel, err := telemetry.NewTelemetry(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tel.Shutdown(context.Background())
//
// # Instrumenting an Operation
//
// StartOperation opens a span, derives an operation-scoped logger carrying the
// trace and span ids, and starts a timer:
//
//	ic := tel.StartOperation(ctx, "items.create")
//	err := doWork(ic.Ctx)
//	tel.Metrics.RecordRequest("items.create", "POST", status, ic.Timer.Duration())
//	ic.End(err)
//
// Code further down the call chain recovers the logger with FromContext.
//
// # Log Levels
//
// The minimum level is process-wide. SetLevel changes it for every logger
// already handed out, which is how a config reload takes effect.
//
// Log levels: trace, debug, info, warn, error, fatal
//
// # Metrics
//
// Metrics are namespaced (default "crudapi") and exposed through Handler on
// the path returned by Path:
//
//   - http_requests_total{operation,method,status}
//   - http_request_duration_seconds{operation,method}
//   - http_requests_in_flight
//   - errors_by_class_total{class}, errors_by_code_total{code}
//
// When metrics are disabled every recording method is a no-op and Path
// returns "".
package telemetry
