// Package opentelemetry sets up the process telemetry providers and holds
// the span helpers used by the engine run.
//
// NewTelemetry exports over OTLP/gRPC when enabled and otherwise keeps the
// providers in-process. Metrics live in the metrics subpackage.
package opentelemetry
