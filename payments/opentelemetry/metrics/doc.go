// Package metrics provides a fluent factory for OpenTelemetry metric instruments.
//
// MetricsFactory caches instruments and exposes builder-style APIs for counters,
// gauges, and histograms. Convenience methods (for example
// RecordTransactionApplied) cover the ledger metrics emitted by the engine.
package metrics
