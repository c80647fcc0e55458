// Package payments holds process-wide helpers shared by the engine packages:
// the context carrier for logger, tracer and metrics, and environment-driven
// configuration loading.
//
// Typical wiring at startup:
//
//	ctx = payments.ContextWithLogger(ctx, logger)
//	ctx = payments.ContextWithTracer(ctx, tracer)
//	ctx = payments.ContextWithRunID(ctx, runID)
//
// The ledger itself lives in the ledger and account subpackages.
package payments
