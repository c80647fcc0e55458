package payments

import (
	"context"
	"strings"

	"github.com/LerianStudio/payments-engine/payments/internal/nilcheck"
	"github.com/LerianStudio/payments-engine/payments/log"
	"github.com/LerianStudio/payments-engine/payments/opentelemetry/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTracerName names the tracer and meter used when the context carries none.
const DefaultTracerName = "payments.default"

type trackingKey struct{}

// tracking is the run-scoped state carried by a context. It is never
// mutated once stored; every ContextWith* call stores a modified copy.
type tracking struct {
	runID   string
	tracer  trace.Tracer
	logger  log.Logger
	factory *metrics.MetricsFactory
}

func trackingFrom(ctx context.Context) tracking {
	if t, ok := ctx.Value(trackingKey{}).(tracking); ok {
		return t
	}

	return tracking{}
}

func withTracking(ctx context.Context, set func(*tracking)) context.Context {
	t := trackingFrom(ctx)
	set(&t)

	return context.WithValue(ctx, trackingKey{}, t)
}

// ContextWithLogger returns a copy of ctx carrying logger.
func ContextWithLogger(ctx context.Context, logger log.Logger) context.Context {
	return withTracking(ctx, func(t *tracking) { t.logger = logger })
}

// ContextWithTracer returns a copy of ctx carrying tracer.
func ContextWithTracer(ctx context.Context, tracer trace.Tracer) context.Context {
	return withTracking(ctx, func(t *tracking) { t.tracer = tracer })
}

// ContextWithMetricFactory returns a copy of ctx carrying factory.
func ContextWithMetricFactory(ctx context.Context, factory *metrics.MetricsFactory) context.Context {
	return withTracking(ctx, func(t *tracking) { t.factory = factory })
}

// ContextWithRunID returns a copy of ctx carrying the run correlation id.
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return withTracking(ctx, func(t *tracking) { t.runID = strings.TrimSpace(runID) })
}

// NewTrackingFromContext returns the logger, tracer, run id and metrics
// factory carried by ctx. Missing pieces are replaced by working defaults:
// a NopLogger, the global tracer, a fresh UUID and a factory over the
// global meter provider.
//
//nolint:ireturn
func NewTrackingFromContext(ctx context.Context) (log.Logger, trace.Tracer, string, *metrics.MetricsFactory) {
	t := trackingFrom(ctx)

	logger := t.logger
	if nilcheck.Interface(logger) {
		logger = log.NewNop()
	}

	tracer := t.tracer
	if nilcheck.Interface(tracer) {
		tracer = otel.Tracer(DefaultTracerName)
	}

	runID := t.runID
	if runID == "" {
		runID = uuid.NewString()
	}

	factory := t.factory
	if factory == nil {
		var err error

		factory, err = metrics.NewMetricsFactory(otel.GetMeterProvider().Meter(DefaultTracerName), logger)
		if err != nil {
			factory = metrics.NewNopFactory()
		}
	}

	return logger, tracer, runID, factory
}
