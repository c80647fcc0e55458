//go:build unit

package payments

import (
	"context"
	"testing"

	"github.com/LerianStudio/payments-engine/payments/log"
	"github.com/LerianStudio/payments-engine/payments/opentelemetry/metrics"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestNewTrackingFromContextDefaults(t *testing.T) {
	t.Parallel()

	logger, tracer, runID, factory := NewTrackingFromContext(context.Background())

	assert.IsType(t, &log.NopLogger{}, logger)
	assert.NotNil(t, tracer)
	assert.NotNil(t, factory)

	_, err := uuid.Parse(runID)
	require.NoError(t, err)
}

func TestNewTrackingFromContextPreservesValues(t *testing.T) {
	t.Parallel()

	logger := log.NewNop()
	tracer := noop.NewTracerProvider().Tracer("test")
	factory := metrics.NewNopFactory()

	ctx := ContextWithLogger(context.Background(), logger)
	ctx = ContextWithTracer(ctx, tracer)
	ctx = ContextWithMetricFactory(ctx, factory)
	ctx = ContextWithRunID(ctx, "  run-1 ")

	gotLogger, gotTracer, gotRunID, gotFactory := NewTrackingFromContext(ctx)

	assert.Equal(t, logger, gotLogger)
	assert.Equal(t, tracer, gotTracer)
	assert.Equal(t, "run-1", gotRunID)
	assert.Same(t, factory, gotFactory)
}

func TestContextHelpersDoNotMutateParent(t *testing.T) {
	t.Parallel()

	parent := ContextWithRunID(context.Background(), "parent")
	child := ContextWithRunID(parent, "child")

	_, _, parentID, _ := NewTrackingFromContext(parent)
	_, _, childID, _ := NewTrackingFromContext(child)

	assert.Equal(t, "parent", parentID)
	assert.Equal(t, "child", childID)
}

func TestNewTrackingFromContextReplacesTypedNils(t *testing.T) {
	t.Parallel()

	var typedNil *log.NopLogger

	ctx := ContextWithLogger(context.Background(), typedNil)
	ctx = ContextWithRunID(ctx, "   ")

	logger, _, runID, _ := NewTrackingFromContext(ctx)

	assert.NotPanics(t, func() {
		logger.Log(ctx, log.LevelInfo, "hello")
	})
	assert.NotEmpty(t, runID)
}
