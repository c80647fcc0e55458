//go:build unit

package zap

import (
	"context"
	"errors"
	"testing"
	"time"

	logpkg "github.com/LerianStudio/payments-engine/payments/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, observed := observer.New(level)

	return NewWithCore(core), observed
}

func TestLoggerNilReceiverFallsBackToNop(t *testing.T) {
	t.Parallel()

	var nilLogger *Logger

	assert.NotPanics(t, func() {
		nilLogger.Log(context.Background(), logpkg.LevelInfo, "message")
		_ = nilLogger.With(logpkg.Client(1))
	})

	empty := &Logger{}
	assert.NotPanics(t, func() {
		empty.Log(context.Background(), logpkg.LevelWarn, "message")
	})
	assert.False(t, empty.Enabled(logpkg.LevelError))
}

func TestLogMapsLevels(t *testing.T) {
	t.Parallel()

	logger, observed := newObservedLogger(zapcore.DebugLevel)
	ctx := context.Background()

	logger.Log(ctx, logpkg.LevelDebug, "debug message")
	logger.Log(ctx, logpkg.LevelInfo, "info message", logpkg.String("client", "1"))
	logger.Log(ctx, logpkg.LevelWarn, "warn message")
	logger.Log(ctx, logpkg.LevelError, "error message", logpkg.Err(errors.New("boom")))

	entries := observed.All()
	require.Len(t, entries, 4)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, "1", entries[1].ContextMap()["client"])
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	assert.Equal(t, "error message", entries[3].Message)
}

func TestLogInjectsTraceFields(t *testing.T) {
	t.Parallel()

	logger, observed := newObservedLogger(zapcore.InfoLevel)

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	logger.Log(ctx, logpkg.LevelInfo, "applied")

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, traceID.String(), entries[0].ContextMap()["trace_id"])
	assert.Equal(t, spanID.String(), entries[0].ContextMap()["span_id"])
}

func TestLogWithoutSpanOmitsTraceFields(t *testing.T) {
	t.Parallel()

	logger, observed := newObservedLogger(zapcore.InfoLevel)
	logger.Log(context.Background(), logpkg.LevelInfo, "plain")

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].ContextMap(), "trace_id")
}

func TestWithAddsFields(t *testing.T) {
	t.Parallel()

	logger, observed := newObservedLogger(zapcore.InfoLevel)

	child := logger.With(logpkg.Client(7))
	child.Log(context.Background(), logpkg.LevelInfo, "with", logpkg.Tx(12))
	logger.Log(context.Background(), logpkg.LevelInfo, "without")

	entries := observed.All()
	require.Len(t, entries, 2)
	assert.EqualValues(t, 7, entries[0].ContextMap()["client"])
	assert.EqualValues(t, 12, entries[0].ContextMap()["tx"])
	assert.NotContains(t, entries[1].ContextMap(), "client")
}

func TestLogSkipsDisabledLevels(t *testing.T) {
	t.Parallel()

	logger, observed := newObservedLogger(zapcore.WarnLevel)
	logger.Log(context.Background(), logpkg.LevelDebug, "dropped")
	logger.Log(context.Background(), logpkg.LevelInfo, "dropped")
	logger.Log(context.Background(), logpkg.LevelError, "kept")

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Message)
}

func TestEnabled(t *testing.T) {
	t.Parallel()

	logger, _ := newObservedLogger(zapcore.WarnLevel)

	tests := []struct {
		level logpkg.Level
		want  bool
	}{
		{level: logpkg.LevelDebug, want: false},
		{level: logpkg.LevelInfo, want: false},
		{level: logpkg.LevelWarn, want: true},
		{level: logpkg.LevelError, want: true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, logger.Enabled(tt.level), tt.level.String())
	}
}

func TestSyncHonorsCancelledContext(t *testing.T) {
	t.Parallel()

	logger, _ := newObservedLogger(zapcore.InfoLevel)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, logger.Sync(ctx), context.Canceled)

	ctx, cancel = context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.NoError(t, logger.Sync(ctx))
}

func TestLevelOnNil(t *testing.T) {
	t.Parallel()

	var nilLogger *Logger

	assert.Equal(t, zap.InfoLevel, nilLogger.Level().Level())
}
