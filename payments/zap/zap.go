package zap

import (
	"context"

	logpkg "github.com/LerianStudio/payments-engine/payments/log"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var zapLevels = map[logpkg.Level]zapcore.Level{
	logpkg.LevelError: zapcore.ErrorLevel,
	logpkg.LevelWarn:  zapcore.WarnLevel,
	logpkg.LevelInfo:  zapcore.InfoLevel,
	logpkg.LevelDebug: zapcore.DebugLevel,
}

func toZapLevel(level logpkg.Level) zapcore.Level {
	if zl, ok := zapLevels[level]; ok {
		return zl
	}

	return zapcore.InfoLevel
}

// Logger implements log.Logger on a zap core. The zero value and a nil
// *Logger discard everything.
type Logger struct {
	base  *zap.Logger
	level zap.AtomicLevel
}

var _ logpkg.Logger = (*Logger)(nil)

// NewWithCore wraps an existing core, for example a zaptest observer.
func NewWithCore(core zapcore.Core) *Logger {
	return &Logger{base: zap.New(core), level: zap.NewAtomicLevel()}
}

func (l *Logger) underlying() *zap.Logger {
	if l == nil || l.base == nil {
		return zap.NewNop()
	}

	return l.base
}

// Log writes one entry. trace_id and span_id are added when ctx carries a
// valid span context, so engine logs can be joined with the run span.
func (l *Logger) Log(ctx context.Context, level logpkg.Level, msg string, fields ...logpkg.Field) {
	base := l.underlying()

	entry := base.Check(toZapLevel(level), msg)
	if entry == nil {
		return
	}

	zapFields := make([]zap.Field, 0, len(fields)+2)
	for _, f := range fields {
		zapFields = append(zapFields, zap.Any(f.Key, f.Value))
	}

	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			zapFields = append(zapFields,
				zap.Stringer("trace_id", sc.TraceID()),
				zap.Stringer("span_id", sc.SpanID()),
			)
		}
	}

	entry.Write(zapFields...)
}

// With returns a child logger that adds fields to every entry.
//
//nolint:ireturn
func (l *Logger) With(fields ...logpkg.Field) logpkg.Logger {
	zapFields := make([]zap.Field, len(fields))
	for i, f := range fields {
		zapFields[i] = zap.Any(f.Key, f.Value)
	}

	return &Logger{base: l.underlying().With(zapFields...), level: l.Level()}
}

func (l *Logger) Enabled(level logpkg.Level) bool {
	return l.underlying().Core().Enabled(toZapLevel(level))
}

// Sync flushes buffered entries unless ctx is done first.
func (l *Logger) Sync(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- l.underlying().Sync() }()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// Level returns the runtime-adjustable level handle.
func (l *Logger) Level() zap.AtomicLevel {
	if l == nil || l.base == nil {
		return zap.NewAtomicLevel()
	}

	return l.level
}
