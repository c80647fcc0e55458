package runtime

import (
	"context"
	"errors"
	"runtime/debug"

	constant "github.com/LerianStudio/payments-engine/payments/constants"
	"github.com/LerianStudio/payments-engine/payments/internal/nilcheck"
	"github.com/LerianStudio/payments-engine/payments/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrPanic is recorded on spans whose goroutine panicked.
var ErrPanic = errors.New("panic")

const maxSpanStackLen = 4096

// Logger is the subset of log.Logger used for panic reports.
type Logger interface {
	Log(ctx context.Context, level log.Level, msg string, fields ...log.Field)
}

// HandlePanicValue reports a value the caller already recovered. component
// and name identify where the panic happened, for example "account" and
// "partition-3". A nil panicValue is ignored.
//
//	defer func() {
//		if recovered := recover(); recovered != nil {
//			runtime.HandlePanicValue(ctx, logger, recovered, "account", "partition-3")
//		}
//	}()
func HandlePanicValue(ctx context.Context, logger Logger, panicValue any, component, name string) {
	if panicValue == nil {
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if nilcheck.Interface(logger) {
		logger = nil
	}

	var stack []byte
	if !IsProductionMode() {
		stack = debug.Stack()
	}

	value := describe(panicValue)

	if logger != nil {
		fields := []log.Field{
			log.String(constant.AttrComponent, component),
			log.String("source", name),
			log.String("panic_value", value),
		}

		if len(stack) > 0 {
			fields = append(fields, log.String("stack_trace", string(stack)))
		}

		logger.Log(ctx, log.LevelError, "panic recovered", fields...)
	}

	countPanic(ctx, logger, component, name)
	recordSpan(ctx, value, stack, component, name)
}

func recordSpan(ctx context.Context, value string, stack []byte, component, name string) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(constant.AttrPrefixPanic+"value", value),
		attribute.String(constant.AttrPrefixPanic+"component", component),
		attribute.String(constant.AttrPrefixPanic+"goroutine_name", name),
	}

	if len(stack) > 0 {
		s := string(stack)
		if len(s) > maxSpanStackLen {
			s = s[:maxSpanStackLen] + "\n...[truncated]"
		}

		attrs = append(attrs, attribute.String(constant.AttrPrefixPanic+"stack", s))
	}

	span.AddEvent(constant.EventPanicRecovered, trace.WithAttributes(attrs...))
	span.RecordError(ErrPanic)
	span.SetStatus(codes.Error, "panic recovered in "+component+"/"+name)
}
