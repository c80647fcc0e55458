//go:build unit

package opentelemetry

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/LerianStudio/payments-engine/payments/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func recordOne(t *testing.T, fn func(span trace.Span)) sdktrace.ReadOnlySpan {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("test").Start(context.Background(), "engine.run")
	fn(span)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	return spans[0]
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}

	return attribute.Value{}, false
}

func eventNames(span sdktrace.ReadOnlySpan) []string {
	names := make([]string, 0, len(span.Events()))
	for _, event := range span.Events() {
		names = append(names, event.Name)
	}

	return names
}

func TestSetSpanAttributesFromStruct(t *testing.T) {
	t.Parallel()

	type cfg struct {
		Workers int  `json:"workers"`
		Strict  bool `json:"strict"`
	}

	span := recordOne(t, func(span trace.Span) {
		require.NoError(t, SetSpanAttributesFromStruct(span, "app.config", cfg{Workers: 4, Strict: true}))
		assert.Error(t, SetSpanAttributesFromStruct(span, "bad", make(chan int)))
	})

	v, ok := attrValue(span.Attributes(), "app.config")
	require.True(t, ok)
	assert.JSONEq(t, `{"workers":4,"strict":true}`, v.AsString())

	_, ok = attrValue(span.Attributes(), "bad")
	assert.False(t, ok)
}

func TestSpanHelpersAcceptNil(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		assert.NoError(t, SetSpanAttributesFromStruct(nil, "k", 1))
		HandleSpanEvent(nil, "event")
		HandleSpanError(nil, "process", errors.New("x"))
	})
}

func TestHandleSpanErrorForIOFailure(t *testing.T) {
	t.Parallel()

	span := recordOne(t, func(span trace.Span) {
		HandleSpanError(span, "write", errors.New("broken pipe"))
		HandleSpanError(span, "write", nil)
	})

	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, "write: broken pipe", span.Status().Description)
	assert.Equal(t, []string{"exception"}, eventNames(span))
}

func TestHandleSpanErrorForDomainError(t *testing.T) {
	t.Parallel()

	dup := fmt.Errorf("apply: %w", transaction.NewDomainError(transaction.ErrorDuplicateTransaction, "tx", "transaction id already recorded"))

	span := recordOne(t, func(span trace.Span) {
		HandleSpanError(span, "process", dup)
	})

	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, []string{"process.rejected", "exception"}, eventNames(span))

	code, ok := attrValue(span.Events()[0].Attributes, "error.code")
	require.True(t, ok)
	assert.Equal(t, "1003", code.AsString())

	field, _ := attrValue(span.Events()[0].Attributes, "error.field")
	assert.Equal(t, "tx", field.AsString())
}

func TestHandleSpanEvent(t *testing.T) {
	t.Parallel()

	span := recordOne(t, func(span trace.Span) {
		HandleSpanEvent(span, "input.consumed", attribute.Int("accounts", 3))
	})

	require.Len(t, span.Events(), 1)

	v, ok := attrValue(span.Events()[0].Attributes, "accounts")
	require.True(t, ok)
	assert.Equal(t, int64(3), v.AsInt64())
}

func TestSanitizeUTF8String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ok", sanitizeUTF8String("ok"))
	assert.Equal(t, "a�b", sanitizeUTF8String("a\xffb"))
}
