package opentelemetry

import (
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/LerianStudio/payments-engine/payments/transaction"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SetSpanAttributesFromStruct sets valueStruct, marshalled to JSON, on span under key.
func SetSpanAttributesFromStruct(span trace.Span, key string, valueStruct any) error {
	if span == nil {
		return nil
	}

	raw, err := json.Marshal(valueStruct)
	if err != nil {
		return err
	}

	span.SetAttributes(attribute.String(sanitizeUTF8String(key), sanitizeUTF8String(string(raw))))

	return nil
}

// HandleSpanEvent adds an event to the span.
func HandleSpanEvent(span trace.Span, eventName string, attributes ...attribute.KeyValue) {
	if span != nil {
		span.AddEvent(eventName, trace.WithAttributes(attributes...))
	}
}

// HandleSpanError marks the span failed at stage. When err carries a
// transaction.DomainError, a "<stage>.rejected" event with its code and field
// is added as well, so input problems can be told apart from I/O failures.
func HandleSpanError(span trace.Span, stage string, err error) {
	if span == nil || err == nil {
		return
	}

	var domainErr transaction.DomainError
	if errors.As(err, &domainErr) {
		span.AddEvent(stage+".rejected", trace.WithAttributes(
			attribute.String("error.code", string(domainErr.Code)),
			attribute.String("error.field", domainErr.Field),
			attribute.String("error", sanitizeUTF8String(err.Error())),
		))
	}

	span.SetStatus(codes.Error, stage+": "+sanitizeUTF8String(err.Error()))
	span.RecordError(err)
}

func sanitizeUTF8String(s string) string {
	if !utf8.ValidString(s) {
		return strings.ToValidUTF8(s, "�")
	}

	return s
}
