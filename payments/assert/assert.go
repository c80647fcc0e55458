package assert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	constant "github.com/LerianStudio/payments-engine/payments/constants"
	"github.com/LerianStudio/payments-engine/payments/internal/nilcheck"
	"github.com/LerianStudio/payments-engine/payments/log"
	"github.com/LerianStudio/payments-engine/payments/opentelemetry/metrics"
	"github.com/LerianStudio/payments-engine/payments/runtime"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrAssertionFailed matches every *AssertionError.
var ErrAssertionFailed = errors.New("assertion failed")

const maxValueLength = 200

// Logger is the subset of log.Logger used by assertions.
type Logger interface {
	Log(ctx context.Context, level log.Level, msg string, fields ...log.Field)
}

// Pair is one key/value detail attached to a failure.
type Pair struct {
	Key   string
	Value string
}

// AssertionError describes a broken invariant.
type AssertionError struct {
	Assertion string
	Component string
	Operation string
	Message   string
	Pairs     []Pair
}

// Error returns the message followed by its details.
func (e *AssertionError) Error() string {
	if e == nil {
		return ErrAssertionFailed.Error()
	}

	var sb strings.Builder

	sb.WriteString("assertion failed: ")
	sb.WriteString(e.Message)

	for i, p := range e.Pairs {
		if i == 0 {
			sb.WriteString(" (")
		} else {
			sb.WriteString(", ")
		}

		sb.WriteString(p.Key)
		sb.WriteByte('=')
		sb.WriteString(p.Value)
	}

	if len(e.Pairs) > 0 {
		sb.WriteByte(')')
	}

	return sb.String()
}

// Unwrap returns ErrAssertionFailed.
func (e *AssertionError) Unwrap() error {
	return ErrAssertionFailed
}

// Asserter checks invariants on behalf of one component operation.
type Asserter struct {
	logger    Logger
	metrics   *metrics.MetricsFactory
	component string
	operation string
}

// Option configures an Asserter.
type Option func(*Asserter)

// WithLogger sets the logger for failures. Without one, failures are
// printed to stderr.
func WithLogger(logger Logger) Option {
	return func(a *Asserter) {
		if !nilcheck.Interface(logger) {
			a.logger = logger
		}
	}
}

// WithMetrics sets the factory used to count failures.
func WithMetrics(factory *metrics.MetricsFactory) Option {
	return func(a *Asserter) {
		a.metrics = factory
	}
}

// New returns an Asserter labelled with component and operation.
func New(component, operation string, opts ...Option) *Asserter {
	a := &Asserter{component: component, operation: operation}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// That returns an error unless ok holds. kv holds alternating keys and values.
func (a *Asserter) That(ctx context.Context, ok bool, msg string, kv ...any) error {
	if ok {
		return nil
	}

	return a.fail(ctx, "That", msg, kv)
}

func (a *Asserter) fail(ctx context.Context, assertion, msg string, kv []any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if a == nil {
		a = &Asserter{}
	}

	err := &AssertionError{
		Assertion: assertion,
		Component: a.component,
		Operation: a.operation,
		Message:   msg,
		Pairs:     pairsOf(kv),
	}

	var stack []byte
	if !runtime.IsProductionMode() {
		stack = debug.Stack()
	}

	a.log(ctx, err, stack)
	a.count(ctx, err)
	recordSpan(ctx, err, stack)

	return err
}

func (a *Asserter) log(ctx context.Context, err *AssertionError, stack []byte) {
	if a.logger == nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return
	}

	fields := make([]log.Field, 0, len(err.Pairs)+4)
	fields = append(fields,
		log.String("assertion", err.Assertion),
		log.String(constant.AttrComponent, err.Component),
		log.String(constant.AttrOperation, err.Operation),
	)

	for _, p := range err.Pairs {
		fields = append(fields, log.String(p.Key, p.Value))
	}

	if len(stack) > 0 {
		fields = append(fields, log.String("stack_trace", string(stack)))
	}

	a.logger.Log(ctx, log.LevelError, "assertion failed: "+err.Message, fields...)
}

func (a *Asserter) count(ctx context.Context, err *AssertionError) {
	if a.metrics == nil {
		return
	}

	recordErr := a.metrics.RecordAssertionFailed(ctx,
		attribute.String(constant.AttrComponent, constant.SanitizeMetricLabel(err.Component)),
		attribute.String(constant.AttrOperation, constant.SanitizeMetricLabel(err.Operation)),
		attribute.String("assertion", constant.SanitizeMetricLabel(err.Assertion)),
	)
	if recordErr != nil && a.logger != nil {
		a.logger.Log(ctx, log.LevelWarn, "failed to record assertion metric", log.Err(recordErr))
	}
}

func recordSpan(ctx context.Context, err *AssertionError, stack []byte) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(constant.AttrPrefixAssertion+"name", err.Assertion),
		attribute.String(constant.AttrPrefixAssertion+"message", err.Message),
		attribute.String(constant.AttrPrefixAssertion+"component", err.Component),
		attribute.String(constant.AttrPrefixAssertion+"operation", err.Operation),
	}

	if len(stack) > 0 {
		attrs = append(attrs, attribute.String(constant.AttrPrefixAssertion+"stack", string(stack)))
	}

	span.AddEvent(constant.EventAssertionFailed, trace.WithAttributes(attrs...))
	span.RecordError(err)
	span.SetStatus(codes.Error, statusMessage(err.Component, err.Operation))
}

func statusMessage(component, operation string) string {
	switch {
	case component != "" && operation != "":
		return "assertion failed in " + component + "/" + operation
	case component != "":
		return "assertion failed in " + component
	case operation != "":
		return "assertion failed in " + operation
	default:
		return "assertion failed"
	}
}

func pairsOf(kv []any) []Pair {
	pairs := make([]Pair, 0, (len(kv)+1)/2)

	for i := 0; i < len(kv); i += 2 {
		var value any = "MISSING_VALUE"
		if i+1 < len(kv) {
			value = kv[i+1]
		}

		pairs = append(pairs, Pair{Key: fmt.Sprint(kv[i]), Value: truncate(fmt.Sprint(value))})
	}

	return pairs
}

func truncate(s string) string {
	if len(s) <= maxValueLength {
		return s
	}

	return fmt.Sprintf("%s... (truncated %d chars)", s[:maxValueLength], len(s)-maxValueLength)
}
