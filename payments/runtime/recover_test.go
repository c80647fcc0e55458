//go:build unit

package runtime

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/LerianStudio/payments-engine/payments/log"
	"github.com/LerianStudio/payments-engine/payments/opentelemetry/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type testLogger struct {
	mu       sync.Mutex
	messages []string
	fields   [][]log.Field
}

func (l *testLogger) Log(_ context.Context, _ log.Level, msg string, fields ...log.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append(l.messages, msg)
	l.fields = append(l.fields, fields)
}

func (l *testLogger) field(i int, key string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, f := range l.fields[i] {
		if f.Key == key {
			s, _ := f.Value.(string)
			return s, true
		}
	}

	return "", false
}

func TestHandlePanicValueLogs(t *testing.T) {
	logger := &testLogger{}

	HandlePanicValue(context.Background(), logger, errors.New("boom"), "account", "partition-1")

	require.Len(t, logger.messages, 1)
	assert.Equal(t, "panic recovered", logger.messages[0])

	value, _ := logger.field(0, "panic_value")
	assert.Equal(t, "boom", value)

	source, _ := logger.field(0, "source")
	assert.Equal(t, "partition-1", source)

	_, ok := logger.field(0, "stack_trace")
	assert.True(t, ok)
}

func TestHandlePanicValueIgnoresNil(t *testing.T) {
	logger := &testLogger{}
	HandlePanicValue(context.Background(), logger, nil, "account", "worker")

	assert.Empty(t, logger.messages)
}

func TestHandlePanicValueNilLogger(t *testing.T) {
	var typedNil *testLogger

	assert.NotPanics(t, func() {
		HandlePanicValue(context.Background(), nil, "boom", "account", "worker")
		HandlePanicValue(context.Background(), typedNil, "boom", "account", "worker")
	})
}

func TestHandlePanicValueRecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	ctx, span := provider.Tracer("test").Start(context.Background(), "run")
	HandlePanicValue(ctx, &testLogger{}, 42, "account", "partition-0")
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "panic recovered in account/partition-0", spans[0].Status().Description)

	attrs := map[string]string{}

	for _, event := range spans[0].Events() {
		if event.Name != "panic.recovered" {
			continue
		}

		for _, kv := range event.Attributes {
			attrs[string(kv.Key)] = kv.Value.AsString()
		}
	}

	assert.Equal(t, "42", attrs["panic.value"])
	assert.Equal(t, "account", attrs["panic.component"])
	assert.Equal(t, "partition-0", attrs["panic.goroutine_name"])
	assert.NotEmpty(t, attrs["panic.stack"])
}

func TestProductionModeRedacts(t *testing.T) {
	SetProductionMode(true)
	t.Cleanup(func() { SetProductionMode(false) })

	logger := &testLogger{}
	HandlePanicValue(context.Background(), logger, "card 4111", "account", "worker")

	value, _ := logger.field(0, "panic_value")
	assert.Equal(t, redactedPanicValue, value)

	_, ok := logger.field(0, "stack_trace")
	assert.False(t, ok)
}

func TestPanicsAreCounted(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	factory, err := metrics.NewMetricsFactory(provider.Meter("test"), nil)
	require.NoError(t, err)

	SetMetricsFactory(factory)
	t.Cleanup(func() { SetMetricsFactory(nil) })

	HandlePanicValue(context.Background(), &testLogger{}, "boom", "account", "worker")
	HandlePanicValue(context.Background(), &testLogger{}, "boom", "account", "worker")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)

	m := rm.ScopeMetrics[0].Metrics[0]
	assert.Equal(t, "panic_recovered_total", m.Name)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "<nil>", describe(nil))
	assert.Equal(t, "boom", describe("boom"))
	assert.Equal(t, "boom", describe(errors.New("boom")))
	assert.Equal(t, "[1 2]", describe([]int{1, 2}))
	assert.True(t, strings.HasPrefix(describe(struct{ A int }{1}), "{"))
}
