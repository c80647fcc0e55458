package metrics

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrNilCounter   = errors.New("counter instrument is nil")
	ErrNilGauge     = errors.New("gauge instrument is nil")
	ErrNilHistogram = errors.New("histogram instrument is nil")
)

// withAttrs returns a fresh slice so builders derived from the same parent
// never share backing arrays.
func withAttrs(base, extra []attribute.KeyValue) []attribute.KeyValue {
	return append(append(make([]attribute.KeyValue, 0, len(base)+len(extra)), base...), extra...)
}

// CounterBuilder adds to a counter with a fixed attribute set.
type CounterBuilder struct {
	counter metric.Int64Counter
	attrs   []attribute.KeyValue
}

// WithAttributes returns a copy of the builder carrying attrs as well.
func (c *CounterBuilder) WithAttributes(attrs ...attribute.KeyValue) *CounterBuilder {
	return &CounterBuilder{counter: c.counter, attrs: withAttrs(c.attrs, attrs)}
}

func (c *CounterBuilder) Add(ctx context.Context, value int64) error {
	if c == nil || c.counter == nil {
		return ErrNilCounter
	}

	c.counter.Add(ctx, value, metric.WithAttributes(c.attrs...))

	return nil
}

func (c *CounterBuilder) AddOne(ctx context.Context) error {
	return c.Add(ctx, 1)
}

// GaugeBuilder sets a gauge with a fixed attribute set.
type GaugeBuilder struct {
	gauge metric.Int64Gauge
	attrs []attribute.KeyValue
}

// WithAttributes returns a copy of the builder carrying attrs as well.
func (g *GaugeBuilder) WithAttributes(attrs ...attribute.KeyValue) *GaugeBuilder {
	return &GaugeBuilder{gauge: g.gauge, attrs: withAttrs(g.attrs, attrs)}
}

func (g *GaugeBuilder) Set(ctx context.Context, value int64) error {
	if g == nil || g.gauge == nil {
		return ErrNilGauge
	}

	g.gauge.Record(ctx, value, metric.WithAttributes(g.attrs...))

	return nil
}

// HistogramBuilder records samples with a fixed attribute set.
type HistogramBuilder struct {
	histogram metric.Int64Histogram
	attrs     []attribute.KeyValue
}

// WithAttributes returns a copy of the builder carrying attrs as well.
func (h *HistogramBuilder) WithAttributes(attrs ...attribute.KeyValue) *HistogramBuilder {
	return &HistogramBuilder{histogram: h.histogram, attrs: withAttrs(h.attrs, attrs)}
}

func (h *HistogramBuilder) Record(ctx context.Context, value int64) error {
	if h == nil || h.histogram == nil {
		return ErrNilHistogram
	}

	h.histogram.Record(ctx, value, metric.WithAttributes(h.attrs...))

	return nil
}
