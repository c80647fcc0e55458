package metrics

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/LerianStudio/payments-engine/payments/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// ErrNilMeter indicates that a nil OTEL meter was provided.
var ErrNilMeter = errors.New("metric meter cannot be nil")

// Bucket layouts for the engine histograms.
var (
	// DefaultLatencyBuckets are in milliseconds.
	DefaultLatencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

	// DefaultTransactionBuckets count records per run.
	DefaultTransactionBuckets = []float64{1, 10, 100, 1000, 10000, 100000, 1000000, 10000000}
)

// Metric describes an instrument the factory can create. Buckets only apply
// to histograms; a histogram without buckets uses DefaultLatencyBuckets.
type Metric struct {
	Name        string
	Description string
	Unit        string
	Buckets     []float64
}

// MetricsFactory creates OpenTelemetry instruments on first use and caches
// them by name. It is safe for concurrent use.
type MetricsFactory struct {
	meter      metric.Meter
	logger     log.Logger
	counters   sync.Map // name -> metric.Int64Counter
	gauges     sync.Map // name -> metric.Int64Gauge
	histograms sync.Map // name:buckets -> metric.Int64Histogram
}

// NewMetricsFactory creates a factory on meter. logger may be nil.
func NewMetricsFactory(meter metric.Meter, logger log.Logger) (*MetricsFactory, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}

	if logger == nil {
		logger = log.NewNop()
	}

	return &MetricsFactory{meter: meter, logger: logger}, nil
}

// NewNopFactory returns a factory whose instruments record nothing.
func NewNopFactory() *MetricsFactory {
	return &MetricsFactory{meter: noop.NewMeterProvider().Meter("nop"), logger: log.NewNop()}
}

// Counter returns a builder for the counter described by m.
func (f *MetricsFactory) Counter(m Metric) (*CounterBuilder, error) {
	counter, err := cached(f, &f.counters, "counter", m.Name, func() (metric.Int64Counter, error) {
		return f.meter.Int64Counter(m.Name, metric.WithDescription(m.Description), metric.WithUnit(m.Unit))
	})
	if err != nil {
		return nil, err
	}

	return &CounterBuilder{counter: counter}, nil
}

// Gauge returns a builder for the gauge described by m.
func (f *MetricsFactory) Gauge(m Metric) (*GaugeBuilder, error) {
	gauge, err := cached(f, &f.gauges, "gauge", m.Name, func() (metric.Int64Gauge, error) {
		return f.meter.Int64Gauge(m.Name, metric.WithDescription(m.Description), metric.WithUnit(m.Unit))
	})
	if err != nil {
		return nil, err
	}

	return &GaugeBuilder{gauge: gauge}, nil
}

// Histogram returns a builder for the histogram described by m. Two Metrics
// with the same name but different buckets yield different instruments.
func (f *MetricsFactory) Histogram(m Metric) (*HistogramBuilder, error) {
	buckets := m.Buckets
	if len(buckets) == 0 {
		buckets = DefaultLatencyBuckets
	}

	histogram, err := cached(f, &f.histograms, "histogram", histogramCacheKey(m.Name, buckets), func() (metric.Int64Histogram, error) {
		return f.meter.Int64Histogram(m.Name,
			metric.WithDescription(m.Description),
			metric.WithUnit(m.Unit),
			metric.WithExplicitBucketBoundaries(buckets...),
		)
	})
	if err != nil {
		return nil, err
	}

	return &HistogramBuilder{histogram: histogram}, nil
}

// cached returns the instrument stored under key, creating it on a miss.
// When two goroutines race on a miss the first stored instrument wins.
func cached[T any](f *MetricsFactory, cache *sync.Map, kind, key string, create func() (T, error)) (T, error) {
	var zero T

	if v, ok := cache.Load(key); ok {
		if inst, ok := v.(T); ok {
			return inst, nil
		}

		return zero, fmt.Errorf("%s cache contains invalid type for %q", kind, key)
	}

	inst, err := create()
	if err != nil {
		f.logger.Log(context.Background(), log.LevelError, "failed to create "+kind+" metric",
			log.String("metric_name", key), log.Err(err))

		return zero, fmt.Errorf("create %s %q: %w", kind, key, err)
	}

	v, _ := cache.LoadOrStore(key, inst)
	if stored, ok := v.(T); ok {
		return stored, nil
	}

	return zero, fmt.Errorf("%s cache contains invalid type for %q", kind, key)
}

func histogramCacheKey(name string, buckets []float64) string {
	if len(buckets) == 0 {
		return name
	}

	parts := make([]string, 0, len(buckets))
	for _, b := range slices.Sorted(slices.Values(buckets)) {
		parts = append(parts, strconv.FormatFloat(b, 'g', -1, 64))
	}

	return name + ":" + strings.Join(parts, ",")
}
