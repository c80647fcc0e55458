package opentelemetry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/LerianStudio/payments-engine/payments/internal/nilcheck"
	"github.com/LerianStudio/payments-engine/payments/log"
	"github.com/LerianStudio/payments-engine/payments/opentelemetry/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"go.opentelemetry.io/otel/trace"
)

const telemetrySDKName = "payments-engine/opentelemetry"

// ErrMissingEndpoint is returned when telemetry is enabled without a collector endpoint.
var ErrMissingEndpoint = errors.New("telemetry enabled but no collector endpoint configured")

// TelemetryConfig selects how a run exports its spans, metrics and logs.
type TelemetryConfig struct {
	LibraryName       string
	ServiceVersion    string
	DeploymentEnv     string
	CollectorEndpoint string
	Enabled           bool
}

// Telemetry owns the providers of one process. When disabled the providers
// still work in-process but export nothing.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	LoggerProvider *sdklog.LoggerProvider
	MetricsFactory *metrics.MetricsFactory

	libraryName string
	shutdown    []func(context.Context) error
}

// Tracer returns the tracer the engine should use.
//
//nolint:ireturn
func (t *Telemetry) Tracer() trace.Tracer {
	return t.TracerProvider.Tracer(t.libraryName)
}

// Shutdown flushes and stops every provider, returning all errors joined.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}

	var errs []error

	for _, stop := range t.shutdown {
		if err := stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (cfg TelemetryConfig) resource() *sdkresource.Resource {
	return sdkresource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.LibraryName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironmentName(cfg.DeploymentEnv),
		semconv.TelemetrySDKName(telemetrySDKName),
		semconv.TelemetrySDKLanguageGo,
	)
}

// NewTelemetry builds the providers described by cfg. With Enabled set, they
// are registered globally and export over OTLP/gRPC to CollectorEndpoint.
func NewTelemetry(ctx context.Context, cfg TelemetryConfig, logger log.Logger) (*Telemetry, error) {
	if nilcheck.Interface(logger) {
		logger = log.NewNop()
	}

	if !cfg.Enabled {
		logger.Log(ctx, log.LevelDebug, "telemetry export disabled")

		mp := sdkmetric.NewMeterProvider()

		factory, err := metrics.NewMetricsFactory(mp.Meter(cfg.LibraryName), logger)
		if err != nil {
			return nil, err
		}

		return &Telemetry{
			TracerProvider: sdktrace.NewTracerProvider(),
			MeterProvider:  mp,
			LoggerProvider: sdklog.NewLoggerProvider(),
			MetricsFactory: factory,
			libraryName:    cfg.LibraryName,
		}, nil
	}

	endpoint := strings.TrimSpace(cfg.CollectorEndpoint)
	if endpoint == "" {
		return nil, ErrMissingEndpoint
	}

	traceExp, err := otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(endpoint), otlptracegrpc.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("can't initialize tracer exporter: %w", err)
	}

	metricExp, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithEndpoint(endpoint), otlpmetricgrpc.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("can't initialize metric exporter: %w", err)
	}

	logExp, err := otlploggrpc.New(ctx, otlploggrpc.WithEndpoint(endpoint), otlploggrpc.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("can't initialize logger exporter: %w", err)
	}

	res := cfg.resource()

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp)),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExp),
		sdktrace.WithResource(res),
	)
	lp := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExp)),
	)

	otel.SetMeterProvider(mp)
	otel.SetTracerProvider(tp)
	global.SetLoggerProvider(lp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	factory, err := metrics.NewMetricsFactory(mp.Meter(cfg.LibraryName), logger)
	if err != nil {
		return nil, err
	}

	logger.Log(ctx, log.LevelInfo, "telemetry initialized", log.String("endpoint", endpoint))

	// Providers flush through their exporters, so they stop first.
	return &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		LoggerProvider: lp,
		MetricsFactory: factory,
		libraryName:    cfg.LibraryName,
		shutdown: []func(context.Context) error{
			mp.Shutdown, tp.Shutdown, lp.Shutdown,
			traceExp.Shutdown, metricExp.Shutdown, logExp.Shutdown,
		},
	}, nil
}
