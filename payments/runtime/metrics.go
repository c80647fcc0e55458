package runtime

import (
	"context"
	"sync/atomic"

	constant "github.com/LerianStudio/payments-engine/payments/constants"
	"github.com/LerianStudio/payments-engine/payments/log"
	"github.com/LerianStudio/payments-engine/payments/opentelemetry/metrics"
	"go.opentelemetry.io/otel/attribute"
)

var panicMetrics atomic.Pointer[metrics.MetricsFactory]

// SetMetricsFactory sets the factory that counts recovered panics. Pass nil
// to stop counting.
func SetMetricsFactory(factory *metrics.MetricsFactory) {
	panicMetrics.Store(factory)
}

func countPanic(ctx context.Context, logger Logger, component, name string) {
	factory := panicMetrics.Load()
	if factory == nil {
		return
	}

	err := factory.RecordPanicRecovered(ctx,
		attribute.String(constant.AttrComponent, constant.SanitizeMetricLabel(component)),
		attribute.String("goroutine_name", constant.SanitizeMetricLabel(name)),
	)
	if err != nil && logger != nil {
		logger.Log(ctx, log.LevelWarn, "failed to record panic metric", log.Err(err))
	}
}
