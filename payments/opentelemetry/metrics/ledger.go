package metrics

import (
	"context"

	constant "github.com/LerianStudio/payments-engine/payments/constants"
	"go.opentelemetry.io/otel/attribute"
)

// Ledger and input metrics emitted by the engine.
var (
	MetricTransactionsApplied = Metric{
		Name:        "transactions_applied",
		Unit:        "1",
		Description: "Measures the number of transaction records applied to an account.",
	}

	MetricTransactionsIgnored = Metric{
		Name:        "transactions_ignored",
		Unit:        "1",
		Description: "Measures the number of transaction records ignored by a guard.",
	}

	MetricAccountsCreated = Metric{
		Name:        "accounts_created",
		Unit:        "1",
		Description: "Measures the number of client accounts opened.",
	}

	MetricAccountsLocked = Metric{
		Name:        "accounts_locked",
		Unit:        "1",
		Description: "Measures the number of accounts locked by a chargeback.",
	}

	MetricRowsRejected = Metric{
		Name:        "rows_rejected",
		Unit:        "1",
		Description: "Measures the number of malformed input rows skipped.",
	}

	MetricAccountsOpen = Metric{
		Name:        "accounts_open",
		Unit:        "1",
		Description: "Number of accounts held by the book at the end of a run.",
	}

	MetricRunDuration = Metric{
		Name:        "run_duration",
		Unit:        "ms",
		Description: "Wall time of one engine run.",
		Buckets:     DefaultLatencyBuckets,
	}

	MetricTransactionsPerRun = Metric{
		Name:        "transactions_per_run",
		Unit:        "1",
		Description: "Distinct transaction ids recorded by one engine run.",
		Buckets:     DefaultTransactionBuckets,
	}

	MetricAssertionFailed = Metric{
		Name:        constant.MetricAssertionFailedTotal,
		Unit:        "1",
		Description: "Measures the number of broken account invariants.",
	}

	MetricPanicRecovered = Metric{
		Name:        constant.MetricPanicRecoveredTotal,
		Unit:        "1",
		Description: "Measures the number of panics recovered in engine goroutines.",
	}
)

func (f *MetricsFactory) addOne(ctx context.Context, m Metric, attributes []attribute.KeyValue) error {
	b, err := f.Counter(m)
	if err != nil {
		return err
	}

	return b.WithAttributes(attributes...).AddOne(ctx)
}

// RecordTransactionApplied increments transactions_applied.
func (f *MetricsFactory) RecordTransactionApplied(ctx context.Context, attributes ...attribute.KeyValue) error {
	return f.addOne(ctx, MetricTransactionsApplied, attributes)
}

// RecordTransactionIgnored increments transactions_ignored.
func (f *MetricsFactory) RecordTransactionIgnored(ctx context.Context, attributes ...attribute.KeyValue) error {
	return f.addOne(ctx, MetricTransactionsIgnored, attributes)
}

// RecordAccountCreated increments accounts_created.
func (f *MetricsFactory) RecordAccountCreated(ctx context.Context, attributes ...attribute.KeyValue) error {
	return f.addOne(ctx, MetricAccountsCreated, attributes)
}

// RecordAccountLocked increments accounts_locked.
func (f *MetricsFactory) RecordAccountLocked(ctx context.Context, attributes ...attribute.KeyValue) error {
	return f.addOne(ctx, MetricAccountsLocked, attributes)
}

// RecordRowRejected increments rows_rejected.
func (f *MetricsFactory) RecordRowRejected(ctx context.Context, attributes ...attribute.KeyValue) error {
	return f.addOne(ctx, MetricRowsRejected, attributes)
}

// RecordAccountsOpen sets the accounts_open gauge.
func (f *MetricsFactory) RecordAccountsOpen(ctx context.Context, n int64, attributes ...attribute.KeyValue) error {
	b, err := f.Gauge(MetricAccountsOpen)
	if err != nil {
		return err
	}

	return b.WithAttributes(attributes...).Set(ctx, n)
}

// RecordRunDuration records one run_duration sample in milliseconds.
func (f *MetricsFactory) RecordRunDuration(ctx context.Context, ms int64, attributes ...attribute.KeyValue) error {
	b, err := f.Histogram(MetricRunDuration)
	if err != nil {
		return err
	}

	return b.WithAttributes(attributes...).Record(ctx, ms)
}

// RecordTransactionsPerRun records one transactions_per_run sample.
func (f *MetricsFactory) RecordTransactionsPerRun(ctx context.Context, n int64, attributes ...attribute.KeyValue) error {
	b, err := f.Histogram(MetricTransactionsPerRun)
	if err != nil {
		return err
	}

	return b.WithAttributes(attributes...).Record(ctx, n)
}

// RecordAssertionFailed increments assertion_failed_total.
func (f *MetricsFactory) RecordAssertionFailed(ctx context.Context, attributes ...attribute.KeyValue) error {
	return f.addOne(ctx, MetricAssertionFailed, attributes)
}

// RecordPanicRecovered increments panic_recovered_total.
func (f *MetricsFactory) RecordPanicRecovered(ctx context.Context, attributes ...attribute.KeyValue) error {
	return f.addOne(ctx, MetricPanicRecovered, attributes)
}
