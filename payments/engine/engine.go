package engine

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/LerianStudio/payments-engine/payments"
	"github.com/LerianStudio/payments-engine/payments/account"
	constant "github.com/LerianStudio/payments-engine/payments/constants"
	"github.com/LerianStudio/payments-engine/payments/csvio"
	"github.com/LerianStudio/payments-engine/payments/log"
	"github.com/LerianStudio/payments-engine/payments/opentelemetry"
	"github.com/LerianStudio/payments-engine/payments/runtime"
	"go.opentelemetry.io/otel/attribute"
)

// Run reads records from in, applies them and writes the final snapshots to
// out. The logger, tracer, run id and metrics factory come from ctx; see
// payments.NewTrackingFromContext for the defaults. Nothing is written to out
// when processing fails.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, tracer, runID, factory := payments.NewTrackingFromContext(ctx)
	ctx = payments.ContextWithRunID(ctx, runID)

	ctx, span := tracer.Start(ctx, "engine.run")
	defer span.End()

	span.SetAttributes(attribute.String(constant.AttrRunID, runID))

	if err := opentelemetry.SetSpanAttributesFromStruct(span, "app.config", cfg); err != nil {
		logger.Log(ctx, log.LevelWarn, "failed to set config on span", log.Err(err))
	}

	runtime.SetMetricsFactory(factory)

	logger = logger.With(log.String(constant.AttrRunID, runID))
	start := time.Now()

	book := account.NewBook(account.WithLogger(logger), account.WithMetrics(factory))
	reader := csvio.NewReader(in,
		csvio.WithStrict(cfg.StrictInput),
		csvio.WithLogger(logger),
		csvio.WithMetrics(factory),
	)

	if err := book.ProcessPartitioned(ctx, reader.Records(ctx), cfg.Workers); err != nil {
		opentelemetry.HandleSpanError(span, "input", err)
		logger.Log(ctx, log.LevelError, "run failed", log.SafeErr(err, cfg.Production()))

		return fmt.Errorf("process input: %w", err)
	}

	accounts := book.Len()
	opentelemetry.HandleSpanEvent(span, "input.consumed",
		attribute.Int("accounts", accounts),
		attribute.Int("transactions", book.Ledger().Len()),
	)

	if err := csvio.WriteSnapshots(out, book.Snapshots()); err != nil {
		opentelemetry.HandleSpanError(span, "output", err)
		logger.Log(ctx, log.LevelError, "run failed", log.SafeErr(err, cfg.Production()))

		return fmt.Errorf("write output: %w", err)
	}

	elapsed := time.Since(start)

	if err := factory.RecordAccountsOpen(ctx, int64(accounts)); err != nil {
		logger.Log(ctx, log.LevelWarn, "failed to record metric", log.Err(err))
	}

	if err := factory.RecordRunDuration(ctx, elapsed.Milliseconds()); err != nil {
		logger.Log(ctx, log.LevelWarn, "failed to record metric", log.Err(err))
	}

	if err := factory.RecordTransactionsPerRun(ctx, int64(book.Ledger().Len())); err != nil {
		logger.Log(ctx, log.LevelWarn, "failed to record metric", log.Err(err))
	}

	logger.Log(ctx, log.LevelInfo, "run completed",
		log.Int("accounts", accounts),
		log.Int("workers", cfg.Workers),
		log.String("elapsed", elapsed.String()),
	)

	return nil
}
