// Command payments-engine applies a CSV file of transactions and prints the
// resulting account balances as CSV on stdout.
//
// Usage:
//
//	payments-engine transactions.csv > accounts.csv
//
// Settings are read from ENV_NAME, LOG_LEVEL, PAYMENTS_STRICT_INPUT,
// PAYMENTS_WORKERS and OTEL_LIBRARY_NAME. Setting ENABLE_TELEMETRY=true exports
// spans, metrics and logs over OTLP/gRPC to OTEL_EXPORTER_OTLP_ENDPOINT. Logs go
// to stderr.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LerianStudio/payments-engine/payments"
	"github.com/LerianStudio/payments-engine/payments/engine"
	"github.com/LerianStudio/payments-engine/payments/log"
	"github.com/LerianStudio/payments-engine/payments/opentelemetry"
	"github.com/LerianStudio/payments-engine/payments/runtime"
	libZap "github.com/LerianStudio/payments-engine/payments/zap"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2

	telemetryShutdownTimeout = 5 * time.Second
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) (code int) {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "usage: payments-engine <transactions.csv>")
		return exitUsage
	}

	cfg, err := engine.LoadConfig()
	if err != nil {
		fmt.Fprintln(stderr, "payments-engine:", err)
		return exitUsage
	}

	logger, err := libZap.New(cfg.LoggerConfig())
	if err != nil {
		fmt.Fprintln(stderr, "payments-engine:", err)
		return exitUsage
	}

	runtime.SetProductionMode(cfg.Production())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer func() {
		_ = logger.Sync(context.Background())
	}()

	defer func() {
		if recovered := recover(); recovered != nil {
			runtime.HandlePanicValue(ctx, logger, recovered, "cmd", "main")
			code = exitError
		}
	}()

	telemetry, err := opentelemetry.NewTelemetry(ctx, cfg.TelemetryConfig(), logger)
	if err != nil {
		logger.Log(ctx, log.LevelError, "cannot initialize telemetry", log.Err(err))
		return exitError
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
		defer cancel()

		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Log(shutdownCtx, log.LevelWarn, "telemetry shutdown failed", log.Err(err))
		}
	}()

	ctx = payments.ContextWithLogger(ctx, logger)
	ctx = payments.ContextWithTracer(ctx, telemetry.Tracer())
	ctx = payments.ContextWithMetricFactory(ctx, telemetry.MetricsFactory)

	in, err := os.Open(args[0])
	if err != nil {
		logger.Log(ctx, log.LevelError, "cannot open input", log.String("path", args[0]), log.Err(err))
		return exitError
	}
	defer in.Close()

	out := bufio.NewWriter(stdout)

	if err := engine.Run(ctx, cfg, bufio.NewReader(in), out); err != nil {
		return exitError
	}

	if err := out.Flush(); err != nil {
		logger.Log(ctx, log.LevelError, "cannot write output", log.Err(err))
		return exitError
	}

	return exitOK
}
