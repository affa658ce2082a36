// Command licdata reconciles licensing request events read as JSON lines from stdin and writes
// one outcome event per line to stdout.
//
// Configuration comes from LICDATA_* environment variables, see package config.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/acmsl/licdata/eventstore/oteladapters"
	"github.com/acmsl/licdata/shell"
	"github.com/acmsl/licdata/shell/config"
	"github.com/acmsl/licdata/shell/dispatch"
	"github.com/acmsl/licdata/shell/observable"
	"github.com/acmsl/licdata/shell/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "licdata: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := cfg.NewLogger(os.Stderr)

	wrapperOptions := []observable.Option{
		observable.WithRetry(shell.WithMaxAttempts(cfg.RetryMaxAttempts), shell.WithBaseDelay(cfg.RetryBaseDelay)),
		observable.WithLogging(logger),
	}

	storeObservability := storeObservability{logger: logger}

	if cfg.OTelEnabled {
		providers, providersErr := cfg.NewObservabilityProviders(os.Stderr)
		if providersErr != nil {
			return providersErr
		}

		defer func() {
			if shutdownErr := providers.Shutdown(); shutdownErr != nil {
				logger.Warn("shutting down observability providers failed", shell.LogAttrError, shutdownErr.Error())
			}
		}()

		metrics := oteladapters.NewMetricsCollector(providers.Meter(cfg.ServiceName))
		tracing := oteladapters.NewTracingCollector(providers.Tracer(cfg.ServiceName))
		contextualLogger := oteladapters.NewSlogBridgeLoggerWithHandler(logger.Handler())

		wrapperOptions = append(wrapperOptions,
			observable.WithMetrics(metrics),
			observable.WithTracing(tracing),
			observable.WithContextualLogging(contextualLogger),
		)

		storeObservability.metrics = metrics
		storeObservability.tracing = tracing
		storeObservability.contextualLogger = contextualLogger
	}

	eventStore, closeStore, err := openEventStore(ctx, cfg, storeObservability)
	if err != nil {
		return err
	}
	defer closeStore()

	wrapper, err := observable.NewHandlerWrapper(wrapperOptions...)
	if err != nil {
		return err
	}

	stamper := shell.DefaultStamper()
	table := dispatch.NewTable(
		repository.NewRepository(eventStore, repository.WithLogger(logger)),
		dispatch.WithStamper(stamper),
		dispatch.WithDecorator(wrapper.Decorate),
	)

	logger.Info("licdata ready",
		slog.String("store", cfg.Store),
		slog.Int("request_types", len(table.RequestTypes())),
	)

	return NewBus(table, stamper, logger).Serve(ctx, os.Stdin, os.Stdout)
}
