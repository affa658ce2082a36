package main

import (
	"context"
	"fmt"

	"github.com/acmsl/licdata/eventstore"
	"github.com/acmsl/licdata/eventstore/memengine"
	"github.com/acmsl/licdata/eventstore/postgresengine"
	"github.com/acmsl/licdata/shell/config"
	"github.com/acmsl/licdata/shell/repository"
)

type storeObservability struct {
	logger           eventstore.Logger
	contextualLogger eventstore.ContextualLogger
	metrics          eventstore.MetricsCollector
	tracing          eventstore.TracingCollector
}

func (o storeObservability) postgresOptions(tableName string) []postgresengine.Option {
	options := []postgresengine.Option{
		postgresengine.WithTableName(tableName),
		postgresengine.WithLogger(o.logger),
	}

	if o.contextualLogger != nil {
		options = append(options, postgresengine.WithContextualLogger(o.contextualLogger))
	}

	if o.metrics != nil {
		options = append(options, postgresengine.WithMetrics(o.metrics))
	}

	if o.tracing != nil {
		options = append(options, postgresengine.WithTracing(o.tracing))
	}

	return options
}

// openEventStore builds the configured event store. The returned func releases its connections.
func openEventStore(ctx context.Context, cfg config.Config, observability storeObservability) (repository.EventStore, func(), error) {
	if cfg.Store == config.StoreMemory {
		return memengine.NewEventStore(memengine.WithLogger(observability.logger)), func() {}, nil
	}

	options := observability.postgresOptions(cfg.EventTable)

	var (
		eventStore postgresengine.EventStore
		closeFn    func()
		err        error
	)

	switch cfg.PostgresAdapter {
	case config.AdapterSQLDB:
		db, openErr := cfg.OpenSQLDB(ctx)
		if openErr != nil {
			return nil, nil, openErr
		}

		closeFn = func() { _ = db.Close() }
		eventStore, err = postgresengine.NewEventStoreFromSQLDB(db, options...)

	case config.AdapterSQLXDB:
		db, openErr := cfg.OpenSQLXDB(ctx)
		if openErr != nil {
			return nil, nil, openErr
		}

		closeFn = func() { _ = db.Close() }
		eventStore, err = postgresengine.NewEventStoreFromSQLX(db, options...)

	default:
		pool, openErr := cfg.OpenPGXPool(ctx)
		if openErr != nil {
			return nil, nil, openErr
		}

		closeFn = pool.Close
		eventStore, err = postgresengine.NewEventStoreFromPGXPool(pool, options...)
	}

	if err != nil {
		closeFn()
		return nil, nil, err
	}

	if err = eventStore.EnsureSchema(ctx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("ensuring event table %q: %w", cfg.EventTable, err)
	}

	return eventStore, closeFn, nil
}
