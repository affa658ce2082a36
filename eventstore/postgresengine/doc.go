// Package postgresengine provides a PostgreSQL implementation of the event store.
//
// It supports pgx pools (optionally with a read replica), database/sql and sqlx connections.
// Events are appended with a conditional INSERT ... SELECT that only writes when the
// "dynamic event stream" selected by the filter still has the expected max sequence number.
//
// Usage:
//
//	pool, _ := pgxpool.New(ctx, dsn)
//	store, _ := postgresengine.NewEventStoreFromPGXPool(
//		pool,
//		postgresengine.WithTableName("licdata_events"),
//		postgresengine.WithLogger(slog.Default()),
//	)
//	_ = store.EnsureSchema(ctx)
//
//	events, maxSeq, _ := store.Query(ctx, filter)
//	err := store.Append(ctx, filter, maxSeq, newEvent)
package postgresengine
