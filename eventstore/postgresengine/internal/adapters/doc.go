// Package adapters hides the differences between pgx pools, database/sql and sqlx
// behind the DBAdapter interface used by the Postgres event store.
package adapters
