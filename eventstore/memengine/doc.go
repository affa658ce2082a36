// Package memengine provides a process-local event store.
//
// It implements the same Query/Append contract as postgresengine, including the optimistic
// append condition on the filtered stream, so repositories and handlers can be exercised
// without a database. Predicates are evaluated on the top-level string fields of the JSON payload.
package memengine
