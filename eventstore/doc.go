// Package eventstore provides the storage abstractions the licensing records are persisted with.
//
// Aggregates are never stored as rows. Every change to an aggregate is an outcome event
// (ClientCreated, LicenseUpdated, ...) appended to an event store, and the current state
// is rebuilt by replaying those events.
//
// Key types:
//   - StorableEvent: an event reduced to scalars, agnostic of the domain event types
//   - Filter: selects the events of a "dynamic event stream" (event types AND payload predicates)
//   - MaxSequenceNumberUint: the high-water mark of a stream, used for optimistic appends
//
// Common usage pattern:
//
//	filter := BuildEventFilter().
//		Matching().
//		AnyEventTypeOf("ClientCreated", "ClientUpdated", "ClientDeleted").
//		AllPredicatesOf(P("Kind", "Client"), P("AggregateID", id)).
//		Finalize()
//
//	events, maxSeq, err := store.Query(ctx, filter)
//	if err != nil {
//		// handle error
//	}
//
//	err = store.Append(ctx, filter, maxSeq, newEvent)
//	if errors.Is(err, ErrConcurrencyConflict) {
//		// somebody else wrote to the same stream in between
//	}
//
// Engines live in sub-packages: postgresengine (pgx pool, database/sql or sqlx) and
// memengine (process-local, used by tests and the in-memory mode of cmd/licdata).
package eventstore
