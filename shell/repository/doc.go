// Package repository implements the repository port on top of an event store.
//
// Every Created, Updated and Deleted outcome event is stored as one storable event whose payload
// carries the aggregate id, the kind and the canonical natural key as top-level strings, so the
// engines can select the stream of one aggregate or of one natural key with plain predicates.
// The current state is rebuilt by replaying those events.
//
// Writes append with the max sequence number of the stream they read, so two racing inserts of
// the same natural key, or two racing writes on one aggregate, cannot both succeed.
// The loser gets an error that wraps eventstore.ErrConcurrencyConflict, which makes it retryable.
package repository
