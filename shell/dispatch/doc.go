// Package dispatch maps request event types to their reconciliation handlers.
//
// The Table is built once at startup and registers every operation for every aggregate kind.
package dispatch
