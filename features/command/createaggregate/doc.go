// Package createaggregate implements the Create reconciliation for every aggregate kind.
//
// The handler looks the natural key of the requested attributes up in the repository.
// If nothing matches, a new aggregate is inserted and a Created event is emitted.
// If an aggregate with that key exists, an AlreadyExists event carrying its state is emitted
// and nothing is written.
package createaggregate
