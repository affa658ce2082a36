// Package deleteaggregate implements the Delete reconciliation for every aggregate kind.
//
// A found aggregate is removed and a Deleted event carrying its last known state is emitted.
// Unknown ids produce NoMatchingFound and nothing is written.
package deleteaggregate
