// Package updateaggregate implements the Update reconciliation for every aggregate kind.
//
// Updating replaces all mutable attributes of the aggregate: a mutable attribute missing from
// the request becomes blank. Key attributes never change, whatever the request carries.
// Unknown ids produce NoMatchingFound and nothing is written.
package updateaggregate
