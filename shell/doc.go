// Package shell holds the imperative shell around the licensing core: the repository port,
// handler contracts, stamping of outcome events with ids and timestamps, the JSON envelope
// used on the request/outcome bus, retry with exponential backoff and observability helpers.
//
// Feature slices depend on this package for infrastructure concerns only.
// All business decisions stay in the pure Decide functions of the slices.
package shell
