// Package findaggregatebyid implements the FindById reconciliation for every aggregate kind.
// It never writes. Lookups may be served from a replica.
package findaggregatebyid
