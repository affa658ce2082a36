// Package listaggregates implements the List reconciliation for every aggregate kind.
//
// List is a full scan of one kind without paging or filtering. An empty result is reported
// as NoMatchingFound rather than an empty list.
package listaggregates
