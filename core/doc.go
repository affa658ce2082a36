// Package core contains the licensing domain: the aggregate kinds and their field descriptor
// table, the aggregate record, request and outcome events, and the decision results of the
// reconciliation slices.
//
// Everything here is pure. Ids and timestamps are passed in, persistence happens in the shell.
//
// In Hexagonal Architecture terminology, this would be called the 'domain' layer.
package core
