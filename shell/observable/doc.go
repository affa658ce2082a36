// Package observable decorates reconciliation handlers with metrics, tracing, logging and
// optional retry of lost races.
package observable
