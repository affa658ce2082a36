// Package oteladapters implements the eventstore observability interfaces on top of OpenTelemetry.
//
// The same adapters serve the event store engines and the reconciliation handler wrapper.
package oteladapters
