package core

import (
	"time"
)

// EventIDString identifies an event. Lineages and histories are ordered lists of them.
type EventIDString = string

// AggregateIDString is the opaque id of an aggregate, distinct from its natural key.
type AggregateIDString = string

// EventTypeString is the wire name of an event type, e.g. "NewClientRequested".
type EventTypeString = string

// OccurredAt represents when an event occurred.
type OccurredAt = time.Time

// ToOccurredAt converts a time to OccurredAt with UTC normalization and microsecond precision.
func ToOccurredAt(t time.Time) OccurredAt {
	return t.UTC().Truncate(time.Microsecond)
}

// Stamp carries the id and time for an event that is about to be built.
// The shell creates it, so Decide functions stay deterministic.
type Stamp struct {
	EventID    EventIDString
	OccurredAt OccurredAt
}

// BuildStamp creates a Stamp with a normalized timestamp.
func BuildStamp(eventID EventIDString, occurredAt time.Time) Stamp {
	return Stamp{EventID: eventID, OccurredAt: ToOccurredAt(occurredAt)}
}
