package core

import (
	"time"
)

// DomainEvents is a slice of DomainEvent instances.
type DomainEvents = []DomainEvent

// DomainEvent represents a request or outcome event of the licensing domain.
type DomainEvent interface {
	// IsEventType returns the wire name of the event type.
	IsEventType() EventTypeString

	// HasEventID returns the id of this event.
	HasEventID() EventIDString

	// HasPreviousEventIDs returns the lineage of this event.
	HasPreviousEventIDs() []EventIDString

	// HasOccurredAt returns when this event occurred.
	HasOccurredAt() time.Time

	// IsErrorEvent returns true if this event reports a conflict or an absence.
	IsErrorEvent() bool
}

// RequestEvent is an inbound event asking for one reconciliation on one kind.
type RequestEvent interface {
	DomainEvent
	TargetKind() Kind
	RequestedOperation() Operation
	Validate() error
}

// OutcomeEvent is the single event a reconciliation emits in response to a RequestEvent.
type OutcomeEvent interface {
	DomainEvent
	TargetKind() Kind
	IsOutcome() Outcome
}

// EventHeader holds the fields every event carries.
type EventHeader struct {
	EventID          EventIDString
	PreviousEventIDs []EventIDString
	OccurredAt       OccurredAt
}

func buildHeader(stamp Stamp, previous []EventIDString) EventHeader {
	return EventHeader{
		EventID:          stamp.EventID,
		PreviousEventIDs: cloneIDs(previous),
		OccurredAt:       ToOccurredAt(stamp.OccurredAt),
	}
}

// HasEventID returns the id of this event.
func (h EventHeader) HasEventID() EventIDString {
	return h.EventID
}

// HasPreviousEventIDs returns a copy of the lineage.
func (h EventHeader) HasPreviousEventIDs() []EventIDString {
	return cloneIDs(h.PreviousEventIDs)
}

// HasOccurredAt returns when this event occurred.
func (h EventHeader) HasOccurredAt() time.Time {
	return h.OccurredAt
}
