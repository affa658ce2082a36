package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/acmsl/licdata/core"
	"github.com/acmsl/licdata/eventstore"
)

// MessageID represents a unique message identifier.
type MessageID = string

// CausationID represents the ID of the event that caused this event.
type CausationID = string

// CorrelationID represents the ID correlating related events.
type CorrelationID = string

// EventMetadata contains event tracking information.
type EventMetadata struct {
	MessageID     MessageID
	CausationID   CausationID
	CorrelationID CorrelationID
}

// BuildEventMetadata creates EventMetadata from plain ids.
func BuildEventMetadata(messageID MessageID, causationID CausationID, correlationID CorrelationID) EventMetadata {
	return EventMetadata{
		MessageID:     messageID,
		CausationID:   causationID,
		CorrelationID: correlationID,
	}
}

// EventMetadataFor derives the metadata of an event from its lineage: the cause is the last
// lineage entry, the correlation is the first. Events without lineage correlate to themselves.
func EventMetadataFor(event core.DomainEvent) EventMetadata {
	lineage := event.HasPreviousEventIDs()
	if len(lineage) == 0 {
		return BuildEventMetadata(event.HasEventID(), "", event.HasEventID())
	}

	return BuildEventMetadata(event.HasEventID(), lineage[len(lineage)-1], lineage[0])
}

// EventMetadataFrom extracts EventMetadata from a StorableEvent.
func EventMetadataFrom(storableEvent eventstore.StorableEvent) (EventMetadata, error) {
	metadata := new(EventMetadata)
	err := jsoniter.ConfigFastest.Unmarshal(storableEvent.MetadataJSON, metadata)
	if err != nil {
		return EventMetadata{}, errors.Join(ErrMappingToEventMetadataFailed, err)
	}

	return *metadata, nil
}
