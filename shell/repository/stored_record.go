package repository

import (
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/acmsl/licdata/core"
	"github.com/acmsl/licdata/eventstore"
	"github.com/acmsl/licdata/shell"
)

// Payload keys the stream filters select on.
const (
	payloadKeyAggregateID = "AggregateID"
	payloadKeyNaturalKey  = "NaturalKey"
)

// storedRecord is the payload of a stored outcome event.
type storedRecord struct {
	AggregateID      core.AggregateIDString
	Kind             core.Kind
	NaturalKey       string
	EventID          core.EventIDString
	PreviousEventIDs []core.EventIDString
	Attributes       core.Attributes
	OccurredAt       time.Time
}

func storableEventFrom(event core.OutcomeEvent, aggregate core.Aggregate) (eventstore.StorableEvent, error) {
	record := storedRecord{
		AggregateID:      aggregate.ID,
		Kind:             event.TargetKind(),
		NaturalKey:       aggregate.NaturalKey().String(),
		EventID:          event.HasEventID(),
		PreviousEventIDs: event.HasPreviousEventIDs(),
		Attributes:       aggregate.Attributes,
		OccurredAt:       event.HasOccurredAt(),
	}

	payloadJSON, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(record)
	if err != nil {
		return eventstore.StorableEvent{}, errors.Join(ErrMappingToStorableEventFailed, err)
	}

	metadataJSON, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(shell.EventMetadataFor(event))
	if err != nil {
		return eventstore.StorableEvent{}, errors.Join(ErrMappingToStorableEventFailed, err)
	}

	storableEvent, err := eventstore.BuildStorableEvent(event.IsEventType(), event.HasOccurredAt(), payloadJSON, metadataJSON)
	if err != nil {
		return eventstore.StorableEvent{}, errors.Join(ErrMappingToStorableEventFailed, err)
	}

	return storableEvent, nil
}

func storedRecordFrom(storableEvent eventstore.StorableEvent) (storedRecord, error) {
	record := storedRecord{}
	if err := jsoniter.ConfigFastest.Unmarshal(storableEvent.PayloadJSON, &record); err != nil {
		return storedRecord{}, errors.Join(ErrMappingFromStorableEventFailed, err)
	}

	return record, nil
}

// replay rebuilds the live aggregates of kind from its stored events, in order of creation.
func replay(kind core.Kind, storableEvents eventstore.StorableEvents) ([]core.Aggregate, error) {
	order := make([]core.AggregateIDString, 0)
	seen := make(map[core.AggregateIDString]bool)
	states := make(map[core.AggregateIDString]core.Aggregate)

	for _, storableEvent := range storableEvents {
		outcome, eventKind, ok := core.ParseOutcomeEventType(storableEvent.EventType)
		if !ok || eventKind != kind {
			return nil, errors.Join(ErrMappingFromStorableEventFailed, shell.ErrUnknownEventType)
		}

		record, err := storedRecordFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		switch outcome {
		case core.OutcomeCreated:
			if !seen[record.AggregateID] {
				seen[record.AggregateID] = true
				order = append(order, record.AggregateID)
			}
			states[record.AggregateID] = core.NewAggregate(kind, record.AggregateID, record.Attributes, record.EventID)

		case core.OutcomeUpdated:
			if state, exists := states[record.AggregateID]; exists {
				states[record.AggregateID] = state.ApplyUpdated(record.EventID, record.Attributes)
			}

		case core.OutcomeDeleted:
			delete(states, record.AggregateID)

		default:
			return nil, errors.Join(ErrMappingFromStorableEventFailed, shell.ErrUnknownEventType)
		}
	}

	live := make([]core.Aggregate, 0, len(states))
	for _, id := range order {
		if state, exists := states[id]; exists {
			live = append(live, state)
		}
	}

	return live, nil
}
