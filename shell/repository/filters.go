package repository

import (
	"github.com/acmsl/licdata/core"
	"github.com/acmsl/licdata/eventstore"
)

// StoredEventTypes lists the event types the Repository stores for kind.
func StoredEventTypes(kind core.Kind) []core.EventTypeString {
	return []core.EventTypeString{
		core.OutcomeEventType(core.OutcomeCreated, kind),
		core.OutcomeEventType(core.OutcomeUpdated, kind),
		core.OutcomeEventType(core.OutcomeDeleted, kind),
	}
}

// KindStreamFilter selects every stored event of kind.
func KindStreamFilter(kind core.Kind) eventstore.Filter {
	eventTypes := StoredEventTypes(kind)

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(eventTypes[0], eventTypes[1:]...).
		Finalize()
}

// AggregateStreamFilter selects the stored events of one aggregate.
func AggregateStreamFilter(kind core.Kind, id core.AggregateIDString) eventstore.Filter {
	eventTypes := StoredEventTypes(kind)

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(eventTypes[0], eventTypes[1:]...).
		AllPredicatesOf(eventstore.P(payloadKeyAggregateID, id)).
		Finalize()
}

// NaturalKeyStreamFilter selects the stored events of every aggregate that ever had key.
func NaturalKeyStreamFilter(kind core.Kind, key core.NaturalKey) eventstore.Filter {
	eventTypes := StoredEventTypes(kind)

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(eventTypes[0], eventTypes[1:]...).
		AllPredicatesOf(eventstore.P(payloadKeyNaturalKey, key.String())).
		Finalize()
}
