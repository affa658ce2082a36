package memengine

import (
	"context"
	"errors"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/acmsl/licdata/eventstore"
)

const (
	logMsgQueryCompleted      = "eventstore operation: query completed"
	logMsgEventsAppended      = "eventstore operation: events appended"
	logMsgConcurrencyConflict = "eventstore operation: concurrency conflict detected"
	logAttrEventCount         = "event_count"
	logAttrExpectedSequence   = "expected_sequence"
	logAttrActualSequence     = "actual_sequence"
)

// ErrPayloadNotAnObject is returned by Append for payloads that are valid JSON but not an object.
var ErrPayloadNotAnObject = errors.New("payload json must be an object")

type storedEvent struct {
	sequenceNumber eventstore.MaxSequenceNumberUint
	event          eventstore.StorableEvent
	fields         map[string]string
}

// EventStore keeps all events in memory, ordered by their sequence number.
// It is safe for concurrent use.
type EventStore struct {
	mu     sync.RWMutex
	events []storedEvent
	logger eventstore.Logger
}

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore)

// WithLogger sets the logger for the EventStore.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) {
		es.logger = logger
	}
}

// NewEventStore creates an empty in-memory EventStore.
func NewEventStore(options ...Option) *EventStore {
	es := &EventStore{}

	for _, option := range options {
		option(es)
	}

	return es
}

// Query returns the events matching the filter in sequence order together with
// the highest sequence number among them (0 for an empty stream).
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	if err := ctx.Err(); err != nil {
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, err)
	}

	es.mu.RLock()
	defer es.mu.RUnlock()

	result := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for _, stored := range es.events {
		if !filter.Matches(stored.event.EventType, lookupIn(stored.fields)) {
			continue
		}

		result = append(result, copyEvent(stored.event))
		maxSequenceNumber = stored.sequenceNumber
	}

	es.logDebug(logMsgQueryCompleted, logAttrEventCount, len(result))

	return result, maxSequenceNumber, nil
}

// Append stores the events atomically if the stream selected by filter still has
// expectedMaxSequenceNumber as its highest sequence number, otherwise it returns
// eventstore.ErrConcurrencyConflict and stores nothing.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	if err := ctx.Err(); err != nil {
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	allEvents := append(eventstore.StorableEvents{event}, additionalEvents...)

	prepared := make([]storedEvent, 0, len(allEvents))
	for _, e := range allEvents {
		fields, err := topLevelStrings(e.PayloadJSON)
		if err != nil {
			return errors.Join(eventstore.ErrAppendingEventFailed, err)
		}

		prepared = append(prepared, storedEvent{event: copyEvent(e), fields: fields})
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	actual := eventstore.MaxSequenceNumberUint(0)
	for _, stored := range es.events {
		if filter.Matches(stored.event.EventType, lookupIn(stored.fields)) {
			actual = stored.sequenceNumber
		}
	}

	if actual != expectedMaxSequenceNumber {
		es.logDebug(
			logMsgConcurrencyConflict,
			logAttrExpectedSequence, expectedMaxSequenceNumber,
			logAttrActualSequence, actual,
		)

		return eventstore.ErrConcurrencyConflict
	}

	next := eventstore.MaxSequenceNumberUint(len(es.events))
	for i := range prepared {
		next++
		prepared[i].sequenceNumber = next
		if prepared[i].event.OccurredAt.IsZero() {
			prepared[i].event.OccurredAt = time.Now().UTC()
		}
	}

	es.events = append(es.events, prepared...)
	es.logDebug(logMsgEventsAppended, logAttrEventCount, len(prepared))

	return nil
}

// Len returns the number of stored events.
func (es *EventStore) Len() int {
	es.mu.RLock()
	defer es.mu.RUnlock()

	return len(es.events)
}

func (es *EventStore) logDebug(msg string, args ...any) {
	if es.logger != nil {
		es.logger.Debug(msg, args...)
	}
}

func lookupIn(fields map[string]string) eventstore.PayloadLookup {
	return func(key string) (string, bool) {
		val, ok := fields[key]
		return val, ok
	}
}

// topLevelStrings extracts the top-level string fields of a JSON object, mirroring
// what the jsonb containment predicates of postgresengine can match.
func topLevelStrings(payloadJSON []byte) (map[string]string, error) {
	raw := make(map[string]jsoniter.RawMessage)
	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &raw); err != nil {
		return nil, errors.Join(ErrPayloadNotAnObject, err)
	}

	fields := make(map[string]string, len(raw))
	for key, val := range raw {
		var s string
		if jsoniter.ConfigFastest.Unmarshal(val, &s) == nil {
			fields[key] = s
		}
	}

	return fields, nil
}

func copyEvent(e eventstore.StorableEvent) eventstore.StorableEvent {
	return eventstore.StorableEvent{
		EventType:    e.EventType,
		OccurredAt:   e.OccurredAt,
		PayloadJSON:  append([]byte(nil), e.PayloadJSON...),
		MetadataJSON: append([]byte(nil), e.MetadataJSON...),
	}
}
