package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/acmsl/licdata/core"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Envelope is the wire shape of an event on the request/outcome bus: {"eventType": ..., "payload": {...}}.
type Envelope struct {
	EventType core.EventTypeString `json:"eventType"`
	Payload   jsoniter.RawMessage  `json:"payload"`
}

// DecodeEnvelope parses one bus line.
func DecodeEnvelope(line []byte) (Envelope, error) {
	envelope := Envelope{}
	if err := jsonAPI.Unmarshal(line, &envelope); err != nil {
		return Envelope{}, errors.Join(ErrDecodingEnvelopeFailed, err)
	}

	if envelope.EventType == "" {
		return Envelope{}, errors.Join(ErrDecodingEnvelopeFailed, ErrUnknownEventType)
	}

	return envelope, nil
}

// Encode serializes the envelope into one bus line without a trailing newline.
func (e Envelope) Encode() ([]byte, error) {
	line, err := jsonAPI.Marshal(e)
	if err != nil {
		return nil, errors.Join(ErrEncodingEnvelopeFailed, err)
	}

	return line, nil
}

// EnvelopeFrom wraps a domain event into an Envelope named after its event type.
func EnvelopeFrom(event core.DomainEvent) (Envelope, error) {
	payload, err := jsonAPI.Marshal(event)
	if err != nil {
		return Envelope{}, errors.Join(ErrEncodingEnvelopeFailed, err)
	}

	return Envelope{EventType: event.IsEventType(), Payload: payload}, nil
}

// BuildEnvelope creates an Envelope from an arbitrary payload, e.g. for failure reports.
func BuildEnvelope(eventType string, payload any) (Envelope, error) {
	payloadJSON, err := jsonAPI.Marshal(payload)
	if err != nil {
		return Envelope{}, errors.Join(ErrEncodingEnvelopeFailed, err)
	}

	return Envelope{EventType: eventType, Payload: payloadJSON}, nil
}

// RequestEventFrom decodes a request event. The kind always comes from the event type name.
// Missing event ids and timestamps are taken from fallback, so callers may stamp requests on arrival.
func RequestEventFrom(envelope Envelope, fallback core.Stamp) (core.RequestEvent, error) {
	operation, kind, ok := core.ParseRequestEventType(envelope.EventType)
	if !ok {
		return nil, errors.Join(ErrMappingToDomainEventFailed, ErrUnknownEventType)
	}

	payload := payloadOrEmptyObject(envelope.Payload)

	switch operation {
	case core.OperationCreate:
		e, err := decodeInto[core.NewRequested](payload)
		if err != nil {
			return nil, err
		}
		e.Kind, e.EventHeader = kind, withDefaults(e.EventHeader, fallback)

		return e, nil

	case core.OperationFindByID:
		e, err := decodeInto[core.FindByIDRequested](payload)
		if err != nil {
			return nil, err
		}
		e.Kind, e.EventHeader = kind, withDefaults(e.EventHeader, fallback)

		return e, nil

	case core.OperationList:
		e, err := decodeInto[core.ListRequested](payload)
		if err != nil {
			return nil, err
		}
		e.Kind, e.EventHeader = kind, withDefaults(e.EventHeader, fallback)

		return e, nil

	case core.OperationUpdate:
		e, err := decodeInto[core.UpdateRequested](payload)
		if err != nil {
			return nil, err
		}
		e.Kind, e.EventHeader = kind, withDefaults(e.EventHeader, fallback)

		return e, nil

	case core.OperationDelete:
		e, err := decodeInto[core.DeleteRequested](payload)
		if err != nil {
			return nil, err
		}
		e.Kind, e.EventHeader = kind, withDefaults(e.EventHeader, fallback)

		return e, nil
	}

	return nil, errors.Join(ErrMappingToDomainEventFailed, ErrUnknownEventType)
}

// OutcomeEventFrom decodes an outcome event. The kind always comes from the event type name.
func OutcomeEventFrom(envelope Envelope) (core.OutcomeEvent, error) {
	outcome, kind, ok := core.ParseOutcomeEventType(envelope.EventType)
	if !ok {
		return nil, errors.Join(ErrMappingToDomainEventFailed, ErrUnknownEventType)
	}

	payload := payloadOrEmptyObject(envelope.Payload)

	switch outcome {
	case core.OutcomeCreated:
		e, err := decodeInto[core.Created](payload)
		if err != nil {
			return nil, err
		}
		e.Kind = kind

		return e, nil

	case core.OutcomeAlreadyExists:
		e, err := decodeInto[core.AlreadyExists](payload)
		if err != nil {
			return nil, err
		}
		e.Kind = kind

		return e, nil

	case core.OutcomeUpdated:
		e, err := decodeInto[core.Updated](payload)
		if err != nil {
			return nil, err
		}
		e.Kind = kind

		return e, nil

	case core.OutcomeDeleted:
		e, err := decodeInto[core.Deleted](payload)
		if err != nil {
			return nil, err
		}
		e.Kind = kind

		return e, nil

	case core.OutcomeMatchingFound:
		e, err := decodeInto[core.MatchingFound](payload)
		if err != nil {
			return nil, err
		}
		e.Kind = kind

		return e, nil

	case core.OutcomeMatchingListFound:
		e, err := decodeInto[core.MatchingListFound](payload)
		if err != nil {
			return nil, err
		}
		e.Kind = kind

		return e, nil

	case core.OutcomeNoMatchingFound:
		e, err := decodeInto[core.NoMatchingFound](payload)
		if err != nil {
			return nil, err
		}
		e.Kind = kind

		return e, nil
	}

	return nil, errors.Join(ErrMappingToDomainEventFailed, ErrUnknownEventType)
}

func decodeInto[E any](payload []byte) (E, error) {
	var event E
	if err := jsonAPI.Unmarshal(payload, &event); err != nil {
		return event, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}

func payloadOrEmptyObject(payload jsoniter.RawMessage) []byte {
	if len(payload) == 0 {
		return []byte("{}")
	}

	return payload
}

func withDefaults(header core.EventHeader, fallback core.Stamp) core.EventHeader {
	if header.EventID == "" {
		header.EventID = fallback.EventID
	}

	if header.OccurredAt.IsZero() && !fallback.OccurredAt.IsZero() {
		header.OccurredAt = core.ToOccurredAt(fallback.OccurredAt)
	}

	return header
}
