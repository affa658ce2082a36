package shell

import "errors"

var (
	// ErrDecodingEnvelopeFailed is returned when a bus line is not a valid envelope.
	ErrDecodingEnvelopeFailed = errors.New("decoding envelope failed")

	// ErrEncodingEnvelopeFailed is returned when an event cannot be serialized into an envelope.
	ErrEncodingEnvelopeFailed = errors.New("encoding envelope failed")

	// ErrMappingToDomainEventFailed is returned when an envelope payload does not decode into its event type.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrUnknownEventType is returned for event type names that are neither requests nor outcomes.
	ErrUnknownEventType = errors.New("unknown event type")

	// ErrMappingToEventMetadataFailed is returned when stored metadata cannot be decoded.
	ErrMappingToEventMetadataFailed = errors.New("mapping to event metadata failed")

	// ErrRepositoryFailed wraps every error a handler receives from its repository.
	ErrRepositoryFailed = errors.New("repository operation failed")

	// ErrUnexpectedRequestType is returned when a handler receives a request of another operation.
	ErrUnexpectedRequestType = errors.New("unexpected request type")
)
