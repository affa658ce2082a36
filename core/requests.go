package core

import (
	"errors"
)

var (
	// ErrInvalidRequest wraps every validation failure of a request event.
	ErrInvalidRequest = errors.New("invalid request")

	ErrMissingEventID     = errors.New("request event id must not be empty")
	ErrMissingAggregateID = errors.New("aggregate id must not be empty")
)

/***** NewRequested *****/

// NewRequested asks to create an aggregate of Kind with the given attributes.
type NewRequested struct {
	EventHeader
	Kind       Kind
	Attributes Attributes
}

// BuildNewRequested creates a NewRequested event.
func BuildNewRequested(kind Kind, attrs Attributes, stamp Stamp, previousEventIDs []EventIDString) NewRequested {
	return NewRequested{
		EventHeader: buildHeader(stamp, previousEventIDs),
		Kind:        kind,
		Attributes:  attrs.Clone(),
	}
}

// BuildNewRequestedFor creates a NewRequested event for a typed record.
func BuildNewRequestedFor(record Record, stamp Stamp, previousEventIDs []EventIDString) NewRequested {
	return BuildNewRequested(record.RecordKind(), record.Attributes(), stamp, previousEventIDs)
}

func (e NewRequested) IsEventType() EventTypeString {
	return RequestEventType(OperationCreate, e.Kind)
}

func (e NewRequested) TargetKind() Kind              { return e.Kind }
func (e NewRequested) RequestedOperation() Operation { return OperationCreate }
func (e NewRequested) IsErrorEvent() bool            { return false }

// Validate checks the event id and the attributes against the schema of Kind.
func (e NewRequested) Validate() error {
	return validateRequest(e.EventHeader, e.Kind, "", false, func(schema Schema) error {
		return schema.ValidateForCreate(e.Attributes)
	})
}

/***** FindByIDRequested *****/

// FindByIDRequested asks for the aggregate of Kind with AggregateID.
type FindByIDRequested struct {
	EventHeader
	Kind        Kind
	AggregateID AggregateIDString
}

// BuildFindByIDRequested creates a FindByIDRequested event.
func BuildFindByIDRequested(kind Kind, aggregateID AggregateIDString, stamp Stamp, previousEventIDs []EventIDString) FindByIDRequested {
	return FindByIDRequested{
		EventHeader: buildHeader(stamp, previousEventIDs),
		Kind:        kind,
		AggregateID: aggregateID,
	}
}

func (e FindByIDRequested) IsEventType() EventTypeString {
	return RequestEventType(OperationFindByID, e.Kind)
}

func (e FindByIDRequested) TargetKind() Kind              { return e.Kind }
func (e FindByIDRequested) RequestedOperation() Operation { return OperationFindByID }
func (e FindByIDRequested) IsErrorEvent() bool            { return false }

func (e FindByIDRequested) Validate() error {
	return validateRequest(e.EventHeader, e.Kind, e.AggregateID, true, nil)
}

/***** ListRequested *****/

// ListRequested asks for all aggregates of Kind.
type ListRequested struct {
	EventHeader
	Kind Kind
}

// BuildListRequested creates a ListRequested event.
func BuildListRequested(kind Kind, stamp Stamp, previousEventIDs []EventIDString) ListRequested {
	return ListRequested{
		EventHeader: buildHeader(stamp, previousEventIDs),
		Kind:        kind,
	}
}

func (e ListRequested) IsEventType() EventTypeString {
	return RequestEventType(OperationList, e.Kind)
}

func (e ListRequested) TargetKind() Kind              { return e.Kind }
func (e ListRequested) RequestedOperation() Operation { return OperationList }
func (e ListRequested) IsErrorEvent() bool            { return false }

func (e ListRequested) Validate() error {
	return validateRequest(e.EventHeader, e.Kind, "", false, nil)
}

/***** UpdateRequested *****/

// UpdateRequested asks to replace the mutable attributes of the aggregate with AggregateID.
type UpdateRequested struct {
	EventHeader
	Kind        Kind
	AggregateID AggregateIDString
	Attributes  Attributes
}

// BuildUpdateRequested creates an UpdateRequested event.
func BuildUpdateRequested(
	kind Kind,
	aggregateID AggregateIDString,
	attrs Attributes,
	stamp Stamp,
	previousEventIDs []EventIDString,
) UpdateRequested {

	return UpdateRequested{
		EventHeader: buildHeader(stamp, previousEventIDs),
		Kind:        kind,
		AggregateID: aggregateID,
		Attributes:  attrs.Clone(),
	}
}

func (e UpdateRequested) IsEventType() EventTypeString {
	return RequestEventType(OperationUpdate, e.Kind)
}

func (e UpdateRequested) TargetKind() Kind              { return e.Kind }
func (e UpdateRequested) RequestedOperation() Operation { return OperationUpdate }
func (e UpdateRequested) IsErrorEvent() bool            { return false }

func (e UpdateRequested) Validate() error {
	return validateRequest(e.EventHeader, e.Kind, e.AggregateID, true, func(schema Schema) error {
		return schema.ValidateForUpdate(e.Attributes)
	})
}

/***** DeleteRequested *****/

// DeleteRequested asks to remove the aggregate of Kind with AggregateID.
type DeleteRequested struct {
	EventHeader
	Kind        Kind
	AggregateID AggregateIDString
}

// BuildDeleteRequested creates a DeleteRequested event.
func BuildDeleteRequested(kind Kind, aggregateID AggregateIDString, stamp Stamp, previousEventIDs []EventIDString) DeleteRequested {
	return DeleteRequested{
		EventHeader: buildHeader(stamp, previousEventIDs),
		Kind:        kind,
		AggregateID: aggregateID,
	}
}

func (e DeleteRequested) IsEventType() EventTypeString {
	return RequestEventType(OperationDelete, e.Kind)
}

func (e DeleteRequested) TargetKind() Kind              { return e.Kind }
func (e DeleteRequested) RequestedOperation() Operation { return OperationDelete }
func (e DeleteRequested) IsErrorEvent() bool            { return false }

func (e DeleteRequested) Validate() error {
	return validateRequest(e.EventHeader, e.Kind, e.AggregateID, true, nil)
}

func validateRequest(
	header EventHeader,
	kind Kind,
	aggregateID AggregateIDString,
	needsAggregateID bool,
	validateAttributes func(Schema) error,
) error {

	if header.EventID == "" {
		return errors.Join(ErrInvalidRequest, ErrMissingEventID)
	}

	schema, err := SchemaOf(kind)
	if err != nil {
		return errors.Join(ErrInvalidRequest, err)
	}

	if needsAggregateID && aggregateID == "" {
		return errors.Join(ErrInvalidRequest, ErrMissingAggregateID)
	}

	if validateAttributes != nil {
		if err := validateAttributes(schema); err != nil {
			return errors.Join(ErrInvalidRequest, err)
		}
	}

	return nil
}
