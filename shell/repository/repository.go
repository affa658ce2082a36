package repository

import (
	"context"
	"errors"
	"slices"

	"github.com/acmsl/licdata/core"
	"github.com/acmsl/licdata/eventstore"
	"github.com/acmsl/licdata/shell"
)

var (
	// ErrAggregateAlreadyExists is returned by Insert when the natural key was taken concurrently.
	ErrAggregateAlreadyExists = errors.New("aggregate with this natural key already exists")

	// ErrAggregateNotFound is returned by Update and Delete when the aggregate vanished concurrently.
	ErrAggregateNotFound = errors.New("aggregate not found")

	// ErrAggregateChanged is returned by Update and Delete when the aggregate stream moved on concurrently.
	ErrAggregateChanged = errors.New("aggregate changed concurrently")

	// ErrMappingToStorableEventFailed is returned when an outcome event cannot be serialized.
	ErrMappingToStorableEventFailed = errors.New("mapping to storable event failed")

	// ErrMappingFromStorableEventFailed is returned when a stored event cannot be decoded.
	ErrMappingFromStorableEventFailed = errors.New("mapping from storable event failed")
)

const (
	logMsgEventStored = "outcome event stored"
	logMsgWriteLost   = "write lost a race"
)

// EventStore defines the interface needed by the Repository for event store operations.
type EventStore interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		event eventstore.StorableEvent,
		additionalEvents ...eventstore.StorableEvent,
	) error
}

// Repository is the event-sourced implementation of shell.Repository.
type Repository struct {
	eventStore EventStore
	logger     eventstore.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets a logger for stored events and lost races.
func WithLogger(logger eventstore.Logger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

// NewRepository creates a Repository on top of eventStore.
func NewRepository(eventStore EventStore, opts ...Option) Repository {
	repository := Repository{eventStore: eventStore}

	for _, opt := range opts {
		opt(&repository)
	}

	return repository
}

// FindByPK returns the live aggregate of kind with the given natural key.
func (r Repository) FindByPK(ctx context.Context, kind core.Kind, key core.NaturalKey) (core.Aggregate, bool, error) {
	live, _, err := r.load(ctx, kind, NaturalKeyStreamFilter(kind, key))
	if err != nil || len(live) == 0 {
		return core.Aggregate{}, false, err
	}

	return live[0], true, nil
}

// FindByID returns the live aggregate of kind with the given id.
func (r Repository) FindByID(ctx context.Context, kind core.Kind, id core.AggregateIDString) (core.Aggregate, bool, error) {
	if id == "" {
		return core.Aggregate{}, false, nil
	}

	live, _, err := r.load(ctx, kind, AggregateStreamFilter(kind, id))
	if err != nil || len(live) == 0 {
		return core.Aggregate{}, false, err
	}

	return live[0], true, nil
}

// List returns all live aggregates of kind in order of creation.
func (r Repository) List(ctx context.Context, kind core.Kind) ([]core.Aggregate, error) {
	live, _, err := r.load(ctx, kind, KindStreamFilter(kind))
	if err != nil {
		return nil, err
	}

	return live, nil
}

// Insert stores a Created event unless the natural key is taken by then.
func (r Repository) Insert(ctx context.Context, event core.Created) error {
	aggregate := event.Aggregate
	if aggregate.ID == "" {
		return core.ErrMissingAggregateID
	}

	filter := NaturalKeyStreamFilter(event.Kind, aggregate.NaturalKey())

	live, maxSequenceNumber, err := r.load(eventstore.WithStrongConsistency(ctx), event.Kind, filter)
	if err != nil {
		return err
	}

	if len(live) > 0 {
		r.logDebug(logMsgWriteLost, shell.LogAttrKind, event.Kind.String(), shell.LogAttrAggregateID, aggregate.ID)
		return errors.Join(ErrAggregateAlreadyExists, eventstore.ErrConcurrencyConflict)
	}

	err = r.append(ctx, filter, maxSequenceNumber, event, aggregate)
	if errors.Is(err, eventstore.ErrConcurrencyConflict) {
		return errors.Join(ErrAggregateAlreadyExists, err)
	}

	return err
}

// Update stores an Updated event if the stored aggregate still has the history the update was built on,
// i.e. the new aggregate's history without its last entry.
func (r Repository) Update(ctx context.Context, event core.Updated) error {
	history := event.Aggregate.History
	if len(history) > 0 {
		history = history[:len(history)-1]
	}

	return r.write(ctx, event, event.Aggregate, history)
}

// Delete stores a Deleted event if the stored aggregate still has the history of the carried last known state.
func (r Repository) Delete(ctx context.Context, event core.Deleted) error {
	return r.write(ctx, event, event.Aggregate, event.Aggregate.History)
}

// History returns the metadata of all stored events of one aggregate, oldest first.
func (r Repository) History(ctx context.Context, kind core.Kind, id core.AggregateIDString) ([]shell.EventMetadata, error) {
	if id == "" {
		return []shell.EventMetadata{}, nil
	}

	storableEvents, _, err := r.eventStore.Query(ctx, AggregateStreamFilter(kind, id))
	if err != nil {
		return nil, err
	}

	history := make([]shell.EventMetadata, 0, len(storableEvents))
	for _, storableEvent := range storableEvents {
		metadata, metadataErr := shell.EventMetadataFrom(storableEvent)
		if metadataErr != nil {
			return nil, metadataErr
		}

		history = append(history, metadata)
	}

	return history, nil
}

func (r Repository) write(
	ctx context.Context,
	event core.OutcomeEvent,
	aggregate core.Aggregate,
	readHistory []core.EventIDString,
) error {

	if aggregate.ID == "" {
		return core.ErrMissingAggregateID
	}

	kind := event.TargetKind()
	filter := AggregateStreamFilter(kind, aggregate.ID)

	live, maxSequenceNumber, err := r.load(eventstore.WithStrongConsistency(ctx), kind, filter)
	if err != nil {
		return err
	}

	if len(live) == 0 {
		r.logDebug(logMsgWriteLost, shell.LogAttrKind, kind.String(), shell.LogAttrAggregateID, aggregate.ID)
		return errors.Join(ErrAggregateNotFound, eventstore.ErrConcurrencyConflict)
	}

	if !slices.Equal(live[0].History, readHistory) {
		r.logDebug(logMsgWriteLost, shell.LogAttrKind, kind.String(), shell.LogAttrAggregateID, aggregate.ID)
		return errors.Join(ErrAggregateChanged, eventstore.ErrConcurrencyConflict)
	}

	err = r.append(ctx, filter, maxSequenceNumber, event, aggregate)
	if errors.Is(err, eventstore.ErrConcurrencyConflict) {
		return errors.Join(ErrAggregateChanged, err)
	}

	return err
}

func (r Repository) load(ctx context.Context, kind core.Kind, filter eventstore.Filter) (
	[]core.Aggregate,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	storableEvents, maxSequenceNumber, err := r.eventStore.Query(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	live, err := replay(kind, storableEvents)
	if err != nil {
		return nil, 0, err
	}

	return live, maxSequenceNumber, nil
}

func (r Repository) append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event core.OutcomeEvent,
	aggregate core.Aggregate,
) error {

	storableEvent, err := storableEventFrom(event, aggregate)
	if err != nil {
		return err
	}

	if err = r.eventStore.Append(eventstore.WithStrongConsistency(ctx), filter, expectedMaxSequenceNumber, storableEvent); err != nil {
		return err
	}

	r.logDebug(
		logMsgEventStored,
		shell.LogAttrOutcomeType, event.IsEventType(),
		shell.LogAttrAggregateID, aggregate.ID,
		shell.LogAttrEventID, event.HasEventID(),
	)

	return nil
}

func (r Repository) logDebug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
