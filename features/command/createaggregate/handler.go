package createaggregate

import (
	"context"
	"errors"

	"github.com/acmsl/licdata/core"
	"github.com/acmsl/licdata/eventstore"
	"github.com/acmsl/licdata/shell"
)

// Repository defines the part of the repository port the Handler needs.
type Repository interface {
	FindByPK(ctx context.Context, kind core.Kind, key core.NaturalKey) (core.Aggregate, bool, error)
	Insert(ctx context.Context, event core.Created) error
}

// Handler runs the workflow: Validate -> FindByPK -> Decide -> Insert.
// It performs one lookup and at most one insert, and never retries.
type Handler struct {
	repository     Repository
	stamper        shell.Stamper
	newAggregateID shell.IDGenerator
}

// Option configures a Handler.
type Option func(*Handler)

// WithStamper sets the source of outcome event ids and timestamps. A zero Stamper is ignored.
func WithStamper(stamper shell.Stamper) Option {
	return func(h *Handler) {
		if !stamper.IsZero() {
			h.stamper = stamper
		}
	}
}

// WithAggregateIDGenerator sets the source of ids for new aggregates.
func WithAggregateIDGenerator(generator shell.IDGenerator) Option {
	return func(h *Handler) {
		if generator != nil {
			h.newAggregateID = generator
		}
	}
}

// NewHandler creates a Handler. By default ids are random UUIDs and time is the wall clock.
func NewHandler(repository Repository, opts ...Option) Handler {
	stamper := shell.DefaultStamper()

	handler := Handler{
		repository:     repository,
		stamper:        stamper,
		newAggregateID: stamper.NewID,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle reconciles one NewRequested event into a Created or AlreadyExists event.
// Invalid requests fail with core.ErrInvalidRequest, repository failures with shell.ErrRepositoryFailed.
func (h Handler) Handle(ctx context.Context, request core.NewRequested) (core.OutcomeEvent, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	key, err := core.NaturalKeyOf(request.Kind, request.Attributes)
	if err != nil {
		return nil, errors.Join(core.ErrInvalidRequest, err)
	}

	ctx = eventstore.WithStrongConsistency(ctx)

	existing, found, err := h.repository.FindByPK(ctx, request.Kind, key)
	if err != nil {
		return nil, errors.Join(shell.ErrRepositoryFailed, err)
	}

	if !found {
		existing = core.EmptyAggregate(request.Kind)
	}

	result := Decide(existing, request, h.newAggregateID(), h.stamper.Stamp())

	if created, ok := result.Event.(core.Created); ok && result.Mutation == core.InsertMutation {
		if err = h.repository.Insert(ctx, created); err != nil {
			return nil, errors.Join(shell.ErrRepositoryFailed, err)
		}
	}

	return result.Event, nil
}
