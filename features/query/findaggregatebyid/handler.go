package findaggregatebyid

import (
	"context"
	"errors"

	"github.com/acmsl/licdata/core"
	"github.com/acmsl/licdata/eventstore"
	"github.com/acmsl/licdata/shell"
)

// Repository defines the part of the repository port the Handler needs.
type Repository interface {
	FindByID(ctx context.Context, kind core.Kind, id core.AggregateIDString) (core.Aggregate, bool, error)
}

// Handler runs the workflow: Validate -> FindByID -> Decide.
type Handler struct {
	repository Repository
	stamper    shell.Stamper
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

// NewHandler creates a Handler.
func NewHandler(repository Repository, opts ...Option) Handler {
	handler := Handler{
		repository: repository,
		stamper:    shell.DefaultStamper(),
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle reconciles one FindByIDRequested event into a MatchingFound or NoMatchingFound event.
func (h Handler) Handle(ctx context.Context, request core.FindByIDRequested) (core.OutcomeEvent, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	ctx = eventstore.WithEventualConsistency(ctx)

	existing, found, err := h.repository.FindByID(ctx, request.Kind, request.AggregateID)
	if err != nil {
		return nil, errors.Join(shell.ErrRepositoryFailed, err)
	}

	if !found {
		existing = core.EmptyAggregate(request.Kind)
	}

	return Decide(existing, request, h.stamper.Stamp()).Event, nil
}
