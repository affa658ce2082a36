package listaggregates

import (
	"context"
	"errors"

	"github.com/acmsl/licdata/core"
	"github.com/acmsl/licdata/eventstore"
	"github.com/acmsl/licdata/shell"
)

// Repository defines the part of the repository port the Handler needs.
type Repository interface {
	List(ctx context.Context, kind core.Kind) ([]core.Aggregate, error)
}

// Handler runs the workflow: Validate -> List -> Decide.
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

// Handle reconciles one ListRequested event into a MatchingListFound or NoMatchingFound event.
func (h Handler) Handle(ctx context.Context, request core.ListRequested) (core.OutcomeEvent, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	ctx = eventstore.WithEventualConsistency(ctx)

	all, err := h.repository.List(ctx, request.Kind)
	if err != nil {
		return nil, errors.Join(shell.ErrRepositoryFailed, err)
	}

	return Decide(all, request, h.stamper.Stamp()).Event, nil
}
