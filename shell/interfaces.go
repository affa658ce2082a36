package shell

import (
	"context"

	"github.com/acmsl/licdata/core"
)

// Repository is the full repository port over the aggregates of all kinds.
//
// Feature slices declare the narrow subset they need; implementations satisfy all of them.
// Insert, Update and Delete receive the outcome event, which carries the new state and its lineage.
type Repository interface {
	FindByPK(ctx context.Context, kind core.Kind, key core.NaturalKey) (core.Aggregate, bool, error)
	FindByID(ctx context.Context, kind core.Kind, id core.AggregateIDString) (core.Aggregate, bool, error)
	List(ctx context.Context, kind core.Kind) ([]core.Aggregate, error)
	Insert(ctx context.Context, event core.Created) error
	Update(ctx context.Context, event core.Updated) error
	Delete(ctx context.Context, event core.Deleted) error
}

// HandlerFunc turns one request event into exactly one outcome event.
// An error means the repository failed and no outcome was produced.
type HandlerFunc func(ctx context.Context, request core.RequestEvent) (core.OutcomeEvent, error)

// HandlerDecorator wraps the handler registered for requestType, e.g. with observability or retry.
type HandlerDecorator func(requestType core.EventTypeString, next HandlerFunc) HandlerFunc
