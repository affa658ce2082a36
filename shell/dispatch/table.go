package dispatch

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/acmsl/licdata/core"
	"github.com/acmsl/licdata/features/command/createaggregate"
	"github.com/acmsl/licdata/features/command/deleteaggregate"
	"github.com/acmsl/licdata/features/command/updateaggregate"
	"github.com/acmsl/licdata/features/query/findaggregatebyid"
	"github.com/acmsl/licdata/features/query/listaggregates"
	"github.com/acmsl/licdata/shell"
)

// ErrNoHandlerRegistered is returned for request types the Table does not know.
var ErrNoHandlerRegistered = errors.New("no handler registered for request type")

// Table maps request event types to handler functions. It is immutable after NewTable.
type Table struct {
	handlers map[core.EventTypeString]shell.HandlerFunc
}

type tableConfig struct {
	stamper        shell.Stamper
	newAggregateID shell.IDGenerator
	decorators     []shell.HandlerDecorator
}

// Option configures the handlers a Table registers.
type Option func(*tableConfig)

// WithStamper sets the source of outcome event ids and timestamps for all handlers.
// A zero Stamper is ignored.
func WithStamper(stamper shell.Stamper) Option {
	return func(c *tableConfig) {
		if !stamper.IsZero() {
			c.stamper = stamper
		}
	}
}

// WithAggregateIDGenerator sets the source of ids for created aggregates. A nil generator is ignored.
func WithAggregateIDGenerator(generator shell.IDGenerator) Option {
	return func(c *tableConfig) {
		if generator != nil {
			c.newAggregateID = generator
		}
	}
}

// WithDecorator wraps every registered handler. Decorators apply in the order given,
// the first one being the outermost.
func WithDecorator(decorator shell.HandlerDecorator) Option {
	return func(c *tableConfig) {
		if decorator != nil {
			c.decorators = append(c.decorators, decorator)
		}
	}
}

// NewTable registers the five operations for all aggregate kinds against repository.
func NewTable(repository shell.Repository, opts ...Option) Table {
	config := tableConfig{stamper: shell.DefaultStamper()}
	for _, opt := range opts {
		opt(&config)
	}

	newAggregateID := config.newAggregateID
	if newAggregateID == nil {
		newAggregateID = config.stamper.NewID
	}

	create := createaggregate.NewHandler(
		repository,
		createaggregate.WithStamper(config.stamper),
		createaggregate.WithAggregateIDGenerator(newAggregateID),
	)
	find := findaggregatebyid.NewHandler(repository, findaggregatebyid.WithStamper(config.stamper))
	list := listaggregates.NewHandler(repository, listaggregates.WithStamper(config.stamper))
	update := updateaggregate.NewHandler(repository, updateaggregate.WithStamper(config.stamper))
	remove := deleteaggregate.NewHandler(repository, deleteaggregate.WithStamper(config.stamper))

	byOperation := map[core.Operation]shell.HandlerFunc{
		core.OperationCreate:   adapt(create.Handle),
		core.OperationFindByID: adapt(find.Handle),
		core.OperationList:     adapt(list.Handle),
		core.OperationUpdate:   adapt(update.Handle),
		core.OperationDelete:   adapt(remove.Handle),
	}

	table := Table{handlers: make(map[core.EventTypeString]shell.HandlerFunc, len(core.AllKinds())*len(byOperation))}

	for _, kind := range core.AllKinds() {
		for _, operation := range core.Operations() {
			requestType := core.RequestEventType(operation, kind)
			table.handlers[requestType] = decorate(requestType, byOperation[operation], config.decorators)
		}
	}

	return table
}

// Handle dispatches request to the handler registered for its event type.
func (t Table) Handle(ctx context.Context, request core.RequestEvent) (core.OutcomeEvent, error) {
	handler, ok := t.Lookup(request.IsEventType())
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoHandlerRegistered, request.IsEventType())
	}

	return handler(ctx, request)
}

// Lookup returns the handler registered for requestType.
func (t Table) Lookup(requestType core.EventTypeString) (shell.HandlerFunc, bool) {
	handler, ok := t.handlers[requestType]

	return handler, ok
}

// RequestTypes returns all registered request types, sorted.
func (t Table) RequestTypes() []core.EventTypeString {
	requestTypes := make([]core.EventTypeString, 0, len(t.handlers))
	for requestType := range t.handlers {
		requestTypes = append(requestTypes, requestType)
	}

	slices.Sort(requestTypes)

	return requestTypes
}

func adapt[R core.RequestEvent](handle func(context.Context, R) (core.OutcomeEvent, error)) shell.HandlerFunc {
	return func(ctx context.Context, request core.RequestEvent) (core.OutcomeEvent, error) {
		typed, ok := request.(R)
		if !ok {
			return nil, fmt.Errorf("%w: %T", shell.ErrUnexpectedRequestType, request)
		}

		return handle(ctx, typed)
	}
}

func decorate(requestType core.EventTypeString, handler shell.HandlerFunc, decorators []shell.HandlerDecorator) shell.HandlerFunc {
	for i := len(decorators) - 1; i >= 0; i-- {
		handler = decorators[i](requestType, handler)
	}

	return handler
}
