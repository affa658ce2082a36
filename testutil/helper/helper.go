package helper

import (
	"context"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/acmsl/licdata/core"
	"github.com/acmsl/licdata/eventstore/memengine"
	"github.com/acmsl/licdata/shell"
	"github.com/acmsl/licdata/shell/repository"
)

// FixedTime is the clock reading of FixedStamper.
var FixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// GivenUniqueID returns a fresh UUIDv7.
func GivenUniqueID(t testing.TB) string {
	t.Helper()

	id, err := uuid.NewV7()
	require.NoError(t, err, "error in arranging test data")

	return id.String()
}

// FixedStamper returns a Stamper whose ids are prefix-1, prefix-2, ... and whose clock is FixedTime.
func FixedStamper(prefix string) shell.Stamper {
	counter := new(atomic.Int64)

	return shell.NewStamper(
		func() string { return prefix + "-" + strconv.FormatInt(counter.Add(1), 10) },
		func() time.Time { return FixedTime },
	)
}

// GivenStamp returns a Stamp with the given event id at FixedTime.
func GivenStamp(eventID core.EventIDString) core.Stamp {
	return core.BuildStamp(eventID, FixedTime)
}

// GivenAttributes returns valid attributes for kind. Key values contain seed, so different
// seeds give different natural keys.
func GivenAttributes(kind core.Kind, seed string) core.Attributes {
	attrs := make(core.Attributes)

	for _, field := range core.MustSchemaOf(kind).Fields {
		switch {
		case field.Key:
			attrs[field.Name] = field.Name + "-" + seed
		case field.Type == core.FieldInt:
			attrs[field.Name] = "12"
		case field.Type == core.FieldDate:
			attrs[field.Name] = "2026-01-15"
		default:
			attrs[field.Name] = field.Name + "-original"
		}
	}

	return attrs
}

// GivenChangedAttributes returns attributes for kind where every field differs from
// GivenAttributes(kind, seed), key fields included.
func GivenChangedAttributes(kind core.Kind, seed string) core.Attributes {
	attrs := make(core.Attributes)

	for _, field := range core.MustSchemaOf(kind).Fields {
		switch {
		case field.Key:
			attrs[field.Name] = field.Name + "-changed-" + seed
		case field.Type == core.FieldInt:
			attrs[field.Name] = "24"
		case field.Type == core.FieldDate:
			attrs[field.Name] = "2026-06-30"
		default:
			attrs[field.Name] = field.Name + "-changed"
		}
	}

	return attrs
}

// GivenRequestLineage returns a lineage of n previous event ids.
func GivenRequestLineage(n int) []core.EventIDString {
	lineage := make([]core.EventIDString, 0, n)
	for i := 1; i <= n; i++ {
		lineage = append(lineage, "prev-"+strconv.Itoa(i))
	}

	return lineage
}

// GivenMemoryRepository returns an event-sourced repository on a fresh in-memory event store.
func GivenMemoryRepository() (repository.Repository, *memengine.EventStore) {
	eventStore := memengine.NewEventStore()

	return repository.NewRepository(eventStore), eventStore
}

// GivenStoredAggregate creates an aggregate directly through the repository and returns it.
func GivenStoredAggregate(
	t testing.TB,
	ctx context.Context,
	repo shell.Repository,
	kind core.Kind,
	seed string,
) core.Aggregate {

	t.Helper()

	request := core.BuildNewRequested(kind, GivenAttributes(kind, seed), GivenStamp("given-request-"+seed), nil)
	aggregate := core.NewAggregate(kind, GivenUniqueID(t), request.Attributes, "given-created-"+seed)
	created := core.BuildCreated(request, aggregate, GivenStamp("given-created-"+seed))

	require.NoError(t, repo.Insert(ctx, created), "error in arranging test data")

	return created.Aggregate
}

// GivenCompetingUpdate commits an Updated event with event id eventID on the stored aggregate,
// setting every mutable attribute to "competitor" (or "99" for int fields), and returns the new state.
func GivenCompetingUpdate(
	t testing.TB,
	ctx context.Context,
	repo shell.Repository,
	kind core.Kind,
	id core.AggregateIDString,
	eventID core.EventIDString,
) core.Aggregate {

	t.Helper()

	current, found, err := repo.FindByID(ctx, kind, id)
	require.NoError(t, err, "error in arranging test data")
	require.True(t, found, "error in arranging test data")

	attrs := make(core.Attributes)
	for _, field := range core.MustSchemaOf(kind).Fields {
		switch {
		case !field.Mutable:
		case field.Type == core.FieldInt:
			attrs[field.Name] = "99"
		case field.Type == core.FieldDate:
			attrs[field.Name] = "2027-01-01"
		default:
			attrs[field.Name] = "competitor"
		}
	}

	request := core.BuildUpdateRequested(kind, id, attrs, GivenStamp("competing-request"), nil)
	updated := core.BuildUpdated(request, current.ApplyUpdated(eventID, attrs), GivenStamp(eventID))
	require.NoError(t, repo.Update(ctx, updated), "error in arranging test data")

	return updated.Aggregate
}
