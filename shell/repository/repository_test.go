package repository_test

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acmsl/licdata/core"
	"github.com/acmsl/licdata/eventstore"
	"github.com/acmsl/licdata/eventstore/memengine"
	"github.com/acmsl/licdata/shell"
	"github.com/acmsl/licdata/shell/repository"
	. "github.com/acmsl/licdata/testutil/helper" //nolint:revive
)

func Test_Repository_Insert_ThenFind_ForAllKinds(t *testing.T) {
	for _, kind := range core.AllKinds() {
		t.Run(kind.String(), func(t *testing.T) {
			// arrange
			ctx := context.Background()
			repo, _ := GivenMemoryRepository()

			// act
			stored := GivenStoredAggregate(t, ctx, repo, kind, "1")

			// assert
			byID, found, err := repo.FindByID(ctx, kind, stored.ID)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, stored, byID)

			byPK, found, err := repo.FindByPK(ctx, kind, stored.NaturalKey())
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, stored, byPK)

			all, err := repo.List(ctx, kind)
			require.NoError(t, err)
			assert.Equal(t, []core.Aggregate{stored}, all)
		})
	}
}

func Test_Repository_KindsDoNotMix(t *testing.T) {
	// arrange
	ctx := context.Background()
	repo, _ := GivenMemoryRepository()
	order := GivenStoredAggregate(t, ctx, repo, core.KindOrder, "1")
	GivenStoredAggregate(t, ctx, repo, core.KindLicense, "1")

	// act
	_, foundAsLicense, err := repo.FindByID(ctx, core.KindLicense, order.ID)
	require.NoError(t, err)
	orders, err := repo.List(ctx, core.KindOrder)
	require.NoError(t, err)

	// assert
	assert.False(t, foundAsLicense)
	assert.Equal(t, []core.Aggregate{order}, orders)
}

func Test_Repository_FindByID_EmptyID(t *testing.T) {
	// arrange
	ctx := context.Background()
	repo, _ := GivenMemoryRepository()
	GivenStoredAggregate(t, ctx, repo, core.KindPc, "1")

	// act
	_, found, err := repo.FindByID(ctx, core.KindPc, "")

	// assert
	require.NoError(t, err)
	assert.False(t, found)
}

func Test_Repository_Insert_TakenNaturalKey(t *testing.T) {
	// arrange
	ctx := context.Background()
	repo, eventStore := GivenMemoryRepository()
	GivenStoredAggregate(t, ctx, repo, core.KindClient, "1")
	created := givenCreated(core.KindClient, "other-id", "1", "out-2")

	// act
	err := repo.Insert(ctx, created)

	// assert
	assert.ErrorIs(t, err, repository.ErrAggregateAlreadyExists)
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict, "lost races must be retryable")
	assert.Equal(t, 1, eventStore.Len())
}

func Test_Repository_Insert_MissingAggregateID(t *testing.T) {
	// arrange
	repo, eventStore := GivenMemoryRepository()

	// act
	err := repo.Insert(context.Background(), givenCreated(core.KindClient, "", "1", "out-1"))

	// assert
	assert.ErrorIs(t, err, core.ErrMissingAggregateID)
	assert.Zero(t, eventStore.Len())
}

func Test_Repository_Insert_ConcurrentSameNaturalKey_HasOneWinner(t *testing.T) {
	// arrange
	ctx := context.Background()
	repo, _ := GivenMemoryRepository()
	const contenders = 16

	var wg sync.WaitGroup
	errs := make([]error, contenders)

	// act
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Insert(ctx, givenCreated(core.KindUser, "user-"+strconv.Itoa(i), "same", "out-"+strconv.Itoa(i)))
		}(i)
	}
	wg.Wait()

	// assert
	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}

		assert.ErrorIs(t, err, repository.ErrAggregateAlreadyExists)
		assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	}

	assert.Equal(t, 1, winners)

	all, err := repo.List(ctx, core.KindUser)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func Test_Repository_Update_ReplayReproducesHistoryAndAttributes(t *testing.T) {
	// arrange
	ctx := context.Background()
	repo, _ := GivenMemoryRepository()
	stored := GivenStoredAggregate(t, ctx, repo, core.KindOrder, "1")
	request := core.BuildUpdateRequested(core.KindOrder, stored.ID, GivenChangedAttributes(core.KindOrder, "1"), GivenStamp("req-1"), nil)

	first := core.BuildUpdated(request, stored.ApplyUpdated("out-1", request.Attributes), GivenStamp("out-1"))
	second := core.BuildUpdated(request, first.Aggregate.ApplyUpdated("out-2", core.Attributes{"duration": "36"}), GivenStamp("out-2"))

	// act
	require.NoError(t, repo.Update(ctx, first))
	require.NoError(t, repo.Update(ctx, second))

	// assert
	reloaded, found, err := repo.FindByID(ctx, core.KindOrder, stored.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, second.Aggregate, reloaded)
	assert.Equal(t, []core.EventIDString{"given-created-1", "out-1", "out-2"}, reloaded.History)

	order := core.OrderFrom(reloaded)
	assert.Equal(t, 36, order.Duration)
	assert.True(t, order.OrderDate.IsZero(), "missing mutable attributes are blanked")
	assert.Equal(t, stored.Attributes["client_id"], order.ClientID)
}

func Test_Repository_UpdateAndDelete_AbsentAggregate(t *testing.T) {
	// arrange
	ctx := context.Background()
	repo, eventStore := GivenMemoryRepository()
	ghost := core.NewAggregate(core.KindProduct, "ghost", GivenAttributes(core.KindProduct, "1"), "c")
	request := core.BuildDeleteRequested(core.KindProduct, "ghost", GivenStamp("req-1"), nil)

	// act
	updateErr := repo.Update(ctx, core.BuildUpdated(request, ghost, GivenStamp("out-1")))
	deleteErr := repo.Delete(ctx, core.BuildDeleted(request, ghost, GivenStamp("out-2")))

	// assert
	for _, err := range []error{updateErr, deleteErr} {
		assert.ErrorIs(t, err, repository.ErrAggregateNotFound)
		assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	}

	assert.Zero(t, eventStore.Len())
}

func Test_Repository_Update_StreamChangedConcurrently(t *testing.T) {
	// arrange
	ctx := context.Background()
	memStore := memengine.NewEventStore()
	racing := &racingEventStore{EventStore: memStore}
	repo := repository.NewRepository(racing)
	stored := GivenStoredAggregate(t, ctx, repo, core.KindPrelicense, "1")

	request := core.BuildUpdateRequested(core.KindPrelicense, stored.ID, GivenChangedAttributes(core.KindPrelicense, "1"), GivenStamp("req-1"), nil)
	competitor := core.BuildUpdated(request, stored.ApplyUpdated("out-competitor", request.Attributes), GivenStamp("out-competitor"))
	ours := core.BuildUpdated(request, stored.ApplyUpdated("out-ours", request.Attributes), GivenStamp("out-ours"))

	racing.beforeNextAppend = func() {
		require.NoError(t, repository.NewRepository(memStore).Update(ctx, competitor))
	}

	// act
	err := repo.Update(ctx, ours)

	// assert
	assert.ErrorIs(t, err, repository.ErrAggregateChanged)
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)

	reloaded, _, findErr := repo.FindByID(ctx, core.KindPrelicense, stored.ID)
	require.NoError(t, findErr)
	assert.Equal(t, competitor.Aggregate, reloaded)
}

func Test_Repository_Delete_ThenRecreateSameNaturalKey(t *testing.T) {
	// arrange
	ctx := context.Background()
	repo, _ := GivenMemoryRepository()
	stored := GivenStoredAggregate(t, ctx, repo, core.KindProductType, "1")
	request := core.BuildDeleteRequested(core.KindProductType, stored.ID, GivenStamp("req-1"), nil)
	require.NoError(t, repo.Delete(ctx, core.BuildDeleted(request, stored, GivenStamp("out-1"))))

	// act
	err := repo.Insert(ctx, givenCreated(core.KindProductType, "reborn", "1", "out-2"))

	// assert
	require.NoError(t, err)

	byPK, found, err := repo.FindByPK(ctx, core.KindProductType, stored.NaturalKey())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "reborn", byPK.ID)

	all, err := repo.List(ctx, core.KindProductType)
	require.NoError(t, err)
	assert.Equal(t, []core.AggregateIDString{"reborn"}, idsOf(all))
}

func Test_Repository_History(t *testing.T) {
	// arrange
	ctx := context.Background()
	repo, _ := GivenMemoryRepository()
	stored := GivenStoredAggregate(t, ctx, repo, core.KindIncident, "1")

	request := core.BuildDeleteRequested(core.KindIncident, stored.ID, GivenStamp("req-2"), []core.EventIDString{"origin"})
	require.NoError(t, repo.Delete(ctx, core.BuildDeleted(request, stored, GivenStamp("out-2"))))

	// act
	history, err := repo.History(ctx, core.KindIncident, stored.ID)

	// assert
	require.NoError(t, err)
	assert.Equal(t, []shell.EventMetadata{
		shell.BuildEventMetadata("given-created-1", "given-request-1", "given-request-1"),
		shell.BuildEventMetadata("out-2", "req-2", "origin"),
	}, history)

	empty, err := repo.History(ctx, core.KindIncident, "")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func Test_Repository_List_CorruptStoredEvent(t *testing.T) {
	// arrange
	ctx := context.Background()
	repo, eventStore := GivenMemoryRepository()
	corrupt, err := eventstore.BuildStorableEventWithEmptyMetadata("ClientCreated", FixedTime, []byte(`{"Attributes":"not a map"}`))
	require.NoError(t, err)
	require.NoError(t, eventStore.Append(ctx, eventstore.BuildEventFilter().MatchingAnyEvent(), 0, corrupt))

	// act
	_, err = repo.List(ctx, core.KindClient)

	// assert
	assert.ErrorIs(t, err, repository.ErrMappingFromStorableEventFailed)
}

func Test_Repository_PropagatesEventStoreErrors(t *testing.T) {
	// arrange
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo, _ := GivenMemoryRepository()

	// act
	_, err := repo.List(ctx, core.KindClient)

	// assert
	assert.ErrorIs(t, err, eventstore.ErrQueryingEventsFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

type racingEventStore struct {
	*memengine.EventStore
	beforeNextAppend func()
}

func (s *racingEventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	if hook := s.beforeNextAppend; hook != nil {
		s.beforeNextAppend = nil
		hook()
	}

	return s.EventStore.Append(ctx, filter, expectedMaxSequenceNumber, event, additionalEvents...)
}

func givenCreated(kind core.Kind, id core.AggregateIDString, seed string, eventID core.EventIDString) core.Created {
	request := core.BuildNewRequested(kind, GivenAttributes(kind, seed), GivenStamp("req-"+eventID), nil)

	return core.BuildCreated(request, core.NewAggregate(kind, id, request.Attributes, eventID), GivenStamp(eventID))
}

func idsOf(aggregates []core.Aggregate) []core.AggregateIDString {
	ids := make([]core.AggregateIDString, 0, len(aggregates))
	for _, aggregate := range aggregates {
		ids = append(ids, aggregate.ID)
	}

	return ids
}

func Test_Repository_UpdateAndDelete_BuiltOnStaleState(t *testing.T) {
	// arrange
	ctx := context.Background()
	repo, eventStore := GivenMemoryRepository()
	stale := GivenStoredAggregate(t, ctx, repo, core.KindLicense, "1")
	GivenCompetingUpdate(t, ctx, repo, core.KindLicense, stale.ID, "out-c")
	eventsBefore := eventStore.Len()

	updateRequest := core.BuildUpdateRequested(core.KindLicense, stale.ID, GivenChangedAttributes(core.KindLicense, "1"), GivenStamp("req-1"), nil)
	deleteRequest := core.BuildDeleteRequested(core.KindLicense, stale.ID, GivenStamp("req-2"), nil)

	// act
	updateErr := repo.Update(ctx, core.BuildUpdated(updateRequest, stale.ApplyUpdated("out-1", updateRequest.Attributes), GivenStamp("out-1")))
	deleteErr := repo.Delete(ctx, core.BuildDeleted(deleteRequest, stale, GivenStamp("out-2")))

	// assert
	for _, err := range []error{updateErr, deleteErr} {
		assert.ErrorIs(t, err, repository.ErrAggregateChanged)
		assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	}

	assert.Equal(t, eventsBefore, eventStore.Len(), "no event may be stored")
}
