package deleteaggregate_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acmsl/licdata/core"
	"github.com/acmsl/licdata/eventstore"
	"github.com/acmsl/licdata/features/command/deleteaggregate"
	"github.com/acmsl/licdata/shell"
	"github.com/acmsl/licdata/shell/repository"
	. "github.com/acmsl/licdata/testutil/helper" //nolint:revive
)

func Test_Handler_Handle_Deleted_ForAllKinds(t *testing.T) {
	for _, kind := range core.AllKinds() {
		t.Run(kind.String(), func(t *testing.T) {
			// arrange
			ctx := context.Background()
			repo, _ := GivenMemoryRepository()
			existing := GivenStoredAggregate(t, ctx, repo, kind, "1")
			other := GivenStoredAggregate(t, ctx, repo, kind, "2")
			handler := deleteaggregate.NewHandler(repo)

			// act
			outcome, err := handler.Handle(ctx, core.BuildDeleteRequested(kind, existing.ID, GivenStamp("req-1"), nil))

			// assert
			require.NoError(t, err)
			deleted, ok := outcome.(core.Deleted)
			require.True(t, ok, "should emit Deleted")
			assert.Equal(t, existing, deleted.Aggregate)

			_, found, err := repo.FindByID(ctx, kind, existing.ID)
			require.NoError(t, err)
			assert.False(t, found, "deleted aggregate must be gone")

			all, err := repo.List(ctx, kind)
			require.NoError(t, err)
			assert.Equal(t, []core.Aggregate{other}, all)
		})
	}
}

func Test_Handler_Handle_ClientExample_NoMatchingFound(t *testing.T) {
	// arrange
	ctx := context.Background()
	repo, eventStore := GivenMemoryRepository()
	GivenStoredAggregate(t, ctx, repo, core.KindClient, "1")
	spy := NewRepositorySpy(repo)
	handler := deleteaggregate.NewHandler(spy)
	eventsBefore := eventStore.Len()

	// act
	outcome, err := handler.Handle(ctx, core.BuildDeleteRequested(core.KindClient, "42", GivenStamp("req-1"), nil))

	// assert
	require.NoError(t, err)
	assert.Equal(t, "NoMatchingClientsFound", outcome.IsEventType())
	assert.Equal(t, "42", outcome.(core.NoMatchingFound).AggregateID)
	assert.Equal(t, []string{CallFindByID}, spy.Calls())
	assert.Equal(t, eventsBefore, eventStore.Len(), "store must stay unchanged")
}

func Test_Handler_Handle_DeleteTwice(t *testing.T) {
	// arrange
	ctx := context.Background()
	repo, _ := GivenMemoryRepository()
	existing := GivenStoredAggregate(t, ctx, repo, core.KindPc, "1")
	handler := deleteaggregate.NewHandler(repo)

	// act
	first, err := handler.Handle(ctx, core.BuildDeleteRequested(core.KindPc, existing.ID, GivenStamp("req-1"), nil))
	require.NoError(t, err)
	second, err := handler.Handle(ctx, core.BuildDeleteRequested(core.KindPc, existing.ID, GivenStamp("req-2"), nil))
	require.NoError(t, err)

	// assert
	assert.IsType(t, core.Deleted{}, first)
	assert.IsType(t, core.NoMatchingFound{}, second)
}

func Test_Handler_Handle_PropagatesRepositoryFailures(t *testing.T) {
	// arrange
	ctx := context.Background()
	errBoom := errors.New("disk full")
	repo, _ := GivenMemoryRepository()
	existing := GivenStoredAggregate(t, ctx, repo, core.KindProduct, "1")
	handler := deleteaggregate.NewHandler(NewRepositorySpy(repo).FailOn(CallDelete, errBoom))

	// act
	outcome, err := handler.Handle(ctx, core.BuildDeleteRequested(core.KindProduct, existing.ID, GivenStamp("req-1"), nil))

	// assert
	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, shell.ErrRepositoryFailed)
	assert.ErrorIs(t, err, errBoom)
}

func Test_Handler_Handle_MissingAggregateID(t *testing.T) {
	// arrange
	repo, _ := GivenMemoryRepository()
	spy := NewRepositorySpy(repo)
	handler := deleteaggregate.NewHandler(spy)

	// act
	_, err := handler.Handle(context.Background(), core.BuildDeleteRequested(core.KindProduct, "", GivenStamp("req-1"), nil))

	// assert
	assert.ErrorIs(t, err, core.ErrInvalidRequest)
	assert.ErrorIs(t, err, core.ErrMissingAggregateID)
	assert.Empty(t, spy.Calls())
}

func Test_Handler_Handle_AggregateChangedAfterLookup_KeepsCompetingState(t *testing.T) {
	// arrange
	ctx := context.Background()
	repo, _ := GivenMemoryRepository()
	existing := GivenStoredAggregate(t, ctx, repo, core.KindClient, "1")

	var competitor core.Aggregate
	spy := NewRepositorySpy(repo).After(CallFindByID, func() {
		competitor = GivenCompetingUpdate(t, ctx, repo, core.KindClient, existing.ID, "out-c")
	})
	handler := deleteaggregate.NewHandler(spy)

	// act
	outcome, err := handler.Handle(ctx, core.BuildDeleteRequested(core.KindClient, existing.ID, GivenStamp("req-1"), nil))

	// assert
	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, shell.ErrRepositoryFailed)
	assert.ErrorIs(t, err, repository.ErrAggregateChanged)
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)

	reloaded, found, findErr := repo.FindByID(ctx, core.KindClient, existing.ID)
	require.NoError(t, findErr)
	require.True(t, found, "a stale delete must not remove the aggregate")
	assert.Equal(t, competitor, reloaded)
	assert.Equal(t, "competitor", reloaded.Attributes["address"])
}

func Test_Handler_Handle_AggregateChangedAfterLookup_RetryCarriesLatestState(t *testing.T) {
	// arrange
	ctx := context.Background()
	repo, _ := GivenMemoryRepository()
	existing := GivenStoredAggregate(t, ctx, repo, core.KindClient, "1")

	var competitor core.Aggregate
	spy := NewRepositorySpy(repo).After(CallFindByID, func() {
		competitor = GivenCompetingUpdate(t, ctx, repo, core.KindClient, existing.ID, "out-c")
	})
	handler := deleteaggregate.NewHandler(spy)
	request := core.BuildDeleteRequested(core.KindClient, existing.ID, GivenStamp("req-1"), nil)

	// act
	var outcome core.OutcomeEvent
	_, err := shell.RetryWithExponentialBackoff(ctx, func(ctx context.Context) error {
		var handleErr error
		outcome, handleErr = handler.Handle(ctx, request)

		return handleErr
	}, shell.WithBaseDelay(time.Millisecond))

	// assert
	require.NoError(t, err)
	deleted, ok := outcome.(core.Deleted)
	require.True(t, ok, "should emit Deleted")
	assert.Equal(t, competitor, deleted.Aggregate, "Deleted must carry the last persisted state")

	_, found, findErr := repo.FindByID(ctx, core.KindClient, existing.ID)
	require.NoError(t, findErr)
	assert.False(t, found)
}
