package findaggregatebyid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/acmsl/licdata/core"
	"github.com/acmsl/licdata/features/query/findaggregatebyid"
	. "github.com/acmsl/licdata/testutil/helper" //nolint:revive
)

func Test_Decide(t *testing.T) {
	existing := core.NewAggregate(core.KindUser, "agg-1", GivenAttributes(core.KindUser, "1"), "created-1")

	testCases := []struct {
		name     string
		existing core.Aggregate
		expected core.EventTypeString
	}{
		{name: "found", existing: existing, expected: "MatchingUserFound"},
		{name: "absent", existing: core.EmptyAggregate(core.KindUser), expected: "NoMatchingUsersFound"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			request := core.BuildFindByIDRequested(core.KindUser, "agg-1", GivenStamp("req-1"), GivenRequestLineage(3))

			// act
			result := findaggregatebyid.Decide(tc.existing, request, GivenStamp("out-1"))

			// assert
			assert.False(t, result.HasMutation())
			assert.Equal(t, tc.expected, result.Event.IsEventType())
			assert.Equal(t, []core.EventIDString{"prev-1", "prev-2", "prev-3", "req-1"}, result.Event.HasPreviousEventIDs())
		})
	}
}
