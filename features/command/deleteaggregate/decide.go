package deleteaggregate

import (
	"github.com/acmsl/licdata/core"
)

// Decide implements the business logic of deleting an aggregate.
//
// Business Rules:
//
//	GIVEN: the aggregate found by the requested id, or an empty aggregate
//	WHEN: DeleteRequested is received
//	THEN: Deleted carrying the last known state, to be removed
//	ABSENT: NoMatchingFound carrying the requested id, nothing to remove
func Decide(existing core.Aggregate, request core.DeleteRequested, stamp core.Stamp) core.DecisionResult {
	if existing.IsEmpty() {
		return core.ReadOnlyDecision(core.BuildNoMatchingFound(request, request.AggregateID, stamp))
	}

	return core.MutatingDecision(core.BuildDeleted(request, existing, stamp), core.DeleteMutation)
}
