package updateaggregate

import (
	"github.com/acmsl/licdata/core"
)

// Decide implements the business logic of updating an aggregate.
//
// Business Rules:
//
//	GIVEN: the aggregate found by the requested id, or an empty aggregate
//	WHEN: UpdateRequested is received
//	THEN: Updated with every mutable attribute replaced and the event appended to the history, to be persisted
//	ABSENT: NoMatchingFound carrying the requested id, nothing to persist
func Decide(existing core.Aggregate, request core.UpdateRequested, stamp core.Stamp) core.DecisionResult {
	if existing.IsEmpty() {
		return core.ReadOnlyDecision(core.BuildNoMatchingFound(request, request.AggregateID, stamp))
	}

	updated := existing.ApplyUpdated(stamp.EventID, request.Attributes)

	return core.MutatingDecision(core.BuildUpdated(request, updated, stamp), core.UpdateMutation)
}
