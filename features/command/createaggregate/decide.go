package createaggregate

import (
	"github.com/acmsl/licdata/core"
)

// Decide implements the business logic of creating an aggregate.
// This is a pure function: the existing state, the new aggregate id and the stamp are supplied by the caller.
//
// Business Rules:
//
//	GIVEN: the aggregate found by the natural key of the request, or an empty aggregate
//	WHEN: NewRequested is received
//	THEN: Created with a new aggregate built from the request attributes, to be inserted
//	CONFLICT: AlreadyExists carrying the existing state if the natural key is taken, nothing to insert
func Decide(
	existing core.Aggregate,
	request core.NewRequested,
	newAggregateID core.AggregateIDString,
	stamp core.Stamp,
) core.DecisionResult {

	if !existing.IsEmpty() {
		return core.ReadOnlyDecision(core.BuildAlreadyExists(request, existing, stamp))
	}

	aggregate := core.NewAggregate(request.Kind, newAggregateID, request.Attributes, stamp.EventID)

	return core.MutatingDecision(core.BuildCreated(request, aggregate, stamp), core.InsertMutation)
}
