package findaggregatebyid

import (
	"github.com/acmsl/licdata/core"
)

// Decide answers a FindByIDRequested with MatchingFound, or NoMatchingFound carrying the
// requested id if existing is empty.
func Decide(existing core.Aggregate, request core.FindByIDRequested, stamp core.Stamp) core.DecisionResult {
	if existing.IsEmpty() {
		return core.ReadOnlyDecision(core.BuildNoMatchingFound(request, request.AggregateID, stamp))
	}

	return core.ReadOnlyDecision(core.BuildMatchingFound(request, existing, stamp))
}
