package listaggregates

import (
	"github.com/acmsl/licdata/core"
)

// Decide answers a ListRequested with MatchingListFound containing exactly all, or
// NoMatchingFound if all is empty.
func Decide(all []core.Aggregate, request core.ListRequested, stamp core.Stamp) core.DecisionResult {
	if len(all) == 0 {
		return core.ReadOnlyDecision(core.BuildNoMatchingFound(request, "", stamp))
	}

	return core.ReadOnlyDecision(core.BuildMatchingListFound(request, all, stamp))
}
