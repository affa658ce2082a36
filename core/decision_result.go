package core

// Mutation is the single repository write a decision requires, if any.
type Mutation int

const (
	NoMutation Mutation = iota
	InsertMutation
	UpdateMutation
	DeleteMutation
)

func (m Mutation) String() string {
	switch m {
	case InsertMutation:
		return "insert"
	case UpdateMutation:
		return "update"
	case DeleteMutation:
		return "delete"
	default:
		return "none"
	}
}

// DecisionResult is what a Decide function returns: exactly one outcome event and at most one mutation.
//
// Construct it with ReadOnlyDecision or MutatingDecision.
type DecisionResult struct {
	Event    OutcomeEvent
	Mutation Mutation
}

// ReadOnlyDecision creates a DecisionResult that requires no repository write.
func ReadOnlyDecision(event OutcomeEvent) DecisionResult {
	return DecisionResult{Event: event, Mutation: NoMutation}
}

// MutatingDecision creates a DecisionResult that must be persisted with mutation before event is emitted.
func MutatingDecision(event OutcomeEvent, mutation Mutation) DecisionResult {
	return DecisionResult{Event: event, Mutation: mutation}
}

// HasMutation returns true if the shell must write to the repository.
func (r DecisionResult) HasMutation() bool {
	return r.Mutation != NoMutation
}
