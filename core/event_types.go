package core

// Operation is what a request event asks for.
type Operation string

const (
	OperationCreate   Operation = "create"
	OperationFindByID Operation = "find_by_id"
	OperationList     Operation = "list"
	OperationUpdate   Operation = "update"
	OperationDelete   Operation = "delete"
)

// Operations returns every operation in a stable order.
func Operations() []Operation {
	return []Operation{OperationCreate, OperationFindByID, OperationList, OperationUpdate, OperationDelete}
}

// Outcome is the branch a reconciliation took.
type Outcome string

const (
	OutcomeCreated           Outcome = "created"
	OutcomeAlreadyExists     Outcome = "already_exists"
	OutcomeUpdated           Outcome = "updated"
	OutcomeDeleted           Outcome = "deleted"
	OutcomeMatchingFound     Outcome = "matching_found"
	OutcomeMatchingListFound Outcome = "matching_list_found"
	OutcomeNoMatchingFound   Outcome = "no_matching_found"
)

// Outcomes returns every outcome in a stable order.
func Outcomes() []Outcome {
	return []Outcome{
		OutcomeCreated,
		OutcomeAlreadyExists,
		OutcomeUpdated,
		OutcomeDeleted,
		OutcomeMatchingFound,
		OutcomeMatchingListFound,
		OutcomeNoMatchingFound,
	}
}

// RequestEventType returns the wire name of the request event for operation on kind.
func RequestEventType(operation Operation, kind Kind) EventTypeString {
	switch operation {
	case OperationCreate:
		return "New" + string(kind) + "Requested"
	case OperationFindByID:
		return "Find" + string(kind) + "ByIdRequested"
	case OperationList:
		return "List" + kind.Plural() + "Requested"
	case OperationUpdate:
		return "Update" + string(kind) + "Requested"
	case OperationDelete:
		return "Delete" + string(kind) + "Requested"
	default:
		return ""
	}
}

// OutcomeEventType returns the wire name of the outcome event for outcome on kind.
func OutcomeEventType(outcome Outcome, kind Kind) EventTypeString {
	switch outcome {
	case OutcomeCreated:
		return string(kind) + "Created"
	case OutcomeAlreadyExists:
		return string(kind) + "AlreadyExists"
	case OutcomeUpdated:
		return string(kind) + "Updated"
	case OutcomeDeleted:
		return string(kind) + "Deleted"
	case OutcomeMatchingFound:
		return "Matching" + string(kind) + "Found"
	case OutcomeMatchingListFound:
		return "Matching" + kind.Plural() + "Found"
	case OutcomeNoMatchingFound:
		return "NoMatching" + kind.Plural() + "Found"
	default:
		return ""
	}
}

type requestTypeEntry struct {
	operation Operation
	kind      Kind
}

type outcomeTypeEntry struct {
	outcome Outcome
	kind    Kind
}

var (
	requestTypes = buildRequestTypes()
	outcomeTypes = buildOutcomeTypes()
)

func buildRequestTypes() map[EventTypeString]requestTypeEntry {
	types := make(map[EventTypeString]requestTypeEntry)
	for _, kind := range allKinds {
		for _, operation := range Operations() {
			types[RequestEventType(operation, kind)] = requestTypeEntry{operation: operation, kind: kind}
		}
	}

	return types
}

func buildOutcomeTypes() map[EventTypeString]outcomeTypeEntry {
	types := make(map[EventTypeString]outcomeTypeEntry)
	for _, kind := range allKinds {
		for _, outcome := range Outcomes() {
			types[OutcomeEventType(outcome, kind)] = outcomeTypeEntry{outcome: outcome, kind: kind}
		}
	}

	return types
}

// ParseRequestEventType resolves a request event type into its operation and kind.
func ParseRequestEventType(eventType EventTypeString) (Operation, Kind, bool) {
	entry, ok := requestTypes[eventType]

	return entry.operation, entry.kind, ok
}

// ParseOutcomeEventType resolves an outcome event type into its outcome and kind.
func ParseOutcomeEventType(eventType EventTypeString) (Outcome, Kind, bool) {
	entry, ok := outcomeTypes[eventType]

	return entry.outcome, entry.kind, ok
}
