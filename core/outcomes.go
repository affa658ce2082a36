package core

// Every outcome builder takes the causing request and derives the lineage from it, so
// PreviousEventIDs is always request.PreviousEventIDs ++ [request.EventID].

/***** Created *****/

// Created reports that a new aggregate was persisted.
type Created struct {
	EventHeader
	Kind      Kind
	Aggregate Aggregate
}

// BuildCreated creates a Created event.
func BuildCreated(request RequestEvent, aggregate Aggregate, stamp Stamp) Created {
	return Created{
		EventHeader: buildHeader(stamp, LineageOf(request)),
		Kind:        request.TargetKind(),
		Aggregate:   aggregate.Clone(),
	}
}

func (e Created) IsEventType() EventTypeString { return OutcomeEventType(OutcomeCreated, e.Kind) }
func (e Created) TargetKind() Kind             { return e.Kind }
func (e Created) IsOutcome() Outcome           { return OutcomeCreated }
func (e Created) IsErrorEvent() bool           { return false }

/***** AlreadyExists *****/

// AlreadyExists reports that an aggregate with the requested natural key exists. Nothing was written.
type AlreadyExists struct {
	EventHeader
	Kind      Kind
	Aggregate Aggregate
}

// BuildAlreadyExists creates an AlreadyExists event carrying the existing state.
func BuildAlreadyExists(request RequestEvent, existing Aggregate, stamp Stamp) AlreadyExists {
	return AlreadyExists{
		EventHeader: buildHeader(stamp, LineageOf(request)),
		Kind:        request.TargetKind(),
		Aggregate:   existing.Clone(),
	}
}

func (e AlreadyExists) IsEventType() EventTypeString {
	return OutcomeEventType(OutcomeAlreadyExists, e.Kind)
}

func (e AlreadyExists) TargetKind() Kind   { return e.Kind }
func (e AlreadyExists) IsOutcome() Outcome { return OutcomeAlreadyExists }
func (e AlreadyExists) IsErrorEvent() bool { return true }

/***** Updated *****/

// Updated reports the new state of an aggregate after its mutable attributes were replaced.
type Updated struct {
	EventHeader
	Kind      Kind
	Aggregate Aggregate
}

// BuildUpdated creates an Updated event.
func BuildUpdated(request RequestEvent, updated Aggregate, stamp Stamp) Updated {
	return Updated{
		EventHeader: buildHeader(stamp, LineageOf(request)),
		Kind:        request.TargetKind(),
		Aggregate:   updated.Clone(),
	}
}

func (e Updated) IsEventType() EventTypeString { return OutcomeEventType(OutcomeUpdated, e.Kind) }
func (e Updated) TargetKind() Kind             { return e.Kind }
func (e Updated) IsOutcome() Outcome           { return OutcomeUpdated }
func (e Updated) IsErrorEvent() bool           { return false }

/***** Deleted *****/

// Deleted reports that an aggregate was removed. It carries the last known state.
type Deleted struct {
	EventHeader
	Kind      Kind
	Aggregate Aggregate
}

// BuildDeleted creates a Deleted event.
func BuildDeleted(request RequestEvent, lastKnown Aggregate, stamp Stamp) Deleted {
	return Deleted{
		EventHeader: buildHeader(stamp, LineageOf(request)),
		Kind:        request.TargetKind(),
		Aggregate:   lastKnown.Clone(),
	}
}

func (e Deleted) IsEventType() EventTypeString { return OutcomeEventType(OutcomeDeleted, e.Kind) }
func (e Deleted) TargetKind() Kind             { return e.Kind }
func (e Deleted) IsOutcome() Outcome           { return OutcomeDeleted }
func (e Deleted) IsErrorEvent() bool           { return false }

/***** MatchingFound *****/

// MatchingFound answers a FindByIDRequested with the aggregate's current state.
type MatchingFound struct {
	EventHeader
	Kind      Kind
	Aggregate Aggregate
}

// BuildMatchingFound creates a MatchingFound event.
func BuildMatchingFound(request RequestEvent, found Aggregate, stamp Stamp) MatchingFound {
	return MatchingFound{
		EventHeader: buildHeader(stamp, LineageOf(request)),
		Kind:        request.TargetKind(),
		Aggregate:   found.Clone(),
	}
}

func (e MatchingFound) IsEventType() EventTypeString {
	return OutcomeEventType(OutcomeMatchingFound, e.Kind)
}

func (e MatchingFound) TargetKind() Kind   { return e.Kind }
func (e MatchingFound) IsOutcome() Outcome { return OutcomeMatchingFound }
func (e MatchingFound) IsErrorEvent() bool { return false }

/***** MatchingListFound *****/

// MatchingListFound answers a ListRequested with every aggregate of the kind.
type MatchingListFound struct {
	EventHeader
	Kind       Kind
	Aggregates []Aggregate
}

// BuildMatchingListFound creates a MatchingListFound event.
func BuildMatchingListFound(request RequestEvent, all []Aggregate, stamp Stamp) MatchingListFound {
	aggregates := make([]Aggregate, 0, len(all))
	for _, aggregate := range all {
		aggregates = append(aggregates, aggregate.Clone())
	}

	return MatchingListFound{
		EventHeader: buildHeader(stamp, LineageOf(request)),
		Kind:        request.TargetKind(),
		Aggregates:  aggregates,
	}
}

func (e MatchingListFound) IsEventType() EventTypeString {
	return OutcomeEventType(OutcomeMatchingListFound, e.Kind)
}

func (e MatchingListFound) TargetKind() Kind   { return e.Kind }
func (e MatchingListFound) IsOutcome() Outcome { return OutcomeMatchingListFound }
func (e MatchingListFound) IsErrorEvent() bool { return false }

// AggregateIDs returns the ids of the listed aggregates in order.
func (e MatchingListFound) AggregateIDs() []AggregateIDString {
	ids := make([]AggregateIDString, 0, len(e.Aggregates))
	for _, aggregate := range e.Aggregates {
		ids = append(ids, aggregate.ID)
	}

	return ids
}

/***** NoMatchingFound *****/

// NoMatchingFound reports that nothing matched. AggregateID holds the requested id, if there was one.
type NoMatchingFound struct {
	EventHeader
	Kind        Kind
	AggregateID AggregateIDString
}

// BuildNoMatchingFound creates a NoMatchingFound event.
func BuildNoMatchingFound(request RequestEvent, aggregateID AggregateIDString, stamp Stamp) NoMatchingFound {
	return NoMatchingFound{
		EventHeader: buildHeader(stamp, LineageOf(request)),
		Kind:        request.TargetKind(),
		AggregateID: aggregateID,
	}
}

func (e NoMatchingFound) IsEventType() EventTypeString {
	return OutcomeEventType(OutcomeNoMatchingFound, e.Kind)
}

func (e NoMatchingFound) TargetKind() Kind   { return e.Kind }
func (e NoMatchingFound) IsOutcome() Outcome { return OutcomeNoMatchingFound }
func (e NoMatchingFound) IsErrorEvent() bool { return true }

// StateOf returns the aggregate an outcome event carries, if it carries exactly one.
func StateOf(event OutcomeEvent) (Aggregate, bool) {
	switch e := event.(type) {
	case Created:
		return e.Aggregate, true
	case AlreadyExists:
		return e.Aggregate, true
	case Updated:
		return e.Aggregate, true
	case Deleted:
		return e.Aggregate, true
	case MatchingFound:
		return e.Aggregate, true
	default:
		return Aggregate{}, false
	}
}
