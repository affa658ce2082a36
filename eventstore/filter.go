package eventstore

import (
	"slices"
	"strings"
)

type FilterEventTypeString = string
type FilterKeyString = string
type FilterValString = string

/***** Filter *****/

// Filter selects the events of a "dynamic event stream".
// Its items are OR-ed. A Filter without items matches every event.
type Filter struct {
	items []FilterItem
}

func (f Filter) Items() []FilterItem {
	return f.items
}

// Matches reports whether an event with the given type and payload lookup belongs to the stream.
func (f Filter) Matches(eventType FilterEventTypeString, lookup PayloadLookup) bool {
	if len(f.items) == 0 {
		return true
	}

	for _, item := range f.items {
		if item.Matches(eventType, lookup) {
			return true
		}
	}

	return false
}

// PayloadLookup returns the top-level string value stored under key in an event payload.
type PayloadLookup func(key FilterKeyString) (FilterValString, bool)

/***** FilterItem *****/

// FilterItem is (eventType OR eventType...) AND (predicate OR|AND predicate...).
// Empty parts do not restrict.
type FilterItem struct {
	eventTypes             []FilterEventTypeString
	predicates             []FilterPredicate
	allPredicatesMustMatch bool
}

func (fi FilterItem) EventTypes() []FilterEventTypeString {
	return fi.eventTypes
}

func (fi FilterItem) Predicates() []FilterPredicate {
	return fi.predicates
}

func (fi FilterItem) AllPredicatesMustMatch() bool {
	return fi.allPredicatesMustMatch
}

// Matches evaluates the item against one event.
func (fi FilterItem) Matches(eventType FilterEventTypeString, lookup PayloadLookup) bool {
	if len(fi.eventTypes) > 0 && !slices.Contains(fi.eventTypes, eventType) {
		return false
	}

	if len(fi.predicates) == 0 {
		return true
	}

	matched := 0
	for _, predicate := range fi.predicates {
		val, ok := lookup(predicate.key)
		if ok && val == predicate.val {
			matched++
		}
	}

	if fi.allPredicatesMustMatch {
		return matched == len(fi.predicates)
	}

	return matched > 0
}

/***** FilterPredicate *****/

// FilterPredicate matches events whose payload has the top-level string field key equal to val.
type FilterPredicate struct {
	key FilterKeyString
	val FilterValString
}

func P(key FilterKeyString, val FilterValString) FilterPredicate {
	return FilterPredicate{key: key, val: val}
}

func (fp FilterPredicate) Key() FilterKeyString {
	return fp.key
}

func (fp FilterPredicate) Val() FilterValString {
	return fp.val
}

/***** FilterBuilder *****/

// FilterBuilder builds an event filter that engines translate into their own query language.
//
//   - empty filter (MatchingAnyEvent)
//   - (eventType OR eventType...)
//   - (predicate OR predicate...) / (predicate AND predicate...)
//   - ((eventType OR eventType...) AND (predicate OR|AND predicate...))
//   - any of the above OR-ed together via OrMatching
type FilterBuilder interface {
	// Matching starts a new FilterItem.
	Matching() FilterItemBuilder

	// MatchingAnyEvent directly creates an empty Filter.
	MatchingAnyEvent() Filter
}

// FilterItemBuilder adds event types and predicates to the current FilterItem.
//
// Input is sanitized: empty event types and partial predicates are removed,
// the rest is sorted and de-duplicated.
type FilterItemBuilder interface {
	// AnyEventTypeOf adds event types, any of which must match.
	AnyEventTypeOf(eventType FilterEventTypeString, eventTypes ...FilterEventTypeString) FilterItemBuilder

	// AnyPredicateOf adds predicates, any of which must match.
	AnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) FilterItemBuilder

	// AllPredicatesOf adds predicates, all of which must match.
	AllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) FilterItemBuilder

	// OrMatching finalizes the current FilterItem and starts a new one.
	OrMatching() FilterItemBuilder

	// Finalize returns the Filter.
	Finalize() Filter
}

type filterBuilder struct {
	filter            Filter
	currentFilterItem FilterItem
}

// BuildEventFilter creates a FilterBuilder which must eventually be finalized with Finalize() or MatchingAnyEvent().
func BuildEventFilter() FilterBuilder {
	return filterBuilder{}
}

func (fb filterBuilder) Matching() FilterItemBuilder {
	fb.currentFilterItem = FilterItem{}

	return fb
}

func (fb filterBuilder) MatchingAnyEvent() Filter {
	return Filter{}
}

func (fb filterBuilder) AnyEventTypeOf(
	eventType FilterEventTypeString,
	eventTypes ...FilterEventTypeString,
) FilterItemBuilder {

	all := append([]FilterEventTypeString{eventType}, eventTypes...)
	all = append(all, fb.currentFilterItem.eventTypes...)
	all = slices.DeleteFunc(all, func(e FilterEventTypeString) bool { return e == "" })
	slices.Sort(all)

	fb.currentFilterItem.eventTypes = slices.Clip(slices.Compact(all))

	return fb
}

func (fb filterBuilder) AnyPredicateOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) FilterItemBuilder {

	fb.currentFilterItem.predicates = fb.mergePredicates(predicate, predicates...)

	return fb
}

func (fb filterBuilder) AllPredicatesOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) FilterItemBuilder {

	fb.currentFilterItem.allPredicatesMustMatch = true
	fb.currentFilterItem.predicates = fb.mergePredicates(predicate, predicates...)

	return fb
}

func (fb filterBuilder) mergePredicates(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) []FilterPredicate {

	all := append([]FilterPredicate{predicate}, predicates...)
	all = append(all, fb.currentFilterItem.predicates...)
	all = slices.DeleteFunc(all, func(p FilterPredicate) bool { return p.key == "" || p.val == "" })
	slices.SortFunc(all, func(a, b FilterPredicate) int {
		if c := strings.Compare(a.key, b.key); c != 0 {
			return c
		}

		return strings.Compare(a.val, b.val)
	})

	return slices.Clip(slices.Compact(all))
}

func (fb filterBuilder) OrMatching() FilterItemBuilder {
	fb.filter.items = append(slices.Clip(fb.filter.items), fb.currentFilterItem)
	fb.currentFilterItem = FilterItem{}

	return fb
}

func (fb filterBuilder) Finalize() Filter {
	items := append(slices.Clip(fb.filter.items), fb.currentFilterItem)
	items = slices.DeleteFunc(items, func(fi FilterItem) bool {
		return len(fi.eventTypes) == 0 && len(fi.predicates) == 0
	})

	return Filter{items: items}
}
