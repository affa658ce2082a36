package core

import (
	"slices"
)

// Aggregate is a persisted licensing record of one kind.
//
// History lists the ids of the events that produced and mutated it, oldest first.
// Values are treated as immutable: every transition returns a new Aggregate.
type Aggregate struct {
	ID         AggregateIDString
	Kind       Kind
	Attributes Attributes
	History    []EventIDString
}

// EmptyAggregate returns a placeholder of kind with blank values for every field, used as the
// target when decoding. It has no id and no history and is never a valid business record.
func EmptyAggregate(kind Kind) Aggregate {
	attrs := make(Attributes)
	if schema, err := SchemaOf(kind); err == nil {
		attrs = schema.Normalize(nil)
	}

	return Aggregate{Kind: kind, Attributes: attrs, History: []EventIDString{}}
}

// NewAggregate builds a new aggregate from request attributes. Unknown fields are dropped,
// missing ones are blank, and createdBy becomes the first history entry.
func NewAggregate(kind Kind, id AggregateIDString, attrs Attributes, createdBy EventIDString) Aggregate {
	return Aggregate{
		ID:         id,
		Kind:       kind,
		Attributes: MustSchemaOf(kind).Normalize(attrs),
		History:    []EventIDString{createdBy},
	}
}

// IsEmpty reports whether a is a placeholder rather than a persisted record.
func (a Aggregate) IsEmpty() bool {
	return a.ID == ""
}

// ApplyUpdated returns a copy where every mutable field is overwritten from attrs, blank if
// attrs has no value for it, and eventID is appended to the history. Key fields never change.
func (a Aggregate) ApplyUpdated(eventID EventIDString, attrs Attributes) Aggregate {
	updated := a.Clone()

	for _, field := range MustSchemaOf(a.Kind).MutableFields() {
		updated.Attributes[field.Name] = attrs[field.Name]
	}

	updated.History = append(updated.History, eventID)

	return updated
}

// NaturalKey returns the natural key of a.
func (a Aggregate) NaturalKey() NaturalKey {
	key, _ := NaturalKeyOf(a.Kind, a.Attributes)

	return key
}

// Redacted returns the attributes with sensitive values masked, for logging.
func (a Aggregate) Redacted() Attributes {
	redacted := a.Attributes.Clone()

	schema, err := SchemaOf(a.Kind)
	if err != nil {
		return redacted
	}

	for _, field := range schema.Fields {
		if field.Sensitive && redacted[field.Name] != "" {
			redacted[field.Name] = redactedValue
		}
	}

	return redacted
}

// Clone returns a deep copy.
func (a Aggregate) Clone() Aggregate {
	return Aggregate{
		ID:         a.ID,
		Kind:       a.Kind,
		Attributes: a.Attributes.Clone(),
		History:    slices.Clone(a.History),
	}
}
