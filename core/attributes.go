package core

import (
	"maps"
	"strings"
)

const redactedValue = "********"

// Attributes holds the field values of an aggregate or request, keyed by field name.
type Attributes map[string]string

// Clone returns an independent copy. A nil receiver yields an empty map.
func (a Attributes) Clone() Attributes {
	clone := make(Attributes, len(a))
	maps.Copy(clone, a)

	return clone
}

// NaturalKey is the set of key field values that identifies an aggregate of one kind.
type NaturalKey struct {
	Kind   Kind
	Values Attributes
}

// NaturalKeyOf extracts the natural key of kind from attrs.
func NaturalKeyOf(kind Kind, attrs Attributes) (NaturalKey, error) {
	schema, err := SchemaOf(kind)
	if err != nil {
		return NaturalKey{}, err
	}

	values := make(Attributes)
	for _, field := range schema.KeyFields() {
		values[field.Name] = attrs[field.Name]
	}

	return NaturalKey{Kind: kind, Values: values}, nil
}

// String is the canonical form "name=value;name=value" in declaration order.
// Two natural keys of the same kind are equal iff their strings are equal.
func (k NaturalKey) String() string {
	schema, err := SchemaOf(k.Kind)
	if err != nil {
		return ""
	}

	parts := make([]string, 0, len(k.Values))
	for _, field := range schema.KeyFields() {
		parts = append(parts, field.Name+"="+escapeKeyValue(k.Values[field.Name]))
	}

	return strings.Join(parts, ";")
}

var keyValueEscaper = strings.NewReplacer(`\`, `\\`, `;`, `\;`, `=`, `\=`)

func escapeKeyValue(value string) string {
	return keyValueEscaper.Replace(value)
}
