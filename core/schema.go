package core

import (
	"errors"
	"strconv"
	"time"
)

var (
	ErrUnknownField      = errors.New("unknown field")
	ErrMissingKeyField   = errors.New("key field must not be empty")
	ErrInvalidFieldValue = errors.New("invalid field value")
)

// DateLayout is the wire format of date fields.
const DateLayout = "2006-01-02"

// FieldType tells how a field value, which always travels as a string, is validated.
type FieldType string

const (
	FieldString FieldType = "string"
	FieldInt    FieldType = "int"
	FieldDate   FieldType = "date"
)

// FieldDescriptor describes one attribute of an aggregate kind.
//
// Key fields form the natural key and are immutable once the aggregate exists.
// Mutable fields are fully replaced by updates. Sensitive fields are masked in logs.
// Filter fields may be used for lookups.
type FieldDescriptor struct {
	Name      string
	Type      FieldType
	Key       bool
	Mutable   bool
	Sensitive bool
	Filter    bool
}

// Schema is the field descriptor table of one kind, in declaration order.
type Schema struct {
	Kind   Kind
	Fields []FieldDescriptor
}

func key(name string) FieldDescriptor {
	return FieldDescriptor{Name: name, Type: FieldString, Key: true}
}

func mutable(name string, fieldType FieldType) FieldDescriptor {
	return FieldDescriptor{Name: name, Type: fieldType, Mutable: true}
}

var schemas = map[Kind]Schema{
	KindClient: {Kind: KindClient, Fields: []FieldDescriptor{
		key("email"),
		mutable("address", FieldString),
		mutable("contact", FieldString),
		mutable("phone", FieldString),
	}},
	KindIncident: {Kind: KindIncident, Fields: []FieldDescriptor{
		key("license_id"),
		key("pc_id"),
	}},
	KindLicense: {Kind: KindLicense, Fields: []FieldDescriptor{
		key("client_id"),
		key("product_id"),
		mutable("duration", FieldInt),
		mutable("order_date", FieldDate),
	}},
	KindOrder: {Kind: KindOrder, Fields: []FieldDescriptor{
		key("client_id"),
		key("product_id"),
		mutable("duration", FieldInt),
		mutable("order_date", FieldDate),
	}},
	KindPc: {Kind: KindPc, Fields: []FieldDescriptor{
		key("installation_code"),
	}},
	KindPrelicense: {Kind: KindPrelicense, Fields: []FieldDescriptor{
		key("order_id"),
		mutable("seats", FieldInt),
		mutable("duration", FieldInt),
	}},
	KindProduct: {Kind: KindProduct, Fields: []FieldDescriptor{
		key("product_type_id"),
		key("product_version"),
	}},
	KindProductType: {Kind: KindProductType, Fields: []FieldDescriptor{
		key("name"),
		key("version"),
	}},
	KindUser: {Kind: KindUser, Fields: []FieldDescriptor{
		{Name: "email", Type: FieldString, Key: true, Filter: true},
		{Name: "password", Type: FieldString, Mutable: true, Sensitive: true},
	}},
}

// SchemaOf returns the field descriptor table of kind.
func SchemaOf(kind Kind) (Schema, error) {
	schema, ok := schemas[kind]
	if !ok {
		return Schema{}, errors.Join(ErrUnknownKind, errors.New(string(kind)))
	}

	return schema, nil
}

// MustSchemaOf is SchemaOf for kinds known to be valid, e.g. one of AllKinds.
func MustSchemaOf(kind Kind) Schema {
	schema, err := SchemaOf(kind)
	if err != nil {
		panic(err)
	}

	return schema
}

// Field returns the descriptor of the named field.
func (s Schema) Field(name string) (FieldDescriptor, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}

	return FieldDescriptor{}, false
}

// KeyFields returns the natural key fields in declaration order.
func (s Schema) KeyFields() []FieldDescriptor {
	return s.selectFields(func(f FieldDescriptor) bool { return f.Key })
}

// MutableFields returns the fields that updates replace.
func (s Schema) MutableFields() []FieldDescriptor {
	return s.selectFields(func(f FieldDescriptor) bool { return f.Mutable })
}

// FilterFields returns the fields that may be used for lookups.
func (s Schema) FilterFields() []FieldDescriptor {
	return s.selectFields(func(f FieldDescriptor) bool { return f.Filter })
}

func (s Schema) selectFields(keep func(FieldDescriptor) bool) []FieldDescriptor {
	selected := make([]FieldDescriptor, 0, len(s.Fields))
	for _, field := range s.Fields {
		if keep(field) {
			selected = append(selected, field)
		}
	}

	return selected
}

// ValidateForCreate checks that all key fields are set and all values are known and well-formed.
func (s Schema) ValidateForCreate(attrs Attributes) error {
	if err := s.validateValues(attrs); err != nil {
		return err
	}

	for _, field := range s.KeyFields() {
		if attrs[field.Name] == "" {
			return errors.Join(ErrMissingKeyField, errors.New(field.Name))
		}
	}

	return nil
}

// ValidateForUpdate checks that all values are known and well-formed. Key fields may be present, they are ignored.
func (s Schema) ValidateForUpdate(attrs Attributes) error {
	return s.validateValues(attrs)
}

func (s Schema) validateValues(attrs Attributes) error {
	for name, value := range attrs {
		field, ok := s.Field(name)
		if !ok {
			return errors.Join(ErrUnknownField, errors.New(string(s.Kind)+"."+name))
		}

		if err := field.validate(value); err != nil {
			return err
		}
	}

	return nil
}

func (f FieldDescriptor) validate(value string) error {
	if value == "" {
		return nil
	}

	switch f.Type {
	case FieldInt:
		if _, err := strconv.Atoi(value); err != nil {
			return errors.Join(ErrInvalidFieldValue, errors.New(f.Name), err)
		}

	case FieldDate:
		if _, err := time.Parse(DateLayout, value); err != nil {
			return errors.Join(ErrInvalidFieldValue, errors.New(f.Name), err)
		}
	}

	return nil
}

// Normalize returns attributes holding exactly the schema's fields, blank where attrs has no value.
func (s Schema) Normalize(attrs Attributes) Attributes {
	normalized := make(Attributes, len(s.Fields))
	for _, field := range s.Fields {
		normalized[field.Name] = attrs[field.Name]
	}

	return normalized
}
