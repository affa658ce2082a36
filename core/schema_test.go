package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acmsl/licdata/core"
)

func Test_SchemaOf_CoversEveryKind_WithAtLeastOneKeyField(t *testing.T) {
	for _, kind := range core.AllKinds() {
		t.Run(kind.String(), func(t *testing.T) {
			schema, err := core.SchemaOf(kind)

			require.NoError(t, err)
			assert.Equal(t, kind, schema.Kind)
			assert.NotEmpty(t, schema.KeyFields())

			for _, field := range schema.Fields {
				assert.False(t, field.Key && field.Mutable, "key field %s must not be mutable", field.Name)
			}
		})
	}
}

func Test_SchemaOf_UnknownKind(t *testing.T) {
	_, err := core.SchemaOf("Invoice")

	assert.ErrorIs(t, err, core.ErrUnknownKind)
}

func Test_Schema_UserFields(t *testing.T) {
	schema := core.MustSchemaOf(core.KindUser)

	email, ok := schema.Field("email")
	require.True(t, ok)
	password, ok := schema.Field("password")
	require.True(t, ok)

	assert.True(t, email.Key)
	assert.True(t, email.Filter)
	assert.False(t, email.Mutable, "email is the natural key of users")
	assert.True(t, password.Mutable)
	assert.True(t, password.Sensitive)
	assert.Equal(t, []core.FieldDescriptor{email}, schema.FilterFields())
}

func Test_Schema_ValidateForCreate(t *testing.T) {
	testCases := []struct {
		description string
		kind        core.Kind
		attrs       core.Attributes
		expectedErr error
	}{
		{
			description: "valid client",
			kind:        core.KindClient,
			attrs:       core.Attributes{"email": "a@x.com", "address": "A"},
		},
		{
			description: "missing key field",
			kind:        core.KindClient,
			attrs:       core.Attributes{"address": "A"},
			expectedErr: core.ErrMissingKeyField,
		},
		{
			description: "one of two key fields blank",
			kind:        core.KindIncident,
			attrs:       core.Attributes{"license_id": "l-1", "pc_id": ""},
			expectedErr: core.ErrMissingKeyField,
		},
		{
			description: "unknown field",
			kind:        core.KindPc,
			attrs:       core.Attributes{"installation_code": "c-1", "serial": "x"},
			expectedErr: core.ErrUnknownField,
		},
		{
			description: "malformed int",
			kind:        core.KindPrelicense,
			attrs:       core.Attributes{"order_id": "o-1", "seats": "five"},
			expectedErr: core.ErrInvalidFieldValue,
		},
		{
			description: "malformed date",
			kind:        core.KindOrder,
			attrs:       core.Attributes{"client_id": "c-1", "product_id": "p-1", "order_date": "01/02/2025"},
			expectedErr: core.ErrInvalidFieldValue,
		},
		{
			description: "well-formed int and date",
			kind:        core.KindLicense,
			attrs:       core.Attributes{"client_id": "c-1", "product_id": "p-1", "duration": "30", "order_date": "2025-01-02"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			err := core.MustSchemaOf(tc.kind).ValidateForCreate(tc.attrs)

			if tc.expectedErr == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func Test_Schema_ValidateForUpdate_AllowsMissingKeyFields(t *testing.T) {
	schema := core.MustSchemaOf(core.KindClient)

	assert.NoError(t, schema.ValidateForUpdate(core.Attributes{"phone": "2"}))
	assert.ErrorIs(t, schema.ValidateForUpdate(core.Attributes{"fax": "2"}), core.ErrUnknownField)
}

func Test_Schema_Normalize(t *testing.T) {
	normalized := core.MustSchemaOf(core.KindProductType).Normalize(core.Attributes{"name": "Editor", "extra": "x"})

	assert.Equal(t, core.Attributes{"name": "Editor", "version": ""}, normalized)
}

func Test_NaturalKey_String_IsCanonical(t *testing.T) {
	// arrange
	first := core.Attributes{"version": "2", "name": "Editor"}
	second := core.Attributes{"name": "Editor", "version": "2", "ignored": "x"}

	// act
	firstKey, err := core.NaturalKeyOf(core.KindProductType, first)
	require.NoError(t, err)
	secondKey, err := core.NaturalKeyOf(core.KindProductType, second)
	require.NoError(t, err)

	// assert
	assert.Equal(t, "name=Editor;version=2", firstKey.String())
	assert.Equal(t, firstKey.String(), secondKey.String())
}

func Test_NaturalKey_String_EscapesSeparators(t *testing.T) {
	ambiguousA, err := core.NaturalKeyOf(core.KindProductType, core.Attributes{"name": "a;version=b", "version": "c"})
	require.NoError(t, err)
	ambiguousB, err := core.NaturalKeyOf(core.KindProductType, core.Attributes{"name": "a", "version": "b;version=c"})
	require.NoError(t, err)

	assert.NotEqual(t, ambiguousA.String(), ambiguousB.String())
}
