package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/acmsl/licdata/core"
)

func Test_EmptyAggregate_IsAPlaceholder(t *testing.T) {
	empty := core.EmptyAggregate(core.KindClient)

	assert.True(t, empty.IsEmpty())
	assert.Empty(t, empty.History)
	assert.Equal(t, core.Attributes{"email": "", "address": "", "contact": "", "phone": ""}, empty.Attributes)
}

func Test_NewAggregate_NormalizesAttributes(t *testing.T) {
	aggregate := core.NewAggregate(core.KindPc, "a-1", core.Attributes{"installation_code": "c-1", "x": "y"}, "e-1")

	assert.False(t, aggregate.IsEmpty())
	assert.Equal(t, core.Attributes{"installation_code": "c-1"}, aggregate.Attributes)
	assert.Equal(t, []core.EventIDString{"e-1"}, aggregate.History)
}

func Test_ApplyUpdated_ReplacesMutableFields_AndKeepsKeys(t *testing.T) {
	// arrange
	original := core.NewAggregate(
		core.KindClient,
		"a-1",
		core.Attributes{"email": "a@x.com", "address": "A", "contact": "B", "phone": "1"},
		"e-1",
	)

	// act
	updated := original.ApplyUpdated("e-2", core.Attributes{"email": "evil@x.com", "phone": "2"})

	// assert
	assert.Equal(t, core.Attributes{"email": "a@x.com", "address": "", "contact": "", "phone": "2"}, updated.Attributes)
	assert.Equal(t, []core.EventIDString{"e-1", "e-2"}, updated.History)
	assert.Equal(t, "A", original.Attributes["address"], "the original must not change")
	assert.Equal(t, []core.EventIDString{"e-1"}, original.History, "the original must not change")
}

func Test_ApplyUpdated_OnKindWithoutMutableFields_OnlyExtendsHistory(t *testing.T) {
	original := core.NewAggregate(core.KindIncident, "a-1", core.Attributes{"license_id": "l", "pc_id": "p"}, "e-1")

	updated := original.ApplyUpdated("e-2", core.Attributes{"license_id": "other"})

	assert.Equal(t, original.Attributes, updated.Attributes)
	assert.Equal(t, []core.EventIDString{"e-1", "e-2"}, updated.History)
}

func Test_ApplyUpdated_OnUser_ChangesPasswordButNotEmail(t *testing.T) {
	original := core.NewAggregate(core.KindUser, "u-1", core.Attributes{"email": "a@x.com", "password": "old"}, "e-1")

	updated := original.ApplyUpdated("e-2", core.Attributes{"email": "b@x.com", "password": "new"})

	assert.Equal(t, core.Attributes{"email": "a@x.com", "password": "new"}, updated.Attributes)
	assert.Equal(t, original.NaturalKey(), updated.NaturalKey())
}

func Test_Redacted_MasksSensitiveValues(t *testing.T) {
	user := core.NewAggregate(core.KindUser, "u-1", core.Attributes{"email": "a@x.com", "password": "secret"}, "e-1")

	redacted := user.Redacted()

	assert.Equal(t, "a@x.com", redacted["email"])
	assert.NotEqual(t, "secret", redacted["password"])
	assert.Equal(t, "secret", user.Attributes["password"])
}

func Test_Aggregate_NaturalKey(t *testing.T) {
	order := core.NewAggregate(core.KindOrder, "o-1", core.Attributes{"client_id": "c", "product_id": "p", "duration": "3"}, "e-1")

	assert.Equal(t, "client_id=c;product_id=p", order.NaturalKey().String())
}
