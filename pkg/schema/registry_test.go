package schema

import (
	"testing"

	"github.com/aretw0/rail/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	for _, tag := range []string{"string", "integer", "float", "bool", "boolean", "date", "time", "email", "url", "percentage", "list", "object", "choice", "case", "model", "pydantic"} {
		_, err := r.Lookup(tag)
		assert.NoError(t, err, tag)
	}
	assert.Equal(t, "bool", r.Canonical("boolean"))
	assert.Equal(t, "model", r.Canonical("pydantic"))
	assert.Equal(t, "string", r.Canonical("string"))

	_, err := r.Lookup("widget")
	var ute *UnknownTypeError
	assert.ErrorAs(t, err, &ute)

	assert.ErrorIs(t, r.Register("phone", KindConstructor(KindString)), ErrRegistryFrozen)
	assert.ErrorIs(t, r.Alias("bit", "bool"), ErrRegistryFrozen)
}

func TestDefaultRegistry_Independent(t *testing.T) {
	a, b := DefaultRegistry(), DefaultRegistry()
	assert.NotSame(t, a, b)
	assert.Equal(t, a.Tags(), b.Tags())
}

func TestRegistry_CustomTag(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("object", KindConstructor(KindObject)))
	require.NoError(t, r.Register("phone", KindConstructor(KindString)))
	require.Error(t, r.Alias("tel", "telephone"), "alias targets must exist")
	require.NoError(t, r.Alias("tel", "phone"))
	r.Freeze()

	assert.Equal(t, []string{"object", "phone", "tel"}, r.Tags())

	n := mustBuild(t, `<object name="o"><phone name="p"/><tel name="t"/></object>`, WithRegistry(r))
	p, _ := n.Child("p")
	assert.Equal(t, "phone", p.Tag())
	assert.Equal(t, KindString, p.Kind())
	tel, _ := n.Child("t")
	assert.Equal(t, "phone", tel.Tag())

	_, err := Build(t.Context(), mustParse(t, `<object name="o"><integer name="i"/></object>`), WithRegistry(r))
	var ute *UnknownTypeError
	assert.ErrorAs(t, err, &ute, "registries only know what was registered")

	c := domain.Object{}
	_, err = p.Validate(t.Context(), domain.FieldKey("p"), "555", c)
	require.NoError(t, err)
	assert.Equal(t, "555", c["p"])
}

func TestKind(t *testing.T) {
	assert.Equal(t, "percentage", KindPercentage.String())
	assert.Equal(t, "unknown", Kind(99).String())
	assert.True(t, KindDate.Scalar())
	assert.False(t, KindList.Scalar())
	assert.False(t, KindModel.Scalar())
}
