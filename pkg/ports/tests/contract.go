package tests

import (
	"errors"
	"testing"

	"github.com/aretw0/rail/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ModelStoreContractTest is a reusable test suite that verifies if an adapter complies with ports.ModelStore.
// The store must be empty when passed in.
func ModelStoreContractTest(t *testing.T, store ports.ModelStore) {
	t.Helper()
	ctx := t.Context()

	person := &ports.Model{
		Name:      "Person",
		Directive: "two-words",
		Fields: []ports.ModelField{
			{Name: "name", Type: "string", Description: "Full name", Directive: "length: 1 40"},
			{Name: "age", Type: "integer", Directive: "valid-range: 0 150"},
		},
	}

	t.Run("Save and Lookup", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, person))

		got, err := store.Lookup(ctx, "Person")
		require.NoError(t, err)
		assert.Equal(t, person.Name, got.Name)
		assert.Equal(t, person.Directive, got.Directive)
		require.Len(t, got.Fields, 2, "field order must be preserved")
		assert.Equal(t, person.Fields[0], got.Fields[0])
		assert.Equal(t, person.Fields[1], got.Fields[1])
	})

	t.Run("Lookup_NotFound", func(t *testing.T) {
		_, err := store.Lookup(ctx, "non-existent-model")
		assert.True(t, errors.Is(err, ports.ErrModelNotFound), "expected ErrModelNotFound, got %v", err)
	})

	t.Run("Replace", func(t *testing.T) {
		updated := *person
		updated.Fields = []ports.ModelField{{Name: "name", Type: "string"}}
		require.NoError(t, store.Save(ctx, &updated))

		got, err := store.Lookup(ctx, "Person")
		require.NoError(t, err)
		assert.Len(t, got.Fields, 1)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, &ports.Model{Name: "Address", Fields: []ports.ModelField{{Name: "city", Type: "string"}}}))

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Address", "Person"}, names)
	})

	t.Run("Save_RequiresName", func(t *testing.T) {
		assert.Error(t, store.Save(ctx, &ports.Model{}))
	})
}
