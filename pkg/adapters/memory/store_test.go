package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/rail/pkg/adapters/memory"
	"github.com/aretw0/rail/pkg/ports"
	contract "github.com/aretw0/rail/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRegistry_Contract(t *testing.T) {
	contract.ModelStoreContractTest(t, memory.NewRegistry())
}

func TestMemoryRegistry_Isolation(t *testing.T) {
	seed := &ports.Model{Name: "Pet", Fields: []ports.ModelField{{Name: "kind", Type: "string"}}}
	reg := memory.NewRegistry(seed)

	seed.Fields[0].Type = "integer"

	got, err := reg.Lookup(context.Background(), "Pet")
	require.NoError(t, err)
	assert.Equal(t, "string", got.Fields[0].Type, "seeding must copy")

	got.Fields[0].Type = "float"
	again, err := reg.Lookup(context.Background(), "Pet")
	require.NoError(t, err)
	assert.Equal(t, "string", again.Fields[0].Type, "lookups must copy")
}
