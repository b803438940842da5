package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/aretw0/rail/internal/testutils"
	"github.com/aretw0/rail/pkg/ports"
	"github.com/aretw0/rail/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Contract(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)
	tests.ModelStoreContractTest(t, New(loam.NewTypedRepository[ModelMetadata](repo)))
}

func TestRegistry_ReadsHandWrittenDocuments(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)
	ctx := context.Background()

	doc := core.Document{
		ID: "Order.md",
		Content: `---
name: Order
format: "length: 1 5"
fields:
  - name: id
    type: integer
  - name: status
    type: string
    description: Current state
    format: lower-case
---
A customer order.
`,
	}
	require.NoError(t, repo.Save(ctx, doc))

	reg := New(loam.NewTypedRepository[ModelMetadata](repo))
	m, err := reg.Lookup(ctx, "Order")
	require.NoError(t, err)

	assert.Equal(t, "Order", m.Name)
	assert.Equal(t, "A customer order.", m.Description)
	assert.Equal(t, "length: 1 5", m.Directive)
	assert.Equal(t, []ports.ModelField{
		{Name: "id", Type: "integer"},
		{Name: "status", Type: "string", Description: "Current state", Directive: "lower-case"},
	}, m.Fields)

	names, err := reg.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Order"}, names)
}
