package ports

import (
	"testing"

	"github.com/aretw0/rail/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// CatalogCase is one validator construction exercised by RunCatalogContract.
type CatalogCase struct {
	Tag  string
	Name string
	Args []any
}

// RunCatalogContract runs a suite of tests to verify that a Catalog
// implementation adheres to the defined interface contract.
func RunCatalogContract(t *testing.T, catalog Catalog, cases []CatalogCase) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.Tag+"/"+tc.Name, func(t *testing.T) {
			assert.Contains(t, catalog.Applicable(tc.Tag), tc.Name, "validator should be applicable to its tag")

			v, err := catalog.Build(tc.Name, tc.Args, "")
			require.NoError(t, err, "Build should accept the declared arguments")
			require.NotNil(t, v)
			assert.Equal(t, tc.Name, v.Name(), "Name should echo the directive name")
			assert.NotEmpty(t, v.Render(false), "Render should produce a directive")
		})
	}

	t.Run("Unknown Tag", func(t *testing.T) {
		assert.Empty(t, catalog.Applicable("no-such-tag"))
	})

	t.Run("Unknown Validator", func(t *testing.T) {
		_, err := catalog.Build("no-such-validator", nil, "")
		assert.Error(t, err)
	})

	t.Run("Validate Returns Container", func(t *testing.T) {
		if len(cases) == 0 {
			t.Skip("no cases")
		}
		tc := cases[0]
		v, err := catalog.Build(tc.Name, tc.Args, "noop")
		require.NoError(t, err)

		obj := domain.Object{"k": nil}
		out, err := v.Validate(t.Context(), domain.FieldKey("k"), nil, obj)
		require.NoError(t, err, "noop policy must never fail")
		assert.NotNil(t, out)
	})
}
