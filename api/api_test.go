package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	doc, err := Load(t.Context())
	require.NoError(t, err)

	for _, path := range []string{"/validate", "/schema", "/healthz", "/info", "/events", "/metrics"} {
		assert.NotNil(t, doc.Paths.Find(path), path)
	}

	op := doc.Paths.Find("/schema").Get
	require.NotNil(t, op)
	assert.NotNil(t, op.Parameters.GetByInAndName("query", "format"))
	assert.NotNil(t, op.Parameters.GetByInAndName("query", "keywords"))
}

func TestSpec_ReturnsCopy(t *testing.T) {
	a := Spec()
	a[0] = 'x'
	assert.NotEqual(t, a[0], Spec()[0])
}
