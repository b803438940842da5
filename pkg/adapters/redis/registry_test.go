package redis_test

import (
	"context"
	"testing"

	"github.com/aretw0/rail/internal/testutils"
	"github.com/aretw0/rail/pkg/adapters/redis"
	"github.com/aretw0/rail/pkg/ports"
	"github.com/aretw0/rail/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRegistry_Contract(t *testing.T) {
	_, client := testutils.SetupRedis(t)
	tests.ModelStoreContractTest(t, redis.NewFromClient(client))
}

func TestRedisRegistry_Keys(t *testing.T) {
	mr, client := testutils.SetupRedis(t)
	reg := redis.NewFromClient(client, redis.WithPrefix("test:models:"))
	ctx := context.Background()

	require.NoError(t, reg.Ping(ctx))
	require.NoError(t, reg.Save(ctx, &ports.Model{Name: "Pet", Fields: []ports.ModelField{{Name: "kind", Type: "string"}}}))

	assert.True(t, mr.Exists("test:models:Pet"), "model key should be set in Redis")
	members, err := mr.Members("test:models:index")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pet"}, members)

	raw, err := mr.Get("test:models:Pet")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Pet","fields":[{"name":"kind","type":"string"}]}`, raw)

	require.NoError(t, reg.Delete(ctx, "Pet"))
	assert.False(t, mr.Exists("test:models:Pet"), "model key should be removed after delete")

	_, err = reg.Lookup(ctx, "Pet")
	assert.ErrorIs(t, err, ports.ErrModelNotFound)
}

func TestRedisRegistry_CorruptValue(t *testing.T) {
	mr, client := testutils.SetupRedis(t)
	reg := redis.NewFromClient(client)

	require.NoError(t, mr.Set("rail:model:Broken", "{not json"))
	_, err := reg.Lookup(context.Background(), "Broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrModelNotFound)
}
