package config

import (
	"path/filepath"
	"testing"

	"github.com/aretw0/rail/internal/testutils"
	"github.com/aretw0/rail/pkg/adapters/file"
	"github.com/aretw0/rail/pkg/adapters/memory"
	"github.com/aretw0/rail/pkg/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "memory", cfg.Models.Source)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Strict)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFile(t, dir, "rail.yaml", `
strict: true
log_level: debug
models:
  source: file
  path: ./models
server:
  port: 9000
`)
	t.Setenv("RAIL_SERVER_PORT", "9100")

	cfg, err := Load(filepath.Join(dir, "rail.yaml"))
	require.NoError(t, err)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "file", cfg.Models.Source)
	assert.Equal(t, "./models", cfg.Models.Path)
	assert.Equal(t, 9100, cfg.Server.Port, "environment wins over the file")
	assert.Equal(t, "rail:model:", cfg.Models.Redis.Prefix)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config")

	testutils.WriteFile(t, dir, "bad.yaml", "models:\n  source: s3\n")
	_, err = Load(filepath.Join(dir, "bad.yaml"))
	assert.ErrorContains(t, err, `unknown models.source "s3"`)
}

func TestOpenModels(t *testing.T) {
	store, closeFn, err := OpenModels(Models{Source: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &memory.Registry{}, store)
	assert.NoError(t, closeFn())

	store, _, err = OpenModels(Models{Source: "file", Path: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &file.Registry{}, store)

	mr, _ := testutils.SetupRedis(t)
	store, closeFn, err = OpenModels(Models{Source: "redis", Redis: Redis{Addr: mr.Addr(), Prefix: "t:"}})
	require.NoError(t, err)
	assert.IsType(t, &redis.Registry{}, store)
	assert.NoError(t, closeFn())

	_, _, err = OpenModels(Models{Source: "s3"})
	assert.Error(t, err)
}
