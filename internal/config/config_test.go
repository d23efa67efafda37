package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/tally/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Point at a non-existent default path from a scratch dir.
	t.Chdir(t.TempDir())

	cfg, err := config.Load(config.DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, "annotate.csv", cfg.File)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "tally:dataset", cfg.Redis.Key)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.yaml")
	content := `
file: data/c03-annotate.csv
seed: 7
port: "9090"
redis:
  addr: localhost:6379
  db: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data/c03-annotate.csv", cfg.File)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	// Unset nested fields keep their defaults.
	assert.Equal(t, "tally:dataset", cfg.Redis.Key)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TALLY_FILE", "env.csv")
	t.Setenv("TALLY_SEED", "99")
	t.Setenv("TALLY_REDIS_ADDR", "redis:6379")

	cfg, err := config.Load(config.DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, "env.csv", cfg.File)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("file: [unclosed"), 0644))

	_, err := config.Load(path)
	assert.Error(t, err)
}
