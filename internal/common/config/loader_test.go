// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFileDefaults(t *testing.T) {
	path := writeConfig(t, "app:\n  environment: test\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "storefront-insights", cfg.App.Name)
	assert.Equal(t, "mock", cfg.Store.Mode)
	assert.Equal(t, int64(42), cfg.Store.FixtureSeed)
	assert.Equal(t, 10000, cfg.APIs.GenAI.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, ":9464", cfg.Metrics.Address)
}

func TestLoadFromFileRejectsBadMode(t *testing.T) {
	path := writeConfig(t, "store:\n  mode: hybrid\n")

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.mode")
}

func TestLoadFromFileLiveModeRequiresPostgres(t *testing.T) {
	path := writeConfig(t, `
store:
  mode: live
  live_source: postgres
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.postgres.host")
}

func TestLoadFromFileLiveElasticsearch(t *testing.T) {
	path := writeConfig(t, `
store:
  mode: live
  live_source: elasticsearch
database:
  elasticsearch:
    addresses:
      - http://localhost:9200
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "elasticsearch", cfg.Store.LiveSource)
	assert.Equal(t, "orders", cfg.Database.Elasticsearch.Index)
}

func TestLoadFromFileCacheRequiresRedis(t *testing.T) {
	path := writeConfig(t, "store:\n  cache_ttl: 300\n")

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.redis.address")
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, "10s", GetDuration(10000).String())
}
