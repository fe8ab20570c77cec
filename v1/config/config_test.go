package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Aleph-Alpha/vectorshard/v1/database"
	"github.com/Aleph-Alpha/vectorshard/v1/vectordb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
database:
  type: mariadb
  mariadb:
    connection:
      host: db.internal
      port: "3306"
      user: registry
      password: secret
      db_name: vectors
  pool:
    max_idle: 4
registry:
  trending_table: cat_is_trending
qdrant:
  index_prefix: index-
  timeout: 15s
  projects:
    - name: QA1
      endpoint: qdrant-1.internal
      api_key: k1
    - name: QA2
      endpoint: qdrant-2.internal
      api_key_env: CONFIG_TEST_QA2_KEY
allocator:
  namespaces_per_index: 100
  indexes_per_project: 3
embedding:
  endpoint: http://inference.internal
  model: embed-v1
server:
  api_keys: [client-key]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFileOverDefaults(t *testing.T) {
	t.Setenv("CONFIG_TEST_QA2_KEY", "k2")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, database.TypeMariaDB, cfg.Database.Type)
	require.NotNil(t, cfg.Database.MariaDB)
	assert.Equal(t, "db.internal", cfg.Database.MariaDB.Connection.Host)
	assert.Equal(t, 4, cfg.Database.Pool.MaxIdle)
	assert.Equal(t, 3, cfg.Database.Pool.Retry.MaxAttempts)

	require.Len(t, cfg.Qdrant.Projects, 2)
	assert.Equal(t, "QA2", cfg.Qdrant.Projects[1].Name)
	assert.Equal(t, 15*time.Second, cfg.Qdrant.Timeout)

	assert.Equal(t, 100, cfg.Allocator.NamespacesPerIndex)
	assert.Equal(t, 3, cfg.Allocator.IndexesPerProject)
	assert.Equal(t, 768, cfg.Allocator.Dimension)
	assert.Equal(t, 512, cfg.Ingest.ChunkSize)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("CONFIG_TEST_QA2_KEY", "k2")
	t.Setenv("VECTORSHARD_ALLOCATOR__INDEXES_PER_PROJECT", "7")
	t.Setenv("VECTORSHARD_DATABASE__MARIADB__CONNECTION__PASSWORD", "from-env")
	t.Setenv("VECTORSHARD_EMBEDDING__BATCH_SIZE", "16")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Allocator.IndexesPerProject)
	assert.Equal(t, "from-env", cfg.Database.MariaDB.Connection.Password)
	assert.Equal(t, 16, cfg.Embedding.BatchSize)
}

func TestMissingCredentialFailsFast(t *testing.T) {
	// CONFIG_TEST_QA2_KEY unset
	t.Setenv("CONFIG_TEST_QA2_KEY", "")

	_, err := Load(writeConfig(t, sampleYAML))
	require.Error(t, err)
	assert.ErrorIs(t, err, vectordb.ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), "qdrant")
}

func TestCrossSectionChecks(t *testing.T) {
	t.Setenv("CONFIG_TEST_QA2_KEY", "k2")
	t.Setenv("VECTORSHARD_EMBEDDING__DIMENSION", "1024")
	t.Setenv("VECTORSHARD_ALLOCATOR__INDEX_PREFIX", "shard-")

	_, err := Load(writeConfig(t, sampleYAML))
	require.Error(t, err)
	assert.ErrorIs(t, err, vectordb.ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), "dimension 1024")
	assert.Contains(t, err.Error(), "index_prefix")
}

func TestFacetLimitBelowCapacityRejected(t *testing.T) {
	t.Setenv("CONFIG_TEST_QA2_KEY", "k2")
	t.Setenv("VECTORSHARD_ALLOCATOR__NAMESPACES_PER_INDEX", "500")
	t.Setenv("VECTORSHARD_QDRANT__FACET_LIMIT", "100")

	_, err := Load(writeConfig(t, sampleYAML))
	require.Error(t, err)
	assert.ErrorIs(t, err, vectordb.ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), "facet_limit 100")

	t.Setenv("VECTORSHARD_QDRANT__FACET_LIMIT", "500")
	_, err = Load(writeConfig(t, sampleYAML))
	assert.NoError(t, err)
}

func TestBadTrendingTableRejected(t *testing.T) {
	t.Setenv("CONFIG_TEST_QA2_KEY", "k2")
	t.Setenv("VECTORSHARD_REGISTRY__TRENDING_TABLE", "cat; DROP TABLE x")

	_, err := Load(writeConfig(t, sampleYAML))
	assert.ErrorIs(t, err, vectordb.ErrInvalidConfiguration)
}

func TestMissingFileUsesEnvOnly(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	// defaults alone lack a datastore, projects and keys
	assert.ErrorIs(t, err, vectordb.ErrInvalidConfiguration)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "qdrant.index_prefix", envKey("VECTORSHARD_QDRANT__INDEX_PREFIX"))
	assert.Equal(t, "database.mariadb.connection.db_name", envKey("VECTORSHARD_DATABASE__MARIADB__CONNECTION__DB_NAME"))
}
