package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 3*time.Minute, cfg.Server.RequestTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "configs/products.json", cfg.Catalog.Path)
	assert.Equal(t, 4, cfg.Workflow.LinkConcurrency)
	assert.False(t, cfg.RateLimit.Enabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PORT", "9090")
	t.Setenv("CATALOG_PATH", "/data/products.yaml")
	t.Setenv("WORKFLOW_LINK_CONCURRENCY", "1")
	t.Setenv("RATELIMIT_REDIS_ADDR", "localhost:6379")
	t.Setenv("RATELIMIT_WINDOW", "30s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "/data/products.yaml", cfg.Catalog.Path)
	assert.Equal(t, 1, cfg.Workflow.LinkConcurrency)
	assert.True(t, cfg.RateLimit.Enabled())
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, 5, cfg.RateLimit.Requests)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
gemini:
  model: gemini-2.5-pro
log:
  level: debug
  format: json
workflow:
  seed: 42
server:
  cors_origins:
    - https://telex.im
    - http://localhost:3000
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, uint64(42), cfg.Workflow.Seed)
	assert.Equal(t, []string{"https://telex.im", "http://localhost:3000"}, cfg.Server.CORSOrigins)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	})

	t.Run("missing explicit file", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "test-key")
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad concurrency", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "test-key")
		t.Setenv("WORKFLOW_LINK_CONCURRENCY", "0")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "link_concurrency")
	})
}
