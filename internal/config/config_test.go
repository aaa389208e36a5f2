package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "groq", cfg.Oracle.Provider)
	assert.Equal(t, 90, cfg.Oracle.TimeoutSeconds)
	assert.Equal(t, 1100, cfg.Pipeline.ChunkMaxChars)
	assert.Equal(t, 260, cfg.Pipeline.ChunkMinChars)
	assert.Equal(t, 150, cfg.Pipeline.ChunkOverlapChars)
	assert.Equal(t, 6, cfg.Pipeline.MaxSelectedChunks)
	assert.Equal(t, 2, cfg.Pipeline.MaxRetries)
	assert.Equal(t, "memory", cfg.Store.Type)
	assert.Equal(t, 5, cfg.Limits.MaxPDFSizeMB)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "groq", cfg.Oracle.Provider)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  address: ":9090"
oracle:
  provider: gemini
pipeline:
  chunk_max_chars: 800
  max_selected_chunks: 4
store:
  type: redis
  redis:
    address: "localhost:6379"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "gemini", cfg.Oracle.Provider)
	assert.Equal(t, 800, cfg.Pipeline.ChunkMaxChars)
	assert.Equal(t, 4, cfg.Pipeline.MaxSelectedChunks)
	assert.Equal(t, "redis", cfg.Store.Type)
	assert.Equal(t, "localhost:6379", cfg.Store.Redis.Address)
	// untouched keys keep their defaults
	assert.Equal(t, 2, cfg.Pipeline.MaxRetries)
}

func TestLoadInvalidYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a mapping"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("RESUME_CHUNK_MAX_CHARS", "900")
	t.Setenv("AI_JSON_MAX_RETRIES", "1")
	t.Setenv("SERVER_ADDRESS", ":7070")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Oracle.Provider)
	assert.Equal(t, "sk-test", cfg.Oracle.OpenAI.APIKey)
	assert.Equal(t, 900, cfg.Pipeline.ChunkMaxChars)
	assert.Equal(t, 1, cfg.Pipeline.MaxRetries)
	assert.Equal(t, ":7070", cfg.Server.Address)
}

func TestLoadIgnoresMalformedIntEnv(t *testing.T) {
	t.Setenv("RESUME_CHUNK_MAX_CHARS", "not-a-number")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1100, cfg.Pipeline.ChunkMaxChars)
}
