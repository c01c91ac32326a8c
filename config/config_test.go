package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Model.BaseURL)
	assert.Equal(t, "gpt-4.1-nano", cfg.Model.Name)
	assert.Equal(t, 60, cfg.Model.TimeoutSecs)
	assert.Equal(t, "tavily", cfg.Search.Provider)
	assert.Equal(t, "basic", cfg.Search.Depth)
	assert.Equal(t, 5, cfg.Search.MaxResults)
	assert.Equal(t, 6, cfg.Research.MaxToolRounds)
	assert.False(t, cfg.Research.FetchPages)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
model:
  name: llama3.1
  base_url: http://localhost:11434/v1
search:
  provider: duckduckgo
research:
  max_tool_rounds: 3
  fetch_pages: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "llama3.1", cfg.Model.Name)
	assert.Equal(t, "http://localhost:11434/v1", cfg.Model.BaseURL)
	assert.Equal(t, "duckduckgo", cfg.Search.Provider)
	assert.Equal(t, 3, cfg.Research.MaxToolRounds)
	assert.True(t, cfg.Research.FetchPages)
	// Untouched keys keep their defaults.
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("COMPANYSCOUT_MODEL_NAME", "gpt-4o-mini")
	t.Setenv("COMPANYSCOUT_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.Model.Name)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestAPIKeysComeFromEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("TAVILY_API_KEY", "tvly-test")

	assert.Equal(t, "sk-test", ModelAPIKey())
	assert.Equal(t, "tvly-test", TavilyAPIKey())
}
