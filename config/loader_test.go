package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 8, cfg.Orchestrator.MaxRounds)
	assert.Equal(t, 30, cfg.Orchestrator.HistoryWindow)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  http_port: 9000
agent_runtime:
  base_url: https://runtime.example.com
  agents:
    external:
      agent_id: AG-EXT
      alias_id: AL-EXT
orchestrator:
  max_rounds: 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.HTTPPort)
	assert.Equal(t, "https://runtime.example.com", cfg.AgentRuntime.BaseURL)
	assert.Equal(t, "AG-EXT", cfg.AgentRuntime.Agents.External.AgentID)
	assert.Equal(t, 4, cfg.Orchestrator.MaxRounds)
	// 未覆盖的字段保持默认值
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("LECTURE_ORCHESTRATOR_MAX_ROUNDS", "2")
	t.Setenv("LECTURE_AGENT_RUNTIME_AGENTS_WITH_KB_AGENT_ID", "AG-KB")
	t.Setenv("LECTURE_REDIS_DEFAULT_TTL", "90s")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Orchestrator.MaxRounds)
	assert.Equal(t, "AG-KB", cfg.AgentRuntime.Agents.WithKnowledgeBase.AgentID)
	assert.Equal(t, 90*time.Second, cfg.Redis.DefaultTTL)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Orchestrator.MaxRounds = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Database.Driver = "oracle"
	assert.Error(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, User: "u", Password: "p", Name: "lecture", SSLMode: "disable"}
	assert.Contains(t, d.DSN(), "host=db")

	d = DatabaseConfig{Driver: "sqlite", Name: "file::memory:?cache=shared"}
	assert.Equal(t, "file::memory:?cache=shared", d.DSN())
}
