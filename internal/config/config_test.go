package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, "data/lifewheel.db", cfg.Database.Path)
	require.Equal(t, "data/audit.db", cfg.Database.AuditPath)
	require.Equal(t, 1440, cfg.Auth.TokenExpiryMin)
	require.Equal(t, "anthropic", cfg.Coach.Provider)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
addr = ":9090"

[database]
path = "/var/lib/lifewheel/app.db"

[auth]
jwt_secret = "file-secret"
token_expiry_min = 60

[coach]
provider = "openai"
model = "gpt-4o-mini"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Server.Addr)
	require.Equal(t, "/var/lib/lifewheel/app.db", cfg.Database.Path)
	require.Equal(t, "file-secret", cfg.Auth.JWTSecret)
	require.Equal(t, 60, cfg.Auth.TokenExpiryMin)
	require.Equal(t, "openai", cfg.Coach.Provider)
	// Unset file sections keep their defaults.
	require.Equal(t, "data/metrics.db", cfg.Database.MetricsPath)
	require.Equal(t, 1024, cfg.Coach.MaxTokens)
}

func TestMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Server.Addr)
}

func TestMalformedFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\naddr = :"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[coach]
anthropic_api_key = "from-file"
`), 0o644))

	t.Setenv("ANTHROPIC_API_KEY", "from-env")
	t.Setenv("OPENAI_API_KEY", "openai-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.Coach.AnthropicAPIKey)
	require.Equal(t, "openai-env", cfg.Coach.OpenAIAPIKey)
}
