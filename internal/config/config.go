package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Coach    CoachConfig    `toml:"coach"`
	Instance InstanceConfig `toml:"instance"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type DatabaseConfig struct {
	Path        string `toml:"path"`
	MetricsPath string `toml:"metrics_path"`
	AuditPath   string `toml:"audit_path"`
}

type AuthConfig struct {
	JWTSecret      string `toml:"jwt_secret"`
	TokenExpiryMin int    `toml:"token_expiry_min"`
}

// CoachConfig selects the LLM provider behind the coaching endpoints.
// API keys can also come from the environment (ANTHROPIC_API_KEY,
// OPENAI_API_KEY), which takes precedence over the file.
type CoachConfig struct {
	Provider        string `toml:"provider"`
	Model           string `toml:"model"`
	AnthropicAPIKey string `toml:"anthropic_api_key"`
	OpenAIAPIKey    string `toml:"openai_api_key"`
	MaxTokens       int    `toml:"max_tokens"`
}

type InstanceConfig struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Database: DatabaseConfig{
			Path:        "data/lifewheel.db",
			MetricsPath: "data/metrics.db",
			AuditPath:   "data/audit.db",
		},
		Auth: AuthConfig{
			JWTSecret:      "change-me-in-production",
			TokenExpiryMin: 1440, // 24h
		},
		Coach: CoachConfig{
			Provider:  "anthropic",
			MaxTokens: 1024,
		},
		Instance: InstanceConfig{
			ID:   "local",
			Name: "lifewheel-local",
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err == nil {
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		}
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		cfg.Coach.AnthropicAPIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.Coach.OpenAIAPIKey = key
	}
	return cfg, nil
}
