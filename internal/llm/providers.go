package llm

import "github.com/hazyhaar/lifewheel/internal/config"

// NewFromConfig creates a multi-provider LLM client from the coach config.
// Only providers with configured API keys are activated; the configured
// provider is tried first and the rest serve as fallback.
func NewFromConfig(cfg config.CoachConfig) *Client {
	var providers []Provider

	if cfg.AnthropicAPIKey != "" {
		providers = append(providers, NewAnthropicProvider(cfg.AnthropicAPIKey))
	}

	if cfg.OpenAIAPIKey != "" {
		providers = append(providers, NewOpenAIProvider(OpenAIConfig{
			Name:         "openai",
			BaseURL:      "https://api.openai.com/v1",
			APIKey:       cfg.OpenAIAPIKey,
			Models:       []string{"gpt-4o", "gpt-4o-mini"},
			DefaultModel: "gpt-4o-mini",
		}))
	}

	c := New(providers)
	if cfg.Provider != "" {
		c.Prefer(cfg.Provider)
	}
	return c
}
