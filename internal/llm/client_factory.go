package llm

import (
	"context"
	"fmt"
	"time"

	"alterego/internal/config"
)

// ProviderConfig holds the resolved settings for one endpoint.
type ProviderConfig struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// ProviderConfigFrom resolves an endpoint section of the YAML config.
func ProviderConfigFrom(c config.LLMConfig) ProviderConfig {
	return ProviderConfig{
		Provider: c.Provider,
		APIKey:   c.APIKey,
		Model:    c.Model,
		BaseURL:  c.BaseURL,
		Timeout:  c.GetTimeout(),
	}
}

// NewClient creates a provider client from a provider config.
func NewClient(ctx context.Context, cfg ProviderConfig) (Client, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		return NewOpenAIClientWithConfig(OpenAIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}), nil

	case config.ProviderGemini:
		return NewGeminiClient(ctx, GeminiConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})

	default:
		return nil, fmt.Errorf("%w: %q (valid: %v)", ErrUnknownProvider, cfg.Provider, config.ValidProviders)
	}
}

// NewTracedClient creates a provider client wrapped in a TracingClient
// labelled with the endpoint's role (responder, evaluator).
func NewTracedClient(ctx context.Context, role string, cfg ProviderConfig) (Client, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", role, err)
	}
	return NewTracingClient(client, role, cfg.Provider), nil
}
