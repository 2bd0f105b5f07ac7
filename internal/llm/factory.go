package llm

import (
	"fmt"
	"time"
)

// ProviderConfig holds provider selection and credentials for the factory.
type ProviderConfig struct {
	Provider   string // anthropic or openai
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// NewTextGenerator creates the appropriate TextGenerator for the configured
// provider. It returns (nil, nil) when no API key is configured: callers
// treat a nil generator as the enrichment-unavailable state rather than an
// initialization failure, since the engine still produces local analysis.
func NewTextGenerator(cfg ProviderConfig) (TextGenerator, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}

	switch cfg.Provider {
	case "anthropic", "":
		return NewAnthropicClient(AnthropicConfig{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
		}), nil
	case "openai":
		return NewOpenAIClient(OpenAIConfig{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", cfg.Provider)
	}
}
