package llm

import "fmt"

// NewClient creates a provider client from configuration.
func NewClient(cfg Config) (Client, error) {
	switch cfg.Provider {
	case "anthropic", "claude":
		return newAnthropicClient(cfg)
	case "openai":
		return newOpenAIClient(cfg)
	case "perplexity":
		return newPerplexityClient(cfg)
	case "ollama":
		return newOllamaClient(cfg)
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}
