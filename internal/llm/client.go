package llm

import (
	"context"
	"time"

	"github.com/parabrain/para-flow/internal/model"
)

// Client defines the interface for external model providers.
type Client interface {
	// ClassifyContent asks the provider to classify the prompt's content.
	ClassifyContent(ctx context.Context, prompt string) (Suggestion, error)
	// SuggestTags asks the provider for smart tags over the prompt's content.
	SuggestTags(ctx context.Context, prompt string) (TagSuggestion, error)
	// Provider returns the provider name for logging and status tracking.
	Provider() string
}

// Suggestion is a provider's classification answer, normalized to the
// taxonomy's confidence scale.
type Suggestion struct {
	Category   model.CategoryName
	Reasoning  string
	Confidence int
}

// TagSuggestion is a provider's smart-tagging answer: flat tags plus the
// semantic grouping and follow-up topics the model proposes.
type TagSuggestion struct {
	SemanticGroups map[string][]string
	SmartTags      []string
	RelatedTopics  []string
	Confidence     int
}

// Config holds connection settings for one provider client.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// ChainConfig configures the primary/fallback classification chain.
type ChainConfig struct {
	Primary    Config
	Fallback   *Config
	CacheTTL   time.Duration
	RateLimit  int
	MaxRetries int
	RetryDelay time.Duration
}
