package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/parabrain/para-flow/internal/common"
	"github.com/parabrain/para-flow/internal/model"
	"github.com/parabrain/para-flow/internal/service"
	"github.com/parabrain/para-flow/internal/taxonomy"
)

// Classifier chains a primary provider and an optional fallback provider
// behind a shared cache and rate limiter. It implements
// service.ContentClassifier for the ai-assist route.
type Classifier struct {
	primary  Client
	fallback Client
	cache    *suggestionCache
	limiter  *rateLimiter
	store    service.Storage
	retry    common.RetryOptions
}

// NewClassifier builds the provider chain from configuration. store may be
// nil; provider status updates are then skipped.
func NewClassifier(cfg ChainConfig, store service.Storage) (*Classifier, error) {
	primary, err := NewClient(cfg.Primary)
	if err != nil {
		return nil, fmt.Errorf("failed to create primary client: %w", err)
	}

	var fallback Client
	if cfg.Fallback != nil {
		fallback, err = NewClient(*cfg.Fallback)
		if err != nil {
			return nil, fmt.Errorf("failed to create fallback client: %w", err)
		}
	}

	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}
	rateLimit := cfg.RateLimit
	if rateLimit == 0 {
		rateLimit = 30
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}
	retryDelay := cfg.RetryDelay
	if retryDelay == 0 {
		retryDelay = time.Second
	}

	return &Classifier{
		primary:  primary,
		fallback: fallback,
		cache:    newSuggestionCache(cacheTTL),
		limiter:  newRateLimiter(rateLimit),
		store:    store,
		retry: common.RetryOptions{
			MaxAttempts:  maxRetries,
			InitialDelay: retryDelay,
		},
	}, nil
}

// ClassifyContent asks the provider chain to classify input. A non-empty
// provider pins the request to that provider, skipping the fallback chain.
// Answers naming a category outside the taxonomy are rejected so the caller
// can fall back to the heuristic path.
func (c *Classifier) ClassifyContent(ctx context.Context, input, provider string) (model.CategoryName, int, string, error) {
	// Pinned answers are cached separately: a chain answer may come from a
	// different provider than the pinned one.
	key := common.ContentHash(provider + "\x00" + input)

	if suggestion, answeredBy, ok := c.cache.get(key); ok {
		slog.Debug("Suggestion cache hit", "provider", answeredBy)
		return suggestion.Category, suggestion.Confidence, suggestion.Reasoning, nil
	}

	if err := c.limiter.wait(ctx); err != nil {
		return "", 0, "", err
	}

	prompt := BuildClassificationPrompt(input)

	suggestion, answeredBy, err := c.classifyWithChain(ctx, prompt, provider)
	if err != nil {
		return "", 0, "", err
	}

	if !taxonomy.Contains(suggestion.Category) {
		return "", 0, "", &common.TaxonomyError{Name: string(suggestion.Category)}
	}

	c.cache.set(key, suggestion, answeredBy)
	return suggestion.Category, suggestion.Confidence, suggestion.Reasoning, nil
}

// clientFor resolves an explicitly requested provider to a configured client.
func (c *Classifier) clientFor(provider string) (Client, error) {
	if c.primary.Provider() == provider {
		return c.primary, nil
	}
	if c.fallback != nil && c.fallback.Provider() == provider {
		return c.fallback, nil
	}
	return nil, fmt.Errorf("provider %q is not configured", provider)
}

// classifyWithChain tries the primary provider with retries, then the
// fallback provider. A pinned provider is tried alone: the caller asked for
// that provider, not a substitute.
func (c *Classifier) classifyWithChain(ctx context.Context, prompt, provider string) (Suggestion, string, error) {
	if provider != "" {
		client, err := c.clientFor(provider)
		if err != nil {
			return Suggestion{}, "", err
		}

		suggestion, err := c.classifyWith(ctx, client, prompt)
		if err != nil {
			return Suggestion{}, "", fmt.Errorf("provider %s failed: %w", client.Provider(), err)
		}
		return suggestion, client.Provider(), nil
	}

	suggestion, err := c.classifyWith(ctx, c.primary, prompt)
	if err == nil {
		return suggestion, c.primary.Provider(), nil
	}

	slog.Warn("Primary provider failed",
		"provider", c.primary.Provider(),
		"error", err)

	if c.fallback == nil {
		return Suggestion{}, "", fmt.Errorf("provider %s failed: %w", c.primary.Provider(), err)
	}

	suggestion, fbErr := c.classifyWith(ctx, c.fallback, prompt)
	if fbErr != nil {
		return Suggestion{}, "", fmt.Errorf("all providers failed: primary %s: %v; fallback %s: %w",
			c.primary.Provider(), err, c.fallback.Provider(), fbErr)
	}

	return suggestion, c.fallback.Provider(), nil
}

// SuggestTags asks the provider chain for smart tags. When every provider
// fails, it degrades to plain keyword extraction rather than erroring; only
// rate limiting surfaces as an error.
func (c *Classifier) SuggestTags(ctx context.Context, input string, category model.CategoryName) (TagSuggestion, string, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return TagSuggestion{}, "", err
	}

	prompt := BuildTaggingPrompt(input, category)

	tags, err := c.tagsWith(ctx, c.primary, prompt)
	if err == nil {
		return tags, c.primary.Provider(), nil
	}

	slog.Warn("Primary provider tagging failed",
		"provider", c.primary.Provider(),
		"error", err)

	if c.fallback != nil {
		tags, fbErr := c.tagsWith(ctx, c.fallback, prompt)
		if fbErr == nil {
			return tags, c.fallback.Provider(), nil
		}
		slog.Warn("Fallback provider tagging failed",
			"provider", c.fallback.Provider(),
			"error", fbErr)
	}

	return FallbackTags(input), "fallback", nil
}

func (c *Classifier) tagsWith(ctx context.Context, client Client, prompt string) (TagSuggestion, error) {
	var tags TagSuggestion
	start := time.Now()

	err := common.WithRetry(ctx, func() error {
		var callErr error
		tags, callErr = client.SuggestTags(ctx, prompt)
		return callErr
	}, c.retry)

	c.updateStatus(client.Provider(), err == nil, time.Since(start))
	return tags, err
}

func (c *Classifier) classifyWith(ctx context.Context, client Client, prompt string) (Suggestion, error) {
	var suggestion Suggestion
	start := time.Now()

	err := common.WithRetry(ctx, func() error {
		var callErr error
		suggestion, callErr = client.ClassifyContent(ctx, prompt)
		return callErr
	}, c.retry)

	c.updateStatus(client.Provider(), err == nil, time.Since(start))
	return suggestion, err
}

// updateStatus records provider health best-effort; failures only log.
func (c *Classifier) updateStatus(provider string, healthy bool, latency time.Duration) {
	if c.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := c.store.UpdateProviderStatus(ctx, provider, healthy, latency.Milliseconds()); err != nil {
		slog.Warn("Failed to update provider status",
			"provider", provider,
			"error", err)
	}
}

// Close releases the cache and rate limiter background goroutines.
func (c *Classifier) Close() error {
	c.cache.close()
	c.limiter.close()
	return nil
}
