// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/parabrain/para-flow/internal/classify"
	"github.com/parabrain/para-flow/internal/llm"
	"github.com/parabrain/para-flow/internal/model"
	"github.com/parabrain/para-flow/internal/taxonomy"
)

// LoadClassifyConfig builds the classification configuration from Viper,
// falling back to the package defaults for anything unset.
func LoadClassifyConfig() classify.Config {
	cfg := classify.DefaultConfig()

	if v := viper.GetInt("classify.min_input_length"); v > 0 {
		cfg.MinInputLength = v
	}
	if v := viper.GetInt("classify.max_input_length"); v > 0 {
		cfg.MaxInputLength = v
	}
	if v := viper.GetInt("classify.confidence_threshold"); v > 0 {
		cfg.ConfidenceThreshold = v
	}
	if v := viper.GetString("classify.fallback_category"); v != "" {
		cfg.FallbackCategory = model.CategoryName(v)
	}

	return cfg
}

// LoadBasePaths returns per-platform base paths for folder resolution,
// merging config file values over the taxonomy defaults.
func LoadBasePaths() map[model.Platform]string {
	bases := taxonomy.DefaultBasePaths()

	if v := viper.GetString("paths.obsidian"); v != "" {
		bases[model.PlatformObsidian] = ExpandPath(v)
	}
	if v := viper.GetString("paths.notion"); v != "" {
		bases[model.PlatformNotion] = v
	}
	if v := viper.GetString("paths.local_pc"); v != "" {
		bases[model.PlatformLocalPC] = ExpandPath(v)
	}

	return bases
}

// DatabasePath returns the SQLite path from config, defaulting under the
// user's home directory.
func DatabasePath() string {
	if v := viper.GetString("database.path"); v != "" {
		return ExpandPath(v)
	}
	return ExpandPath("~/.local/share/para/para.db")
}

// LoadChainConfig loads the external model chain configuration. It follows
// this precedence:
// 1. Viper configuration (from config file or PARA_ env vars)
// 2. Direct environment variables (ANTHROPIC_API_KEY etc.)
// 3. Default values
func LoadChainConfig() llm.ChainConfig {
	primary := loadProviderConfig("llm.primary", "anthropic")

	chain := llm.ChainConfig{
		Primary:    primary,
		CacheTTL:   viper.GetDuration("llm.cache_ttl"),
		RateLimit:  viper.GetInt("llm.rate_limit"),
		MaxRetries: viper.GetInt("llm.max_retries"),
		RetryDelay: viper.GetDuration("llm.retry_delay"),
	}

	if viper.IsSet("llm.fallback.provider") {
		fallback := loadProviderConfig("llm.fallback", "perplexity")
		chain.Fallback = &fallback
	}

	return chain
}

func loadProviderConfig(prefix, defaultProvider string) llm.Config {
	cfg := llm.Config{
		Provider:    viper.GetString(prefix + ".provider"),
		APIKey:      viper.GetString(prefix + ".api_key"),
		Model:       viper.GetString(prefix + ".model"),
		BaseURL:     viper.GetString(prefix + ".base_url"),
		Temperature: viper.GetFloat64(prefix + ".temperature"),
		MaxTokens:   viper.GetInt(prefix + ".max_tokens"),
	}

	if v := viper.GetDuration(prefix + ".timeout"); v > 0 {
		cfg.Timeout = v
	} else {
		cfg.Timeout = 30 * time.Second
	}

	if cfg.Provider == "" {
		cfg.Provider = defaultProvider
	}

	if cfg.APIKey == "" {
		cfg.APIKey = apiKeyFromEnv(cfg.Provider)
	}

	return cfg
}

func apiKeyFromEnv(provider string) string {
	switch provider {
	case "anthropic", "claude":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "perplexity":
		return os.Getenv("PERPLEXITY_API_KEY")
	default:
		return ""
	}
}
