// Package llm provides external-model classification clients for the
// ai-assist route: Anthropic, OpenAI, Perplexity, and a local Ollama
// instance, behind a primary/fallback chain with caching, rate limiting,
// and retries.
package llm
