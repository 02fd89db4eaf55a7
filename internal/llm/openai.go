package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultOpenAIURL = "https://api.openai.com/v1/chat/completions"

// openaiClient implements the Client interface for OpenAI-compatible chat
// completion APIs. Perplexity reuses it with a different base URL and model.
type openaiClient struct {
	httpClient  *http.Client
	provider    string
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
}

// newOpenAIClient creates a new OpenAI API client.
func newOpenAIClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIURL
	}

	return newChatCompletionClient("openai", cfg, model, baseURL), nil
}

// newPerplexityClient creates a Perplexity client over the OpenAI-compatible
// chat completions endpoint.
func newPerplexityClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("perplexity API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "llama-3.1-sonar-small-128k-online"
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.perplexity.ai/chat/completions"
	}

	return newChatCompletionClient("perplexity", cfg, model, baseURL), nil
}

func newChatCompletionClient(provider string, cfg Config, model, baseURL string) *openaiClient {
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &openaiClient{
		provider:    provider,
		apiKey:      cfg.APIKey,
		model:       model,
		baseURL:     baseURL,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *openaiClient) Provider() string { return c.provider }

// ClassifyContent sends a classification request to the chat completions API.
func (c *openaiClient) ClassifyContent(ctx context.Context, prompt string) (Suggestion, error) {
	text, err := c.complete(ctx, systemPrompt, prompt)
	if err != nil {
		return Suggestion{}, err
	}
	return parseSuggestion(text)
}

// SuggestTags sends a smart-tagging request to the chat completions API.
func (c *openaiClient) SuggestTags(ctx context.Context, prompt string) (TagSuggestion, error) {
	text, err := c.complete(ctx, taggingSystemPrompt, prompt)
	if err != nil {
		return TagSuggestion{}, err
	}
	return parseTagSuggestion(text)
}

// complete sends one prompt and returns the model's raw text answer.
func (c *openaiClient) complete(ctx context.Context, system, prompt string) (string, error) {
	requestBody := map[string]any{
		"model":       c.model,
		"max_tokens":  c.maxTokens,
		"temperature": c.temperature,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": prompt},
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s API error (status %d): %s", c.provider, resp.StatusCode, string(body))
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return response.Choices[0].Message.Content, nil
}
