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

const defaultOllamaURL = "http://localhost:11434/api/generate"

// ollamaClient implements the Client interface against a local Ollama
// instance. No API key; generation is slower, so the default timeout is
// more generous than the hosted providers'.
type ollamaClient struct {
	httpClient  *http.Client
	model       string
	baseURL     string
	temperature float64
}

// newOllamaClient creates a new Ollama client.
func newOllamaClient(cfg Config) (Client, error) {
	model := cfg.Model
	if model == "" {
		model = "llama3.1"
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	return &ollamaClient{
		model:       model,
		baseURL:     baseURL,
		temperature: temperature,
		httpClient:  &http.Client{Timeout: timeout},
	}, nil
}

func (c *ollamaClient) Provider() string { return "ollama" }

// ClassifyContent sends a classification request to Ollama.
func (c *ollamaClient) ClassifyContent(ctx context.Context, prompt string) (Suggestion, error) {
	text, err := c.complete(ctx, systemPrompt, prompt)
	if err != nil {
		return Suggestion{}, err
	}
	return parseSuggestion(text)
}

// SuggestTags sends a smart-tagging request to Ollama.
func (c *ollamaClient) SuggestTags(ctx context.Context, prompt string) (TagSuggestion, error) {
	text, err := c.complete(ctx, taggingSystemPrompt, prompt)
	if err != nil {
		return TagSuggestion{}, err
	}
	return parseTagSuggestion(text)
}

// complete sends one prompt and returns the model's raw text answer. Ollama
// has no system role on this endpoint, so the system prompt is prepended.
func (c *ollamaClient) complete(ctx context.Context, system, prompt string) (string, error) {
	requestBody := map[string]any{
		"model":  c.model,
		"prompt": system + "\n\n" + prompt,
		"stream": false,
		"format": "json",
		"options": map[string]any{
			"temperature": c.temperature,
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
		return "", fmt.Errorf("ollama API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if response.Response == "" {
		return "", fmt.Errorf("empty response from ollama")
	}

	return response.Response, nil
}
