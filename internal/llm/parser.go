package llm

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/parabrain/para-flow/internal/model"
)

// cleanMarkdownWrapper strips ```json fences some models wrap around their
// JSON answers.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// parseSuggestion extracts a Suggestion from a provider's raw text answer.
// Providers pad answers with prose, so parsing scans for the outermost JSON
// object rather than requiring a clean document.
func parseSuggestion(content string) (Suggestion, error) {
	content = cleanMarkdownWrapper(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return Suggestion{}, fmt.Errorf("no JSON object in response: %q", truncate(content, 120))
	}

	var raw struct {
		Category   string  `json:"category"`
		Reasoning  string  `json:"reasoning"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return Suggestion{}, fmt.Errorf("failed to parse response JSON: %w", err)
	}

	if raw.Category == "" {
		return Suggestion{}, fmt.Errorf("response JSON missing category")
	}

	// Some models answer on a 0-1 scale regardless of instructions.
	confidence := raw.Confidence
	if confidence <= 1.0 {
		confidence *= 100
	}
	confidence = math.Max(0, math.Min(confidence, 100))

	return Suggestion{
		Category:   model.CategoryName(strings.TrimSpace(raw.Category)),
		Confidence: int(math.Round(confidence)),
		Reasoning:  raw.Reasoning,
	}, nil
}

// parseTagSuggestion extracts a TagSuggestion from a provider's raw text
// answer, with the same tolerance for prose padding as parseSuggestion.
func parseTagSuggestion(content string) (TagSuggestion, error) {
	content = cleanMarkdownWrapper(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return TagSuggestion{}, fmt.Errorf("no JSON object in response: %q", truncate(content, 120))
	}

	var raw struct {
		SemanticGroups map[string][]string `json:"semantic_groups"`
		SmartTags      []string            `json:"smart_tags"`
		RelatedTopics  []string            `json:"related_topics"`
		Confidence     float64             `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return TagSuggestion{}, fmt.Errorf("failed to parse response JSON: %w", err)
	}

	if len(raw.SmartTags) == 0 {
		return TagSuggestion{}, fmt.Errorf("response JSON missing smart_tags")
	}

	confidence := raw.Confidence
	if confidence <= 1.0 {
		confidence *= 100
	}
	confidence = math.Max(0, math.Min(confidence, 100))

	return TagSuggestion{
		SmartTags:      raw.SmartTags,
		SemanticGroups: raw.SemanticGroups,
		RelatedTopics:  raw.RelatedTopics,
		Confidence:     int(math.Round(confidence)),
	}, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
