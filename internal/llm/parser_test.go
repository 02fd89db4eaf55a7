package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parabrain/para-flow/internal/model"
)

func TestParseSuggestion(t *testing.T) {
	tests := []struct {
		name           string
		content        string
		wantCategory   model.CategoryName
		wantConfidence int
		wantErr        bool
	}{
		{
			name:           "clean JSON",
			content:        `{"category": "learning-tech", "confidence": 85, "reasoning": "technical content"}`,
			wantCategory:   model.CategoryLearningTech,
			wantConfidence: 85,
		},
		{
			name:           "markdown fenced JSON",
			content:        "```json\n{\"category\": \"work-core\", \"confidence\": 90, \"reasoning\": \"project work\"}\n```",
			wantCategory:   model.CategoryWorkCore,
			wantConfidence: 90,
		},
		{
			name:           "prose around the JSON object",
			content:        "Here is my answer:\n{\"category\": \"archive-done\", \"confidence\": 75, \"reasoning\": \"finished\"}\nLet me know if you need more.",
			wantCategory:   model.CategoryArchiveDone,
			wantConfidence: 75,
		},
		{
			name:           "zero-to-one confidence scale normalized",
			content:        `{"category": "personal-life", "confidence": 0.8, "reasoning": "weekend plans"}`,
			wantCategory:   model.CategoryPersonalLife,
			wantConfidence: 80,
		},
		{
			name:           "confidence clamped to 100",
			content:        `{"category": "work-support", "confidence": 250, "reasoning": ""}`,
			wantCategory:   model.CategoryWorkSupport,
			wantConfidence: 100,
		},
		{
			name:           "category whitespace trimmed",
			content:        `{"category": " learning-tech ", "confidence": 70, "reasoning": ""}`,
			wantCategory:   model.CategoryLearningTech,
			wantConfidence: 70,
		},
		{
			name:    "no JSON at all",
			content: "I cannot classify this content.",
			wantErr: true,
		},
		{
			name:    "missing category",
			content: `{"confidence": 80, "reasoning": "no idea"}`,
			wantErr: true,
		},
		{
			name:    "malformed JSON",
			content: `{"category": "work-core", "confidence": }`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSuggestion(tt.content)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantConfidence, got.Confidence)
		})
	}
}

func TestCleanMarkdownWrapper(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanMarkdownWrapper("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanMarkdownWrapper("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanMarkdownWrapper(`{"a":1}`))
}

func TestBuildClassificationPrompt(t *testing.T) {
	prompt := BuildClassificationPrompt("React 19의 새로운 기능")

	assert.Contains(t, prompt, "React 19의 새로운 기능")
	// Every taxonomy category must be enumerated so the model cannot invent one.
	assert.Contains(t, prompt, "work-core")
	assert.Contains(t, prompt, "work-support")
	assert.Contains(t, prompt, "personal-growth")
	assert.Contains(t, prompt, "personal-life")
	assert.Contains(t, prompt, "learning-tech")
	assert.Contains(t, prompt, "archive-done")
	assert.Contains(t, prompt, "confidence")
}
