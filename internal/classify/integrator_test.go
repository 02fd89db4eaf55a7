package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parabrain/para-flow/internal/model"
)

func TestIntegrate_SupportingSourcesOnly(t *testing.T) {
	// Context disagrees; its weight must not dilute the winner's average.
	guesses := []model.Guess{
		{Category: model.CategoryLearningTech, Source: model.SourceKeywords, Confidence: 50},
		{Category: model.CategoryLearningTech, Source: model.SourcePatterns, Confidence: 100},
		{Category: model.CategoryWorkCore, Source: model.SourceContext, Confidence: 60},
	}

	got := Integrate(guesses)
	assert.Equal(t, model.CategoryLearningTech, got.Category)
	// (50x0.4 + 100x0.4) / 0.8 = 75
	assert.Equal(t, 75, got.Confidence)
	assert.Equal(t, model.SourceIntegrated, got.Source)
	assert.Contains(t, got.Evidence, "keywords(50)")
	assert.Contains(t, got.Evidence, "patterns(100)")
	assert.NotContains(t, got.Evidence, "context")
}

func TestIntegrate_UnanimousGuesses(t *testing.T) {
	guesses := []model.Guess{
		{Category: model.CategoryWorkCore, Source: model.SourceKeywords, Confidence: 50},
		{Category: model.CategoryWorkCore, Source: model.SourcePatterns, Confidence: 100},
		{Category: model.CategoryWorkCore, Source: model.SourceContext, Confidence: 60},
	}

	got := Integrate(guesses)
	assert.Equal(t, model.CategoryWorkCore, got.Category)
	// 50x0.4 + 100x0.4 + 60x0.2 = 72
	assert.Equal(t, 72, got.Confidence)
}

func TestIntegrate_SingleSupporterKeepsOwnConfidence(t *testing.T) {
	guesses := []model.Guess{
		{Category: model.CategoryArchiveDone, Source: model.SourceContext, Confidence: 80},
	}

	got := Integrate(guesses)
	assert.Equal(t, model.CategoryArchiveDone, got.Category)
	assert.Equal(t, 80, got.Confidence)
}

func TestIntegrate_TieBrokenByEnumerationOrder(t *testing.T) {
	guesses := []model.Guess{
		{Category: model.CategoryPersonalLife, Source: model.SourceKeywords, Confidence: 50},
		{Category: model.CategoryWorkCore, Source: model.SourcePatterns, Confidence: 50},
	}

	got := Integrate(guesses)
	assert.Equal(t, model.CategoryWorkCore, got.Category)
	assert.Equal(t, 50, got.Confidence)
}

func TestIntegrate_UnknownSourcesIgnored(t *testing.T) {
	guesses := []model.Guess{
		{Category: model.CategoryArchiveDone, Source: model.SourceAI, Confidence: 99},
		{Category: model.CategoryWorkCore, Source: model.SourceKeywords, Confidence: 10},
	}

	got := Integrate(guesses)
	assert.Equal(t, model.CategoryWorkCore, got.Category)
	assert.Equal(t, 10, got.Confidence)
}

func TestIntegrate_Deterministic(t *testing.T) {
	guesses := []model.Guess{
		{Category: model.CategoryWorkSupport, Source: model.SourceKeywords, Confidence: 40},
		{Category: model.CategoryWorkSupport, Source: model.SourcePatterns, Confidence: 60},
		{Category: model.CategoryPersonalLife, Source: model.SourceContext, Confidence: 55},
	}

	first := Integrate(guesses)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Integrate(guesses))
	}
}
