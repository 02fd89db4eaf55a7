package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parabrain/para-flow/internal/model"
)

func TestSuggestionCache_SetGet(t *testing.T) {
	cache := newSuggestionCache(time.Minute)
	defer cache.close()

	suggestion := Suggestion{Category: model.CategoryLearningTech, Confidence: 85, Reasoning: "tech"}
	cache.set("key-1", suggestion, "anthropic")

	got, provider, ok := cache.get("key-1")
	require.True(t, ok)
	assert.Equal(t, suggestion, got)
	assert.Equal(t, "anthropic", provider)
}

func TestSuggestionCache_Miss(t *testing.T) {
	cache := newSuggestionCache(time.Minute)
	defer cache.close()

	_, _, ok := cache.get("nothing")
	assert.False(t, ok)
}

func TestSuggestionCache_Expiry(t *testing.T) {
	cache := newSuggestionCache(10 * time.Millisecond)
	defer cache.close()

	cache.set("key-1", Suggestion{Category: model.CategoryWorkCore}, "openai")

	time.Sleep(30 * time.Millisecond)

	_, _, ok := cache.get("key-1")
	assert.False(t, ok)
}

func TestSuggestionCache_CloseIdempotent(t *testing.T) {
	cache := newSuggestionCache(time.Minute)
	cache.close()
	cache.close()
}
