package llm

import "strings"

// tagStopwords are tokens too generic to be useful tags. English function
// words plus the common Korean particles and connectives that survive
// whitespace tokenization.
var tagStopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "is": {}, "are": {}, "was": {}, "this": {},
	"that": {}, "it": {}, "as": {}, "from": {},
	"그리고": {}, "또는": {}, "하지만": {}, "그래서": {}, "이것": {},
	"저것": {}, "그것": {}, "및": {}, "등": {}, "수": {}, "것": {},
}

const (
	maxFallbackTags       = 5
	fallbackTagGroup      = 3
	fallbackTagConfidence = 40
)

// FallbackTags extracts tags directly from the content when no provider is
// reachable: whitespace tokens, stopwords and short words dropped, first
// occurrences kept in order.
func FallbackTags(input string) TagSuggestion {
	seen := make(map[string]struct{})
	var tags []string

	for _, word := range strings.Fields(strings.ToLower(input)) {
		word = strings.Trim(word, ".,!?:;\"'()[]{}<>")
		// Byte length, so two-character Korean words qualify while short
		// English function words do not.
		if len(word) <= 3 {
			continue
		}
		if _, stop := tagStopwords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}

		seen[word] = struct{}{}
		tags = append(tags, word)
		if len(tags) == maxFallbackTags {
			break
		}
	}

	grouped := tags
	if len(grouped) > fallbackTagGroup {
		grouped = grouped[:fallbackTagGroup]
	}

	return TagSuggestion{
		SmartTags:      tags,
		SemanticGroups: map[string][]string{"general": grouped},
		Confidence:     fallbackTagConfidence,
	}
}
