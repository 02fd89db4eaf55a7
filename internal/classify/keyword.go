package classify

import (
	"fmt"
	"math"
	"strings"

	"github.com/parabrain/para-flow/internal/model"
	"github.com/parabrain/para-flow/internal/taxonomy"
	"github.com/parabrain/para-flow/internal/weights"
)

// KeywordClassifier scores categories by case-insensitive substring
// occurrence counts, scaled by the learned per-category weight.
type KeywordClassifier struct {
	weights weights.Store
}

// NewKeywordClassifier creates a keyword classifier reading the given
// weight store on every call.
func NewKeywordClassifier(store weights.Store) *KeywordClassifier {
	return &KeywordClassifier{weights: store}
}

// Classify returns the keyword classifier's single best guess. Ties are
// broken by taxonomy enumeration order: the first category with the top
// score wins, so results are reproducible.
func (c *KeywordClassifier) Classify(input string) model.Guess {
	lower := strings.ToLower(input)

	best := model.Guess{Category: taxonomy.All()[0].Name, Source: model.SourceKeywords}
	bestScore := -1.0

	for _, cat := range taxonomy.All() {
		matches := 0
		for _, keyword := range cat.Keywords {
			matches += strings.Count(lower, strings.ToLower(keyword))
		}

		score := float64(matches) * c.weights.Get(cat.Name)
		if score > bestScore {
			bestScore = score
			best.Category = cat.Name
			best.Confidence = int(math.Min(math.Round(score*10), 100))
			best.Evidence = fmt.Sprintf("%d keyword hits (weight %.2f)", matches, c.weights.Get(cat.Name))
		}
	}

	return best
}
