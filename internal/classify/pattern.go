package classify

import (
	"fmt"

	"github.com/parabrain/para-flow/internal/model"
	"github.com/parabrain/para-flow/internal/taxonomy"
)

// patternMatchScore is the score contributed by each regex match.
// Unlike keyword scoring this is not adjusted by learned weights; see
// WeightAwarePatterns below.
const patternMatchScore = 15

// WeightAwarePatterns is the extension point for making pattern scoring
// respect learned weights the way keyword scoring does. Corrections
// currently influence keywords only.
const WeightAwarePatterns = false

// PatternClassifier scores categories by regex match counts against the
// raw input. Patterns are precompiled in the taxonomy table.
type PatternClassifier struct{}

// NewPatternClassifier creates a pattern classifier.
func NewPatternClassifier() *PatternClassifier {
	return &PatternClassifier{}
}

// Classify returns the pattern classifier's single best guess, with the
// same first-in-enumeration tie break as the keyword classifier.
func (c *PatternClassifier) Classify(input string) model.Guess {
	best := model.Guess{Category: taxonomy.All()[0].Name, Source: model.SourcePatterns}
	bestScore := -1

	for _, cat := range taxonomy.All() {
		matches := 0
		for _, re := range cat.Patterns {
			matches += len(re.FindAllStringIndex(input, -1))
		}

		score := matches * patternMatchScore
		if score > bestScore {
			bestScore = score
			best.Category = cat.Name
			best.Confidence = score
			if best.Confidence > 100 {
				best.Confidence = 100
			}
			best.Evidence = fmt.Sprintf("%d pattern matches", matches)
		}
	}

	return best
}
