package classify

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/parabrain/para-flow/internal/model"
	"github.com/parabrain/para-flow/internal/taxonomy"
)

// Fixed integration weights per classifier source.
var sourceWeights = map[model.ClassificationSource]float64{
	model.SourceKeywords: 0.4,
	model.SourcePatterns: 0.4,
	model.SourceContext:  0.2,
}

// Integrate combines independent classifier guesses into one decision via a
// weighted average per category. Only the guesses naming a category
// contribute to its final score. Ties break by taxonomy enumeration order.
func Integrate(guesses []model.Guess) model.Guess {
	type tally struct {
		score  float64
		weight float64
	}

	tallies := make(map[model.CategoryName]*tally)
	supporters := make(map[model.CategoryName][]string)

	for _, g := range guesses {
		w, ok := sourceWeights[g.Source]
		if !ok {
			continue
		}

		t := tallies[g.Category]
		if t == nil {
			t = &tally{}
			tallies[g.Category] = t
		}
		t.score += float64(g.Confidence) * w
		t.weight += w
		supporters[g.Category] = append(supporters[g.Category], fmt.Sprintf("%s(%d)", g.Source, g.Confidence))
	}

	best := model.Guess{Category: taxonomy.All()[0].Name, Source: model.SourceIntegrated}
	bestScore := -1.0

	for _, cat := range taxonomy.All() {
		t, ok := tallies[cat.Name]
		if !ok || t.weight == 0 {
			continue
		}

		final := t.score / t.weight
		if final > bestScore {
			bestScore = final
			best.Category = cat.Name
			best.Confidence = int(math.Min(math.Round(final), 100))
		}
	}

	contributing := supporters[best.Category]
	sort.Strings(contributing)
	best.Evidence = fmt.Sprintf("integrated from %s", strings.Join(contributing, ", "))

	return best
}
