package classify

import (
	"fmt"
	"math"
	"time"

	"github.com/parabrain/para-flow/internal/model"
	"github.com/parabrain/para-flow/internal/taxonomy"
)

// contextBaseScore is the per-category starting score before multipliers.
const contextBaseScore = 50.0

// historyWindow is how many recent entries of the caller-supplied history
// feed the frequency boost.
const historyWindow = 10

// ContextClassifier guesses from temporal buckets and recent history rather
// than from the input text itself.
type ContextClassifier struct {
	clock Clock
}

// NewContextClassifier creates a context classifier on the given clock.
func NewContextClassifier(clock Clock) *ContextClassifier {
	return &ContextClassifier{clock: clock}
}

// Classify returns the context classifier's single best guess. history is
// the caller's recent category list, most-recent-last.
func (c *ContextClassifier) Classify(history []model.CategoryName) model.Guess {
	now := c.clock.Now()
	counts := recentCounts(history)

	best := model.Guess{Category: taxonomy.All()[0].Name, Source: model.SourceContext}
	bestScore := -1.0

	for _, cat := range taxonomy.All() {
		score := contextBaseScore * timeMultiplier(cat.Name, now) * (1 + 0.1*float64(counts[cat.Name]))
		if score > bestScore {
			bestScore = score
			best.Category = cat.Name
			best.Confidence = int(math.Min(math.Round(score), 100))
			best.Evidence = fmt.Sprintf("time bucket %s, %d recent occurrences", bucketName(now), counts[cat.Name])
		}
	}

	return best
}

// timeMultiplier boosts work categories during business-hours weekdays and
// personal categories on evenings and weekends.
func timeMultiplier(name model.CategoryName, now time.Time) float64 {
	hour := now.Hour()
	weekday := now.Weekday()
	isWeekend := weekday == time.Saturday || weekday == time.Sunday
	isBusinessHours := !isWeekend && hour >= 9 && hour < 18
	isEvening := hour >= 18 || hour < 7

	switch name {
	case model.CategoryWorkCore:
		if isBusinessHours {
			return 1.2
		}
	case model.CategoryWorkSupport:
		if isBusinessHours {
			return 1.1
		}
	case model.CategoryPersonalLife:
		if isWeekend || isEvening {
			return 1.2
		}
	case model.CategoryPersonalGrowth:
		if isWeekend || isEvening {
			return 1.1
		}
	}
	return 1.0
}

// recentCounts tallies category occurrences in the last historyWindow entries.
func recentCounts(history []model.CategoryName) map[model.CategoryName]int {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	counts := make(map[model.CategoryName]int, len(history))
	for _, name := range history {
		counts[name]++
	}
	return counts
}

func bucketName(now time.Time) string {
	weekday := now.Weekday()
	if weekday == time.Saturday || weekday == time.Sunday {
		return "weekend"
	}
	if hour := now.Hour(); hour >= 9 && hour < 18 {
		return "business-hours"
	}
	return "off-hours"
}
