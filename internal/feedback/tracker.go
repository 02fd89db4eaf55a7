// Package feedback records user corrections, adjusts learned weights, and
// reports system health from recent classification outcomes.
package feedback

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/parabrain/para-flow/internal/model"
	"github.com/parabrain/para-flow/internal/weights"
)

const (
	// correctionPenalty is subtracted from the weight of a category the
	// user moved content away from.
	correctionPenalty = 0.1
	// correctionBonus is added to the weight of the category the user
	// corrected to. Bonuses are uncapped.
	correctionBonus = 0.2

	// historyCap bounds the in-memory correction audit log (FIFO).
	historyCap = 1000
	// healthWindow is how many recent classifications feed health metrics.
	healthWindow = 100
	// excerptLen bounds the input excerpt stored in audit entries.
	excerptLen = 80
)

// outcome is one completed classification, tracked for health reporting.
type outcome struct {
	resultID   string
	confidence int
	corrected  bool
}

// Tracker is the correction loop. All state is guarded by one mutex since
// corrections and classifications interleave across goroutines.
type Tracker struct {
	weights     weights.Store
	clock       func() time.Time
	corrections []model.Correction
	outcomes    []outcome
	mu          sync.Mutex
}

// NewTracker creates a tracker adjusting the given weight store.
func NewTracker(store weights.Store) *Tracker {
	return &Tracker{
		weights: store,
		clock:   time.Now,
	}
}

// RecordOutcome registers a completed classification for health tracking.
func (t *Tracker) RecordOutcome(result *model.ClassificationResult) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.outcomes = append(t.outcomes, outcome{resultID: result.ID, confidence: result.Confidence})
	if len(t.outcomes) > healthWindow {
		t.outcomes = t.outcomes[len(t.outcomes)-healthWindow:]
	}
}

// RecordCorrection appends an immutable audit entry and shifts learned
// weights: the original category is penalized (floored at the store
// minimum) and the corrected category rewarded.
func (t *Tracker) RecordCorrection(resultID, input string, original, corrected model.CategoryName) model.Correction {
	entry := model.Correction{
		CorrectedAt:  t.clock(),
		ResultID:     resultID,
		InputExcerpt: excerpt(input),
		Original:     original,
		Corrected:    corrected,
	}

	t.mu.Lock()
	t.corrections = append(t.corrections, entry)
	if len(t.corrections) > historyCap {
		t.corrections = t.corrections[len(t.corrections)-historyCap:]
	}
	for i := range t.outcomes {
		if t.outcomes[i].resultID == resultID {
			t.outcomes[i].corrected = true
			break
		}
	}
	t.mu.Unlock()

	penalized := t.weights.Adjust(original, -correctionPenalty)
	rewarded := t.weights.Adjust(corrected, correctionBonus)

	slog.Info("Recorded correction",
		"result_id", resultID,
		"original", original,
		"corrected", corrected,
		"original_weight", penalized,
		"corrected_weight", rewarded)

	return entry
}

// Corrections returns a snapshot of the audit log, oldest first.
func (t *Tracker) Corrections() []model.Correction {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := make([]model.Correction, len(t.corrections))
	copy(snapshot, t.corrections)
	return snapshot
}

// SystemHealth reports correction rate and average confidence over the last
// healthWindow classifications, plus a composite score.
func (t *Tracker) SystemHealth() model.SystemHealth {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.outcomes) == 0 {
		return model.SystemHealth{HealthScore: 50}
	}

	var correctedCount, confidenceSum int
	for _, o := range t.outcomes {
		if o.corrected {
			correctedCount++
		}
		confidenceSum += o.confidence
	}

	rate := float64(correctedCount) / float64(len(t.outcomes))
	avg := float64(confidenceSum) / float64(len(t.outcomes))

	return model.SystemHealth{
		CorrectionRate: rate,
		AvgConfidence:  avg,
		HealthScore:    int(math.Round((100 - rate*100 + avg) / 2)),
		SampleSize:     len(t.outcomes),
	}
}

func excerpt(input string) string {
	runes := []rune(input)
	if len(runes) <= excerptLen {
		return input
	}
	return string(runes[:excerptLen]) + "…"
}
