package feedback

import (
	"math"

	"github.com/parabrain/para-flow/internal/model"
)

// HealthFromRecords computes system health from persisted classifications and
// corrections, for callers that outlive a single Tracker session. A
// classification counts as corrected when any correction references its ID.
func HealthFromRecords(results []model.ClassificationResult, corrections []model.Correction) model.SystemHealth {
	if len(results) > healthWindow {
		results = results[:healthWindow]
	}
	if len(results) == 0 {
		return model.SystemHealth{HealthScore: 50}
	}

	correctedIDs := make(map[string]struct{}, len(corrections))
	for _, c := range corrections {
		correctedIDs[c.ResultID] = struct{}{}
	}

	var correctedCount, confidenceSum int
	for _, r := range results {
		if _, ok := correctedIDs[r.ID]; ok {
			correctedCount++
		}
		confidenceSum += r.Confidence
	}

	rate := float64(correctedCount) / float64(len(results))
	avg := float64(confidenceSum) / float64(len(results))

	return model.SystemHealth{
		CorrectionRate: rate,
		AvgConfidence:  avg,
		HealthScore:    int(math.Round((100 - rate*100 + avg) / 2)),
		SampleSize:     len(results),
	}
}
