package model

import "time"

// Correction is an immutable audit entry recording a user's category fix.
type Correction struct {
	CorrectedAt  time.Time    `json:"corrected_at"`
	ResultID     string       `json:"result_id"`
	InputExcerpt string       `json:"input_excerpt"`
	Original     CategoryName `json:"original"`
	Corrected    CategoryName `json:"corrected"`
}

// SystemHealth summarizes recent classification quality.
type SystemHealth struct {
	CorrectionRate float64 `json:"correction_rate"`
	AvgConfidence  float64 `json:"avg_confidence"`
	HealthScore    int     `json:"health_score"`
	SampleSize     int     `json:"sample_size"`
}
