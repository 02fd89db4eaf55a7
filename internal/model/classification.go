package model

import "time"

// ClassificationSource indicates which stage of the pipeline produced a decision.
type ClassificationSource string

// Classification source constants.
const (
	SourceHeadline      ClassificationSource = "headline"
	SourceKeywords      ClassificationSource = "keywords"
	SourcePatterns      ClassificationSource = "patterns"
	SourceContext       ClassificationSource = "context"
	SourceIntegrated    ClassificationSource = "integrated"
	SourceFallback      ClassificationSource = "fallback"
	SourceErrorFallback ClassificationSource = "error_fallback"

	// SourceAI tags decisions made by an external model via the ai-assist
	// route, outside the local heuristic pipeline.
	SourceAI ClassificationSource = "ai"
)

// ClassificationResult is the final decision for one input. It is built once
// per classify call and never mutated afterwards: category metadata is copied
// from the taxonomy at decision time so later taxonomy edits do not
// retroactively alter past decisions.
type ClassificationResult struct {
	ClassifiedAt time.Time            `json:"classified_at"`
	ID           string               `json:"id"`
	Category     CategoryName         `json:"category"`
	Source       ClassificationSource `json:"source"`
	Reasoning    string               `json:"reasoning"`
	Priority     Priority             `json:"priority"`
	ParaCategory ParaCategory         `json:"para_category"`
	Destinations []Platform           `json:"destinations"`
	FolderPaths  map[Platform]string  `json:"folder_paths"`
	Confidence   int                  `json:"confidence"`
}

// Guess is a single classifier's opinion before integration.
type Guess struct {
	Category   CategoryName
	Source     ClassificationSource
	Evidence   string
	Confidence int
}
