package classify

import (
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/parabrain/para-flow/internal/common"
	"github.com/parabrain/para-flow/internal/model"
	"github.com/parabrain/para-flow/internal/taxonomy"
	"github.com/parabrain/para-flow/internal/weights"
)

// Fixed confidences for the non-heuristic paths.
const (
	headlineConfidence      = 95
	fallbackConfidence      = 50
	errorFallbackConfidence = 30
)

// Config holds configuration options for the classification service.
type Config struct {
	FallbackCategory    model.CategoryName
	MinInputLength      int
	MaxInputLength      int
	ConfidenceThreshold int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MinInputLength:      3,
		MaxInputLength:      10000,
		ConfidenceThreshold: 70,
		FallbackCategory:    taxonomy.FallbackCategory,
	}
}

// Service runs the full classification pipeline for one input:
// validation, headline override, heuristic classifiers, integration, and
// MECE validation with fallback substitution.
type Service struct {
	keyword    *KeywordClassifier
	pattern    *PatternClassifier
	contextual *ContextClassifier
	resolver   *taxonomy.PathResolver
	clock      Clock
	cfg        Config
}

// New creates a classification service with the default configuration.
func New(store weights.Store, resolver *taxonomy.PathResolver, clock Clock) *Service {
	return NewWithConfig(store, resolver, clock, DefaultConfig())
}

// NewWithConfig creates a classification service with custom configuration.
func NewWithConfig(store weights.Store, resolver *taxonomy.PathResolver, clock Clock, cfg Config) *Service {
	if cfg.MinInputLength <= 0 {
		cfg.MinInputLength = 3
	}
	if cfg.MaxInputLength <= 0 {
		cfg.MaxInputLength = 10000
	}
	if cfg.ConfidenceThreshold <= 0 {
		cfg.ConfidenceThreshold = 70
	}
	if cfg.FallbackCategory == "" {
		cfg.FallbackCategory = taxonomy.FallbackCategory
	}

	return &Service{
		keyword:    NewKeywordClassifier(store),
		pattern:    NewPatternClassifier(),
		contextual: NewContextClassifier(clock),
		resolver:   resolver,
		clock:      clock,
		cfg:        cfg,
	}
}

// Classify produces exactly one category decision for the input.
//
// Validation failures and unrecognized headlines are returned as errors.
// The special [temp] headline returns common.ErrSkipClassification so the
// caller can route to a holding area. Every other condition, including
// unexpected internal failures, yields a best-effort result.
func (s *Service) Classify(input, headline string, history []model.CategoryName) (*model.ClassificationResult, error) {
	if err := s.ValidateInput(input); err != nil {
		return nil, err
	}

	if headline != "" {
		name, skip, err := taxonomy.ResolveHeadline(headline)
		if err != nil {
			return nil, err
		}
		if skip {
			return nil, common.ErrSkipClassification
		}
		return s.BuildResult(name, headlineConfidence, model.SourceHeadline,
			fmt.Sprintf("headline override %q", headline))
	}

	return s.classifyHeuristic(input, history), nil
}

// classifyHeuristic runs the three classifiers and integrates their guesses.
// It never fails: internal errors and panics degrade to an error_fallback
// result so a bad input cannot crash the caller.
func (s *Service) classifyHeuristic(input string, history []model.CategoryName) (result *model.ClassificationResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Classification panicked, using error fallback", "panic", r)
			result = s.mustBuildResult(s.cfg.FallbackCategory, errorFallbackConfidence,
				model.SourceErrorFallback, fmt.Sprintf("internal error: %v", r))
		}
	}()

	guesses := []model.Guess{
		s.keyword.Classify(input),
		s.pattern.Classify(input),
		s.contextual.Classify(history),
	}

	integrated := Integrate(guesses)

	// MECE validation: the winner must be a taxonomy member and clear the
	// confidence threshold. Failure is recovered by substituting the
	// fallback category, never surfaced as an error.
	if !taxonomy.Contains(integrated.Category) || integrated.Confidence < s.cfg.ConfidenceThreshold {
		slog.Warn("MECE validation failed, substituting fallback category",
			"candidate", integrated.Category,
			"confidence", integrated.Confidence,
			"threshold", s.cfg.ConfidenceThreshold,
			"fallback", s.cfg.FallbackCategory)
		return s.mustBuildResult(s.cfg.FallbackCategory, fallbackConfidence, model.SourceFallback,
			fmt.Sprintf("low confidence (%d < %d) for %s; %s",
				integrated.Confidence, s.cfg.ConfidenceThreshold, integrated.Category, integrated.Evidence))
	}

	res, err := s.BuildResult(integrated.Category, integrated.Confidence, model.SourceIntegrated, integrated.Evidence)
	if err != nil {
		// Only reachable through a taxonomy programming error.
		slog.Error("Failed to build integrated result", "error", err)
		return s.mustBuildResult(s.cfg.FallbackCategory, errorFallbackConfidence,
			model.SourceErrorFallback, fmt.Sprintf("internal error: %v", err))
	}
	return res
}

// ValidateInput enforces the configured length bounds before any
// classification work begins. Lengths are counted in runes: most captured
// input is Korean, where byte counts would triple the effective length.
func (s *Service) ValidateInput(input string) error {
	length := utf8.RuneCountInString(input)
	switch {
	case length == 0:
		return &common.ValidationError{Reason: "input is empty", Length: length}
	case length < s.cfg.MinInputLength:
		return &common.ValidationError{Reason: fmt.Sprintf("input shorter than %d characters", s.cfg.MinInputLength), Length: length}
	case length > s.cfg.MaxInputLength:
		return &common.ValidationError{Reason: fmt.Sprintf("input longer than %d characters", s.cfg.MaxInputLength), Length: length}
	}
	return nil
}

// BuildResult materializes an immutable ClassificationResult, copying the
// category's metadata at decision time.
func (s *Service) BuildResult(name model.CategoryName, confidence int, source model.ClassificationSource, reasoning string) (*model.ClassificationResult, error) {
	cat, err := taxonomy.Lookup(name)
	if err != nil {
		return nil, err
	}

	destinations := make([]model.Platform, len(cat.Destinations))
	copy(destinations, cat.Destinations)

	return &model.ClassificationResult{
		ID:           uuid.NewString(),
		ClassifiedAt: s.clock.Now(),
		Category:     cat.Name,
		Confidence:   confidence,
		Source:       source,
		Reasoning:    reasoning,
		Priority:     cat.PriorityDefault,
		ParaCategory: cat.ParaMapping,
		Destinations: destinations,
		FolderPaths:  s.resolver.Resolve(cat),
	}, nil
}

// mustBuildResult builds a result for a category known to be in the
// taxonomy. The fallback category is validated at construction, so a
// failure here cannot happen without memory corruption.
func (s *Service) mustBuildResult(name model.CategoryName, confidence int, source model.ClassificationSource, reasoning string) *model.ClassificationResult {
	res, err := s.BuildResult(name, confidence, source, reasoning)
	if err != nil {
		// Last-resort result so callers always get a decision.
		return &model.ClassificationResult{
			ID:           uuid.NewString(),
			ClassifiedAt: time.Now(),
			Category:     name,
			Confidence:   confidence,
			Source:       model.SourceErrorFallback,
			Reasoning:    fmt.Sprintf("%s (result build failed: %v)", reasoning, err),
			FolderPaths:  map[model.Platform]string{},
		}
	}
	return res
}
