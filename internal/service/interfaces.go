// Package service defines the interfaces between the classification core
// and its collaborators (persistence, preferences, external models).
package service

import (
	"context"
	"time"

	"github.com/parabrain/para-flow/internal/model"
)

// Storage defines the contract for the persistence layer. The classifiers
// themselves never touch storage; the routing layer and CLI do.
type Storage interface {
	// Classification history, keyed by content hash so repeated inputs
	// reuse the earlier decision.
	SaveClassification(ctx context.Context, contentHash string, result *model.ClassificationResult, provider string, processingTimeMs int64) error
	GetClassificationByHash(ctx context.Context, contentHash string) (*model.ClassificationResult, error)
	GetRecentClassifications(ctx context.Context, limit int) ([]model.ClassificationResult, error)

	// Correction audit log.
	SaveCorrection(ctx context.Context, correction *model.Correction) error
	GetCorrections(ctx context.Context, limit int) ([]model.Correction, error)

	// Learned weights persistence.
	LoadWeights(ctx context.Context) (map[model.CategoryName]float64, error)
	SaveWeight(ctx context.Context, category model.CategoryName, weight float64) error

	// External model provider health.
	UpdateProviderStatus(ctx context.Context, provider string, healthy bool, latencyMs int64) error
	GetProviderStatuses(ctx context.Context) ([]ProviderStatus, error)

	// Per-rule routing statistics, persisted so rule selection history
	// survives the process.
	RecordRuleOutcome(ctx context.Context, ruleID string, success bool) error
	GetRuleStats(ctx context.Context) ([]model.RuleStats, error)

	// Database management.
	Migrate(ctx context.Context) error
	Close() error
}

// ProviderStatus summarizes one external model provider's recent behavior.
type ProviderStatus struct {
	LastSeen     time.Time
	Provider     string
	SuccessCount int64
	FailureCount int64
	AvgLatencyMs float64
	Healthy      bool
}

// PreferenceSource supplies per-user routing preferences. Collaborator-owned;
// the engine only reads it.
type PreferenceSource interface {
	Preferences(userID string) (*model.UserPreferences, bool)
}

// StaticPreferences is a PreferenceSource backed by a fixed map, used by the
// CLI and tests.
type StaticPreferences map[string]model.UserPreferences

// Preferences returns the record for userID if present.
func (p StaticPreferences) Preferences(userID string) (*model.UserPreferences, bool) {
	prefs, ok := p[userID]
	if !ok {
		return nil, false
	}
	return &prefs, true
}

// ContentClassifier is the contract for LLM-backed classification used by
// the ai-assist routing rule. provider pins the request to a named provider;
// empty means the implementation's own primary/fallback chain.
type ContentClassifier interface {
	ClassifyContent(ctx context.Context, input, provider string) (model.CategoryName, int, string, error)
}
