package routing

import (
	"context"
	"fmt"
	"time"

	"github.com/parabrain/para-flow/internal/classify"
	"github.com/parabrain/para-flow/internal/model"
	"github.com/parabrain/para-flow/internal/service"
	"github.com/parabrain/para-flow/internal/taxonomy"
)

// Well-known rule identifiers.
const (
	RuleHeadline  = "headline-direct"
	RuleAIAssist  = "ai-assist"
	RuleHeuristic = "heuristic"
)

// DefaultRules builds the standard rule set. The heuristic rule is the
// always-applicable catch-all, so rule selection can never come up empty.
// ai may be nil, in which case the ai-assist rule never applies.
func DefaultRules(classifier *classify.Service, ai service.ContentClassifier) []model.RoutingRule {
	rules := []model.RoutingRule{
		{
			ID:       RuleHeadline,
			Priority: 200,
			Timeout:  2 * time.Second,
			Condition: func(env model.RouteEnvelope) bool {
				return env.UserHeadline != ""
			},
			Action: func(_ context.Context, env model.RouteEnvelope) (*model.ClassificationResult, error) {
				return classifier.Classify(env.Input, env.UserHeadline, env.UserHistory)
			},
		},
		{
			ID:       RuleAIAssist,
			Priority: 100,
			Timeout:  15 * time.Second,
			Condition: func(env model.RouteEnvelope) bool {
				return ai != nil && env.EnableAI && env.UserHeadline == ""
			},
			Action: func(ctx context.Context, env model.RouteEnvelope) (*model.ClassificationResult, error) {
				name, confidence, reasoning, err := ai.ClassifyContent(ctx, env.Input, env.Provider)
				if err != nil {
					return nil, fmt.Errorf("ai classification failed: %w", err)
				}
				if !taxonomy.Contains(name) {
					// The model invented a category; let the heuristic
					// rule have a go instead.
					return nil, fmt.Errorf("ai suggested unknown category %q", name)
				}
				return classifier.BuildResult(name, confidence, model.SourceAI, reasoning)
			},
		},
		{
			ID:       RuleHeuristic,
			Priority: 10,
			Timeout:  2 * time.Second,
			Condition: func(model.RouteEnvelope) bool {
				return true
			},
			Action: func(_ context.Context, env model.RouteEnvelope) (*model.ClassificationResult, error) {
				return classifier.Classify(env.Input, "", env.UserHistory)
			},
		},
	}

	return rules
}
