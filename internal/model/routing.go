package model

import (
	"context"
	"time"
)

// RouteEnvelope carries one routing request and its caller-supplied context.
type RouteEnvelope struct {
	Context      map[string]any `json:"context,omitempty"`
	Input        string         `json:"input"`
	UserHeadline string         `json:"userHeadline,omitempty"`
	UserID       string         `json:"userId,omitempty"`
	Provider     string         `json:"provider,omitempty"`
	UserHistory  []CategoryName `json:"userHistory,omitempty"`
	EnableAI     bool           `json:"enableAI"`
	EnableSync   bool           `json:"enableSync"`
}

// RouteResult is the caller-visible outcome of a route call.
type RouteResult struct {
	Result          *ClassificationResult `json:"result,omitempty"`
	Route           string                `json:"route,omitempty"`
	Error           string                `json:"error,omitempty"`
	TimestampIso    string                `json:"timestampIso"`
	ExecutionTimeMs int64                 `json:"executionTimeMs"`
	Success         bool                  `json:"success"`
}

// RoutingRule is one candidate route: a predicate over the envelope and an
// action that produces a classification when the rule is chosen.
type RoutingRule struct {
	Condition func(RouteEnvelope) bool
	Action    func(context.Context, RouteEnvelope) (*ClassificationResult, error)
	ID        string
	Timeout   time.Duration
	Priority  int
}

// RouteStats holds running aggregates for the engine as a whole.
type RouteStats struct {
	TotalCalls     int64   `json:"total_calls"`
	SuccessCount   int64   `json:"success_count"`
	FailureCount   int64   `json:"failure_count"`
	AvgLatencyMs   float64 `json:"avg_latency_ms"`
	TimeoutRetries int64   `json:"timeout_retries"`
}

// RuleStats tracks per-rule outcomes used by future rule selection.
type RuleStats struct {
	RuleID      string  `json:"rule_id"`
	Attempts    int64   `json:"attempts"`
	Successes   int64   `json:"successes"`
	SuccessRate float64 `json:"success_rate"`
}

// UserPreferences is the per-user preference record supplied by collaborators.
type UserPreferences struct {
	PreferredRoute        string       `json:"preferredRoute,omitempty"`
	DefaultMECECategory   CategoryName `json:"defaultMECECategory,omitempty"`
	DefaultProcessingType string       `json:"defaultProcessingType,omitempty"`
	DefaultPriority       Priority     `json:"defaultPriority,omitempty"`
	EnableAI              bool         `json:"enableAI"`
	EnableSync            bool         `json:"enableSync"`
}
