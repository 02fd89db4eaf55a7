// Package routing orchestrates classification over an ordered rule set with
// per-rule timeouts, fallback retries, and adaptive rule selection.
package routing

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/parabrain/para-flow/internal/classify"
	"github.com/parabrain/para-flow/internal/common"
	"github.com/parabrain/para-flow/internal/model"
	"github.com/parabrain/para-flow/internal/service"
)

// RouteHolding is the route name reported when a [temp] headline tells the
// engine to skip classification and park the input.
const RouteHolding = "holding"

// RouteCache is the route name reported when a previous decision for the
// same content hash is reused.
const RouteCache = "cache"

// Engine routes one envelope at a time: validate, select applicable rules,
// execute the best candidate under its timeout, retry the next-best on
// timeout, and fold the outcome into running statistics.
type Engine struct {
	classifier *classify.Service
	prefs      service.PreferenceSource
	store      service.Storage
	stats      *statsTracker
	rules      []model.RoutingRule
}

// New creates a routing engine over the given rules. prefs and store may be
// nil (no per-user preferences, no history cache). At least one rule must be
// an unconditional catch-all; DefaultRules satisfies this.
func New(classifier *classify.Service, rules []model.RoutingRule, prefs service.PreferenceSource, store service.Storage) *Engine {
	return &Engine{
		classifier: classifier,
		rules:      rules,
		prefs:      prefs,
		store:      store,
		stats:      newStatsTracker(),
	}
}

// Route processes one envelope. Failures are reported in the RouteResult,
// never as a panic or a crash: only input validation, caller programming
// errors, and exhausted timeouts produce success=false.
func (e *Engine) Route(ctx context.Context, env model.RouteEnvelope) model.RouteResult {
	start := time.Now()

	if err := e.classifier.ValidateInput(env.Input); err != nil {
		return e.finish(start, model.RouteResult{Error: err.Error()})
	}

	if cached := e.cachedResult(ctx, env); cached != nil {
		return e.finish(start, model.RouteResult{Success: true, Route: RouteCache, Result: cached})
	}

	candidates := e.selectRules(env)

	var timedOut []string
	var lastErr error

	for _, rule := range candidates {
		if ctx.Err() != nil {
			return e.finish(start, model.RouteResult{Error: ctx.Err().Error()})
		}

		result, err := e.executeRule(ctx, rule, env)
		switch {
		case err == nil:
			e.recordRule(rule.ID, true)
			e.persistResult(ctx, env, rule.ID, result, time.Since(start))
			return e.finish(start, model.RouteResult{Success: true, Route: rule.ID, Result: result})

		case errors.Is(err, common.ErrSkipClassification):
			e.recordRule(rule.ID, true)
			return e.finish(start, model.RouteResult{Success: true, Route: RouteHolding})

		case errors.Is(err, context.DeadlineExceeded):
			e.recordRule(rule.ID, false)
			e.stats.recordTimeoutRetry()
			timedOut = append(timedOut, rule.ID)
			slog.Warn("Route timed out, trying next candidate",
				"rule", rule.ID,
				"timeout", rule.Timeout)

		case isCallerError(err):
			e.recordRule(rule.ID, false)
			return e.finish(start, model.RouteResult{Error: err.Error()})

		default:
			e.recordRule(rule.ID, false)
			lastErr = err
			slog.Warn("Route action failed, trying next candidate",
				"rule", rule.ID,
				"error", err)
		}
	}

	if len(timedOut) > 0 {
		err := &common.RoutingTimeoutError{Attempted: timedOut}
		return e.finish(start, model.RouteResult{Error: err.Error()})
	}

	// Unreachable with a catch-all rule registered, unless every action
	// errored; surface the last error.
	if lastErr == nil {
		lastErr = errors.New("no applicable route")
	}
	return e.finish(start, model.RouteResult{Error: lastErr.Error()})
}

// Stats returns the engine-wide aggregates and per-rule statistics.
func (e *Engine) Stats() (model.RouteStats, []model.RuleStats) {
	return e.stats.snapshot()
}

// recordRule updates the in-memory rule aggregates and persists the outcome.
// Persistence runs on its own deadline: by the time a timed-out rule is
// recorded, the request context may already be dead. Best effort.
func (e *Engine) recordRule(ruleID string, success bool) {
	e.stats.recordRule(ruleID, success)
	if e.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := e.store.RecordRuleOutcome(ctx, ruleID, success); err != nil {
		slog.Warn("Failed to persist rule outcome", "rule", ruleID, "error", err)
	}
}

// selectRules filters to applicable rules and orders them: the caller's
// preferred rule first, then by declared priority, then by historical
// success rate (0.5 when unseen), then by ID for reproducibility.
func (e *Engine) selectRules(env model.RouteEnvelope) []model.RoutingRule {
	applicable := make([]model.RoutingRule, 0, len(e.rules))
	for _, rule := range e.rules {
		if rule.Condition(env) {
			applicable = append(applicable, rule)
		}
	}

	preferred := ""
	if e.prefs != nil && env.UserID != "" {
		if prefs, ok := e.prefs.Preferences(env.UserID); ok {
			preferred = prefs.PreferredRoute
		}
	}

	sort.SliceStable(applicable, func(i, j int) bool {
		a, b := applicable[i], applicable[j]
		if (a.ID == preferred) != (b.ID == preferred) {
			return a.ID == preferred
		}
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		ra, rb := e.stats.successRate(a.ID), e.stats.successRate(b.ID)
		if ra != rb {
			return ra > rb
		}
		return a.ID < b.ID
	})

	return applicable
}

// executeRule races the rule's action against its timeout. The result
// channel is buffered so a late result is abandoned: the goroutine can
// still send, but nothing reads it and engine state is never touched.
func (e *Engine) executeRule(ctx context.Context, rule model.RoutingRule, env model.RouteEnvelope) (*model.ClassificationResult, error) {
	timeout := rule.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		result *model.ClassificationResult
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		result, err := rule.Action(execCtx, env)
		done <- outcome{result: result, err: err}
	}()

	select {
	case <-execCtx.Done():
		return nil, execCtx.Err()
	case o := <-done:
		return o.result, o.err
	}
}

// cachedResult consults the classification history for an identical input.
// Headline calls bypass the cache: an explicit override must always win.
func (e *Engine) cachedResult(ctx context.Context, env model.RouteEnvelope) *model.ClassificationResult {
	if e.store == nil || env.UserHeadline != "" {
		return nil
	}

	cached, err := e.store.GetClassificationByHash(ctx, common.ContentHash(env.Input))
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		slog.Warn("History cache lookup failed", "error", err)
	}
	return cached
}

// persistResult records the decision in the history store, keyed by content
// hash. Best effort: persistence failures never fail the call.
func (e *Engine) persistResult(ctx context.Context, env model.RouteEnvelope, route string, result *model.ClassificationResult, elapsed time.Duration) {
	if e.store == nil || result == nil {
		return
	}

	err := e.store.SaveClassification(ctx, common.ContentHash(env.Input), result, route, elapsed.Milliseconds())
	if err != nil {
		slog.Warn("Failed to persist classification", "error", err)
	}
}

func (e *Engine) finish(start time.Time, res model.RouteResult) model.RouteResult {
	elapsed := time.Since(start)
	res.ExecutionTimeMs = elapsed.Milliseconds()
	res.TimestampIso = time.Now().UTC().Format(time.RFC3339)
	e.stats.recordCall(res.Success, elapsed)
	return res
}

// isCallerError reports whether the error is a caller programming error
// that must surface immediately instead of falling through to other rules.
func isCallerError(err error) bool {
	var validationErr *common.ValidationError
	var classificationErr *common.ClassificationError
	var taxonomyErr *common.TaxonomyError
	return errors.As(err, &validationErr) ||
		errors.As(err, &classificationErr) ||
		errors.As(err, &taxonomyErr)
}
