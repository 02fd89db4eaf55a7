package routing

import (
	"sort"
	"sync"
	"time"

	"github.com/parabrain/para-flow/internal/model"
)

// defaultSuccessRate is assumed for rules with no recorded attempts.
const defaultSuccessRate = 0.5

// statsTracker keeps engine-wide and per-rule aggregates. Updates run under
// one mutex so concurrent completions never lose counts.
type statsTracker struct {
	ruleStats      map[string]*model.RuleStats
	totalCalls     int64
	successCount   int64
	failureCount   int64
	timeoutRetries int64
	avgLatencyMs   float64
	mu             sync.Mutex
}

func newStatsTracker() *statsTracker {
	return &statsTracker{ruleStats: make(map[string]*model.RuleStats)}
}

// recordCall folds one completed route call into the aggregates, updating
// the moving-average latency.
func (s *statsTracker) recordCall(success bool, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalCalls++
	if success {
		s.successCount++
	} else {
		s.failureCount++
	}

	latency := float64(elapsed.Milliseconds())
	s.avgLatencyMs += (latency - s.avgLatencyMs) / float64(s.totalCalls)
}

// recordRule tracks one rule attempt and refreshes its success rate.
func (s *statsTracker) recordRule(ruleID string, success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.ruleStats[ruleID]
	if st == nil {
		st = &model.RuleStats{RuleID: ruleID}
		s.ruleStats[ruleID] = st
	}

	st.Attempts++
	if success {
		st.Successes++
	}
	st.SuccessRate = float64(st.Successes) / float64(st.Attempts)
}

func (s *statsTracker) recordTimeoutRetry() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeoutRetries++
}

// successRate returns a rule's historical success rate, or the default for
// rules never attempted.
func (s *statsTracker) successRate(ruleID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.ruleStats[ruleID]; ok && st.Attempts > 0 {
		return st.SuccessRate
	}
	return defaultSuccessRate
}

// snapshot returns copies of the aggregates for reporting.
func (s *statsTracker) snapshot() (model.RouteStats, []model.RuleStats) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rules := make([]model.RuleStats, 0, len(s.ruleStats))
	for _, st := range s.ruleStats {
		rules = append(rules, *st)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].RuleID < rules[j].RuleID })

	return model.RouteStats{
		TotalCalls:     s.totalCalls,
		SuccessCount:   s.successCount,
		FailureCount:   s.failureCount,
		AvgLatencyMs:   s.avgLatencyMs,
		TimeoutRetries: s.timeoutRetries,
	}, rules
}
