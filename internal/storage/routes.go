package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/parabrain/para-flow/internal/model"
)

// RecordRuleOutcome folds one rule attempt into the persisted per-rule
// counters.
func (s *SQLiteStorage) RecordRuleOutcome(ctx context.Context, ruleID string, success bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(ruleID, "ruleID"); err != nil {
		return err
	}

	successDelta := 0
	if success {
		successDelta = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO route_stats (rule_id, attempts, successes, updated_at)
		VALUES (?, 1, ?, ?)
		ON CONFLICT(rule_id) DO UPDATE SET
			attempts = attempts + 1,
			successes = successes + excluded.successes,
			updated_at = excluded.updated_at
	`, ruleID, successDelta, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record rule outcome: %w", err)
	}
	return nil
}

// GetRuleStats returns the persisted per-rule aggregates.
func (s *SQLiteStorage) GetRuleStats(ctx context.Context) ([]model.RuleStats, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT rule_id, attempts, successes
		FROM route_stats
		ORDER BY rule_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rule stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []model.RuleStats
	for rows.Next() {
		var st model.RuleStats
		if scanErr := rows.Scan(&st.RuleID, &st.Attempts, &st.Successes); scanErr != nil {
			return nil, fmt.Errorf("failed to scan rule stats: %w", scanErr)
		}
		if st.Attempts > 0 {
			st.SuccessRate = float64(st.Successes) / float64(st.Attempts)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rule stats: %w", err)
	}
	return stats, nil
}
