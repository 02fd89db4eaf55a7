package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/parabrain/para-flow/internal/service"
)

// UpdateProviderStatus records the outcome of one external provider call.
// The running average latency is folded in SQL so concurrent processes
// never clobber each other's counts.
func (s *SQLiteStorage) UpdateProviderStatus(ctx context.Context, provider string, healthy bool, latencyMs int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(provider, "provider"); err != nil {
		return err
	}

	successDelta := 0
	failureDelta := 0
	if healthy {
		successDelta = 1
	} else {
		failureDelta = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO provider_status (
			provider, healthy, success_count, failure_count, avg_latency_ms, last_seen
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(provider) DO UPDATE SET
			healthy = excluded.healthy,
			success_count = success_count + excluded.success_count,
			failure_count = failure_count + excluded.failure_count,
			avg_latency_ms = avg_latency_ms +
				(excluded.avg_latency_ms - avg_latency_ms) /
				(success_count + failure_count + 1),
			last_seen = excluded.last_seen
	`, provider, healthy, successDelta, failureDelta, float64(latencyMs), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update provider status: %w", err)
	}
	return nil
}

// GetProviderStatuses returns the status of every known provider.
func (s *SQLiteStorage) GetProviderStatuses(ctx context.Context) ([]service.ProviderStatus, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT provider, healthy, success_count, failure_count, avg_latency_ms, last_seen
		FROM provider_status
		ORDER BY provider
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query provider statuses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var statuses []service.ProviderStatus
	for rows.Next() {
		var status service.ProviderStatus
		if scanErr := rows.Scan(
			&status.Provider,
			&status.Healthy,
			&status.SuccessCount,
			&status.FailureCount,
			&status.AvgLatencyMs,
			&status.LastSeen,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan provider status: %w", scanErr)
		}
		statuses = append(statuses, status)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate provider statuses: %w", err)
	}
	return statuses, nil
}
