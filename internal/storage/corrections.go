package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/parabrain/para-flow/internal/model"
)

// SaveCorrection appends a correction to the audit log.
func (s *SQLiteStorage) SaveCorrection(ctx context.Context, correction *model.Correction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if correction == nil {
		return fmt.Errorf("correction cannot be nil")
	}
	if err := validateString(correction.ResultID, "resultID"); err != nil {
		return err
	}

	correctedAt := correction.CorrectedAt
	if correctedAt.IsZero() {
		correctedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO corrections (
			result_id, input_excerpt, original_category, corrected_category, corrected_at
		) VALUES (?, ?, ?, ?, ?)
	`,
		correction.ResultID,
		correction.InputExcerpt,
		string(correction.Original),
		string(correction.Corrected),
		correctedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save correction: %w", err)
	}
	return nil
}

// GetCorrections returns up to limit corrections, newest first.
func (s *SQLiteStorage) GetCorrections(ctx context.Context, limit int) ([]model.Correction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT result_id, input_excerpt, original_category, corrected_category, corrected_at
		FROM corrections
		ORDER BY corrected_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query corrections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var corrections []model.Correction
	for rows.Next() {
		var c model.Correction
		if scanErr := rows.Scan(&c.ResultID, &c.InputExcerpt, &c.Original, &c.Corrected, &c.CorrectedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan correction: %w", scanErr)
		}
		corrections = append(corrections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate corrections: %w", err)
	}
	return corrections, nil
}
