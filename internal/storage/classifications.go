package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/parabrain/para-flow/internal/common"
	"github.com/parabrain/para-flow/internal/model"
)

// SaveClassification stores a decision keyed by content hash. A repeated
// capture of the same content replaces the earlier row.
func (s *SQLiteStorage) SaveClassification(ctx context.Context, contentHash string, result *model.ClassificationResult, provider string, processingTimeMs int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(contentHash, "contentHash"); err != nil {
		return err
	}
	if result == nil {
		return fmt.Errorf("result cannot be nil")
	}

	destinations, err := json.Marshal(result.Destinations)
	if err != nil {
		return fmt.Errorf("failed to marshal destinations: %w", err)
	}
	folderPaths, err := json.Marshal(result.FolderPaths)
	if err != nil {
		return fmt.Errorf("failed to marshal folder paths: %w", err)
	}

	classifiedAt := result.ClassifiedAt
	if classifiedAt.IsZero() {
		classifiedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO classifications (
			content_hash, result_id, category, source, confidence,
			reasoning, priority, para_category, destinations, folder_paths,
			provider, processing_time_ms, classified_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(content_hash) DO UPDATE SET
			result_id = excluded.result_id,
			category = excluded.category,
			source = excluded.source,
			confidence = excluded.confidence,
			reasoning = excluded.reasoning,
			priority = excluded.priority,
			para_category = excluded.para_category,
			destinations = excluded.destinations,
			folder_paths = excluded.folder_paths,
			provider = excluded.provider,
			processing_time_ms = excluded.processing_time_ms,
			classified_at = excluded.classified_at
	`,
		contentHash,
		result.ID,
		string(result.Category),
		string(result.Source),
		result.Confidence,
		result.Reasoning,
		string(result.Priority),
		string(result.ParaCategory),
		string(destinations),
		string(folderPaths),
		provider,
		processingTimeMs,
		classifiedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save classification: %w", err)
	}
	return nil
}

// GetClassificationByHash returns the stored decision for a content hash,
// or common.ErrNotFound.
func (s *SQLiteStorage) GetClassificationByHash(ctx context.Context, contentHash string) (*model.ClassificationResult, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(contentHash, "contentHash"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT result_id, category, source, confidence, reasoning,
		       priority, para_category, destinations, folder_paths, classified_at
		FROM classifications
		WHERE content_hash = ?
	`, contentHash)

	result, err := scanClassification(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get classification: %w", err)
	}
	return result, nil
}

// GetRecentClassifications returns up to limit decisions, newest first.
func (s *SQLiteStorage) GetRecentClassifications(ctx context.Context, limit int) ([]model.ClassificationResult, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT result_id, category, source, confidence, reasoning,
		       priority, para_category, destinations, folder_paths, classified_at
		FROM classifications
		ORDER BY classified_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query classifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []model.ClassificationResult
	for rows.Next() {
		result, scanErr := scanClassification(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan classification: %w", scanErr)
		}
		results = append(results, *result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate classifications: %w", err)
	}
	return results, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClassification(row rowScanner) (*model.ClassificationResult, error) {
	var (
		result       model.ClassificationResult
		destinations string
		folderPaths  string
	)

	err := row.Scan(
		&result.ID,
		&result.Category,
		&result.Source,
		&result.Confidence,
		&result.Reasoning,
		&result.Priority,
		&result.ParaCategory,
		&destinations,
		&folderPaths,
		&result.ClassifiedAt,
	)
	if err != nil {
		return nil, err
	}

	if destinations != "" {
		if err := json.Unmarshal([]byte(destinations), &result.Destinations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal destinations: %w", err)
		}
	}
	if folderPaths != "" {
		if err := json.Unmarshal([]byte(folderPaths), &result.FolderPaths); err != nil {
			return nil, fmt.Errorf("failed to unmarshal folder paths: %w", err)
		}
	}

	return &result, nil
}
