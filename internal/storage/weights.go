package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/parabrain/para-flow/internal/model"
	"github.com/parabrain/para-flow/internal/weights"
)

// LoadWeights returns all persisted category weights.
func (s *SQLiteStorage) LoadWeights(ctx context.Context) (map[model.CategoryName]float64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT category, weight FROM category_weights`)
	if err != nil {
		return nil, fmt.Errorf("failed to query weights: %w", err)
	}
	defer func() { _ = rows.Close() }()

	loaded := make(map[model.CategoryName]float64)
	for rows.Next() {
		var (
			category model.CategoryName
			weight   float64
		)
		if scanErr := rows.Scan(&category, &weight); scanErr != nil {
			return nil, fmt.Errorf("failed to scan weight: %w", scanErr)
		}
		loaded[category] = weight
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate weights: %w", err)
	}
	return loaded, nil
}

// SaveWeight upserts one category's learned weight.
func (s *SQLiteStorage) SaveWeight(ctx context.Context, category model.CategoryName, weight float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(string(category), "category"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO category_weights (category, weight, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(category) DO UPDATE SET
			weight = excluded.weight,
			updated_at = excluded.updated_at
	`, string(category), weight, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save weight: %w", err)
	}
	return nil
}

// PersistentWeightStore is a weights.Store that writes through to SQLite.
// Reads are served from memory; the database is only touched on startup and
// on adjustment.
type PersistentWeightStore struct {
	storage *SQLiteStorage
	memory  *weights.MemoryStore
	mu      sync.Mutex
}

// NewPersistentWeightStore loads persisted weights into memory and returns a
// write-through store.
func NewPersistentWeightStore(ctx context.Context, storage *SQLiteStorage) (*PersistentWeightStore, error) {
	loaded, err := storage.LoadWeights(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load weights: %w", err)
	}

	memory := weights.NewMemoryStore()
	for category, weight := range loaded {
		memory.Adjust(category, weight-weights.DefaultWeight)
	}

	return &PersistentWeightStore{storage: storage, memory: memory}, nil
}

// Get returns the current weight for a category.
func (s *PersistentWeightStore) Get(category model.CategoryName) float64 {
	return s.memory.Get(category)
}

// All returns a snapshot of every explicitly-set weight.
func (s *PersistentWeightStore) All() map[model.CategoryName]float64 {
	return s.memory.All()
}

// Adjust updates the in-memory weight and persists the new value. Persistence
// failures only log; the in-memory table stays authoritative for the session.
func (s *PersistentWeightStore) Adjust(category model.CategoryName, delta float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.memory.Adjust(category, delta)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.storage.SaveWeight(ctx, category, next); err != nil {
		slog.Warn("Failed to persist weight",
			"category", category,
			"weight", next,
			"error", err)
	}
	return next
}
