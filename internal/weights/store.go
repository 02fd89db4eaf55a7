// Package weights manages the learned per-category weight table adjusted by
// user corrections and read by the keyword classifier on every call.
package weights

import (
	"sync"

	"github.com/parabrain/para-flow/internal/model"
)

// DefaultWeight is the multiplier for categories with no recorded corrections.
const DefaultWeight = 1.0

// MinWeight is the floor a weight can be pushed down to.
const MinWeight = 0.1

// Store is the injectable contract for learned weights. Production wiring
// uses the in-memory store (weights reset on restart); tests inject fixed
// tables and the storage package offers a persisted implementation.
type Store interface {
	// Get returns the current weight for a category (DefaultWeight if unseen).
	Get(category model.CategoryName) float64
	// All returns a snapshot of every explicitly-set weight.
	All() map[model.CategoryName]float64
	// Adjust adds delta to a category's weight, clamping at MinWeight, and
	// returns the new value.
	Adjust(category model.CategoryName, delta float64) float64
}

// MemoryStore is the default in-process Store. Safe for concurrent use.
type MemoryStore struct {
	weights map[model.CategoryName]float64
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-memory weight store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{weights: make(map[model.CategoryName]float64)}
}

// Get returns the current weight for a category.
func (s *MemoryStore) Get(category model.CategoryName) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if w, ok := s.weights[category]; ok {
		return w
	}
	return DefaultWeight
}

// All returns a snapshot of every explicitly-set weight.
func (s *MemoryStore) All() map[model.CategoryName]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[model.CategoryName]float64, len(s.weights))
	for k, v := range s.weights {
		snapshot[k] = v
	}
	return snapshot
}

// Adjust adds delta to a category's weight and returns the new value.
// The read-modify-write runs under one lock so concurrent corrections
// never lose updates.
func (s *MemoryStore) Adjust(category model.CategoryName, delta float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.weights[category]
	if !ok {
		current = DefaultWeight
	}

	next := current + delta
	if next < MinWeight {
		next = MinWeight
	}
	s.weights[category] = next

	return next
}
