package memory

import (
	"context"
	"fmt"
	"fxresolver/internal/domain"
	"sync"
)

// RateStore is a process-local RateStore, used when Postgres is disabled.
type RateStore struct {
	data map[domain.RatePair]domain.RateRecord

	mu sync.RWMutex
}

func NewRateStore() *RateStore {
	return &RateStore{data: make(map[domain.RatePair]domain.RateRecord)}
}

func (s *RateStore) Get(_ context.Context, pair domain.RatePair) (domain.RateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[pair]
	if !ok {
		return domain.RateRecord{}, domain.ErrRateNotFound
	}
	return rec, nil
}

func (s *RateStore) Upsert(_ context.Context, rec domain.RateRecord) error {
	if !domain.ValidRate(rec.Rate) {
		return fmt.Errorf("failed to upsert rate for pair %s: %w", rec.Pair, domain.ErrInvalidRate)
	}
	rec.LastUpdated = rec.LastUpdated.UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	// lastUpdated never moves backwards for a pair
	if prev, ok := s.data[rec.Pair]; ok && prev.LastUpdated.After(rec.LastUpdated) {
		rec.LastUpdated = prev.LastUpdated
	}
	s.data[rec.Pair] = rec
	return nil
}
