package adapters

import (
	"context"
	"fxresolver/internal/domain"
)

// RateProvider wraps one third-party quoting API.
type RateProvider interface {
	Name() string
	FetchRate(ctx context.Context, pair domain.RatePair) (float64, error)
}

type RateStore interface {
	// Get returns domain.ErrRateNotFound when no record exists for the pair.
	Get(ctx context.Context, pair domain.RatePair) (domain.RateRecord, error)
	Upsert(ctx context.Context, record domain.RateRecord) error
}

type RateCache interface {
	Get(pair domain.RatePair) (domain.CacheEntry, bool)
	Set(entry domain.CacheEntry)
	Entries() []domain.CacheEntry
	Delete(pairs ...domain.RatePair)
}

// BatchRateStore is implemented by stores that can write many records at once.
type BatchRateStore interface {
	RateStore
	UpsertBatch(ctx context.Context, records []domain.RateRecord) error
}
