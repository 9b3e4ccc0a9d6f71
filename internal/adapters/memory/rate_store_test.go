package memory

import (
	"context"
	"math"
	"testing"
	"time"

	"fxresolver/internal/adapters"
	"fxresolver/internal/domain"

	"github.com/stretchr/testify/require"
)

var _ adapters.RateStore = (*RateStore)(nil)

func TestRateStore_GetNotFound(t *testing.T) {
	s := NewRateStore()
	_, err := s.Get(context.Background(), domain.RatePair{Base: "USD", Quote: "EUR"})
	require.ErrorIs(t, err, domain.ErrRateNotFound)
}

func TestRateStore_UpsertAndGet(t *testing.T) {
	s := NewRateStore()
	ctx := context.Background()
	pair := domain.RatePair{Base: "USD", Quote: "AED"}
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.Upsert(ctx, domain.RateRecord{Pair: pair, Rate: 3.67, LastUpdated: at, Source: "Fixer"}))

	got, err := s.Get(ctx, pair)
	require.NoError(t, err)
	require.InDelta(t, 3.67, got.Rate, 1e-9)
	require.True(t, got.LastUpdated.Equal(at))
	require.Equal(t, "Fixer", got.Source)
}

func TestRateStore_UpsertLastWriterWins(t *testing.T) {
	s := NewRateStore()
	ctx := context.Background()
	pair := domain.RatePair{Base: "EUR", Quote: "GBP"}
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.Upsert(ctx, domain.RateRecord{Pair: pair, Rate: 0.86, LastUpdated: t0, Source: "a"}))
	require.NoError(t, s.Upsert(ctx, domain.RateRecord{Pair: pair, Rate: 0.87, LastUpdated: t0.Add(time.Minute), Source: "b"}))

	got, err := s.Get(ctx, pair)
	require.NoError(t, err)
	require.InDelta(t, 0.87, got.Rate, 1e-9)
	require.Equal(t, "b", got.Source)
}

func TestRateStore_UpsertKeepsLastUpdatedMonotonic(t *testing.T) {
	s := NewRateStore()
	ctx := context.Background()
	pair := domain.RatePair{Base: "GBP", Quote: "JPY"}
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.Upsert(ctx, domain.RateRecord{Pair: pair, Rate: 150.7, LastUpdated: t0}))
	require.NoError(t, s.Upsert(ctx, domain.RateRecord{Pair: pair, Rate: 151.0, LastUpdated: t0.Add(-time.Hour)}))

	got, err := s.Get(ctx, pair)
	require.NoError(t, err)
	require.InDelta(t, 151.0, got.Rate, 1e-9)
	require.True(t, got.LastUpdated.Equal(t0))
}

func TestRateStore_UpsertRejectsInvalidRate(t *testing.T) {
	s := NewRateStore()
	ctx := context.Background()
	pair := domain.RatePair{Base: "USD", Quote: "EUR"}

	for _, bad := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		err := s.Upsert(ctx, domain.RateRecord{Pair: pair, Rate: bad})
		require.ErrorIs(t, err, domain.ErrInvalidRate)
	}
	_, err := s.Get(ctx, pair)
	require.ErrorIs(t, err, domain.ErrRateNotFound)
}
