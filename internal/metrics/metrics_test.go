package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fxresolver/internal/domain"
	"fxresolver/internal/rate"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

var _ rate.Observer = (*RateMetrics)(nil)

func TestRateMetrics_ObserverEvents(t *testing.T) {
	m := NewRateMetrics(prometheus.NewRegistry())
	pair := domain.RatePair{Base: "USD", Quote: "AED"}

	m.Resolved(rate.Quote{Pair: pair, Tier: rate.TierCache})
	m.Resolved(rate.Quote{Pair: pair, Tier: rate.TierCache})
	m.Resolved(rate.Quote{Pair: pair, Tier: rate.TierStaleStore})
	m.ResolveFailed(pair, domain.ErrRateUnavailable)
	m.ProviderFailed("Fixer.io", pair, errors.New("timeout"))
	m.PersistFailed(pair, domain.ErrPersistence)
	m.RateUpdated(domain.RateRecord{Pair: pair, Rate: 3.67, Source: "CurrencyAPI"})
	m.RefreshCompleted(rate.RefreshSummary{Duration: 2 * time.Second, Failed: []rate.PairFailure{{}, {}}})

	require.Equal(t, 2.0, testutil.ToFloat64(m.ResolutionsTotal.WithLabelValues("cache")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ResolutionsTotal.WithLabelValues("stale_store")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.UnavailableTotal))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ProviderFailuresTotal.WithLabelValues("Fixer.io")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.PersistFailuresTotal))
	require.Equal(t, 1.0, testutil.ToFloat64(m.RatesUpdatedTotal.WithLabelValues("CurrencyAPI")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.RefreshFailedPairs))
	require.Equal(t, 1, testutil.CollectAndCount(m.RefreshDuration))
}

func TestRateMetrics_Middleware_UsesRoutePattern(t *testing.T) {
	m := NewRateMetrics(prometheus.NewRegistry())

	router := chi.NewRouter()
	router.Use(m.Middleware)
	router.Get("/api/v1/rates/{from}/{to}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	for range 2 {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/rates/USD/AED", nil))
		require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	}

	require.Equal(t, 2.0, testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues("/api/v1/rates/{from}/{to}", http.MethodGet, "503")))
}

func TestNewRateMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRateMetrics(reg)
	require.Panics(t, func() { NewRateMetrics(reg) })
}
