package metrics

import (
	"net/http"
	"strconv"
	"time"

	"fxresolver/internal/domain"
	"fxresolver/internal/rate"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RateMetrics exports resolver events and HTTP traffic to prometheus. It is a
// rate.Observer.
type RateMetrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ResolutionsTotal      *prometheus.CounterVec
	UnavailableTotal      prometheus.Counter
	ProviderFailuresTotal *prometheus.CounterVec
	PersistFailuresTotal  prometheus.Counter
	RatesUpdatedTotal     *prometheus.CounterVec
	RefreshDuration       prometheus.Histogram
	RefreshFailedPairs    prometheus.Counter
}

func (m *RateMetrics) Resolved(q rate.Quote) {
	m.ResolutionsTotal.WithLabelValues(string(q.Tier)).Inc()
}

func (m *RateMetrics) ResolveFailed(domain.RatePair, error) {
	m.UnavailableTotal.Inc()
}

func (m *RateMetrics) ProviderFailed(provider string, _ domain.RatePair, _ error) {
	m.ProviderFailuresTotal.WithLabelValues(provider).Inc()
}

func (m *RateMetrics) PersistFailed(domain.RatePair, error) {
	m.PersistFailuresTotal.Inc()
}

func (m *RateMetrics) RateUpdated(record domain.RateRecord) {
	m.RatesUpdatedTotal.WithLabelValues(record.Source).Inc()
}

func (m *RateMetrics) RefreshCompleted(summary rate.RefreshSummary) {
	m.RefreshDuration.Observe(summary.Duration.Seconds())
	m.RefreshFailedPairs.Add(float64(len(summary.Failed)))
}

// Middleware records request count and latency per chi route pattern.
func (m *RateMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.HTTPRequestsTotal.WithLabelValues(path, r.Method, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
	})
}

// NewRateMetrics registers every collector with reg.
func NewRateMetrics(reg prometheus.Registerer) *RateMetrics {
	factory := promauto.With(reg)
	return &RateMetrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		ResolutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_resolutions_total",
				Help: "Resolved rates by the tier that answered",
			},
			[]string{"tier"},
		),

		UnavailableTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "rate_unavailable_total",
				Help: "Resolutions that exhausted every tier",
			},
		),

		ProviderFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_provider_failures_total",
				Help: "Failed calls to external rate providers",
			},
			[]string{"provider"},
		),

		PersistFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "rate_store_failures_total",
				Help: "Failed rate store reads and writes",
			},
		),

		RatesUpdatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_updates_total",
				Help: "Rates fetched from providers, by provider",
			},
			[]string{"provider"},
		),

		RefreshDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rate_refresh_duration_seconds",
				Help:    "Duration of full rate refresh runs",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
		),

		RefreshFailedPairs: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "rate_refresh_failed_pairs_total",
				Help: "Pairs that failed during full rate refresh runs",
			},
		),
	}
}
