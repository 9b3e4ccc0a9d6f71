package api

import (
	_ "fxresolver/docs"
	"fxresolver/internal/metrics"
	"fxresolver/internal/rate/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swagger "github.com/swaggo/http-swagger"
)

// NewRouter mounts the rate API. When m is non-nil, requests are measured and
// gatherer is served on /metrics.
func NewRouter(rateHandler *handler.Handler, m *metrics.RateMetrics, gatherer prometheus.Gatherer) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	if m != nil {
		router.Use(m.Middleware)
	}
	router.Use(middleware.Heartbeat("/healthz"))

	if m != nil {
		router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/convert", rateHandler.Convert)
		r.Get("/rates", rateHandler.GetRatesFrom)
		r.Post("/rates/refresh", rateHandler.Refresh)
		r.Get("/rates/cache/stats", rateHandler.GetCacheStats)
		r.Post("/rates/cache/evict", rateHandler.EvictExpired)
		r.Get("/rates/providers", rateHandler.GetProviders)
		r.Get("/rates/supported-currencies", rateHandler.GetSupportedCodes)
		r.Get("/rates/{from:[A-Za-z]{3}}/{to:[A-Za-z]{3}}", rateHandler.GetRate)
	})
	return router
}
