package handler

import (
	"net/http"
)

type CacheStatsResponse struct {
	Total                int     `json:"total"`
	Valid                int     `json:"valid"`
	Expired              int     `json:"expired"`
	CacheDurationMinutes float64 `json:"cache_duration_minutes" example:"60"`
}

type EvictResponse struct {
	Removed int `json:"removed"`
}

// GetCacheStats godoc
// @Summary Cache statistics
// @Description Count cached rates by freshness
// @Tags Cache
// @Produce json
// @Success 200 {object} CacheStatsResponse
// @Router /rates/cache/stats [get]
func (h *Handler) GetCacheStats(w http.ResponseWriter, _ *http.Request) {
	stats := h.resolver.CacheStats()
	writeJSON(w, http.StatusOK, CacheStatsResponse{
		Total:                stats.Total,
		Valid:                stats.Valid,
		Expired:              stats.Expired,
		CacheDurationMinutes: stats.CacheDuration.Minutes(),
	})
}

// EvictExpired godoc
// @Summary Evict expired cache entries
// @Tags Cache
// @Produce json
// @Success 200 {object} EvictResponse
// @Router /rates/cache/evict [post]
func (h *Handler) EvictExpired(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, EvictResponse{Removed: h.resolver.EvictExpired()})
}
