package handler

import (
	"net/http"

	"fxresolver/internal/rate"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type RefreshResponse struct {
	ExecID     string `json:"exec_id"`
	DurationMs int64  `json:"duration_ms" example:"1500"`
	rate.RefreshSummary
}

// Refresh godoc
// @Summary Refresh all rates
// @Description Force a provider fetch for every ordered pair of supported currencies. Per-pair failures are reported, not fatal
// @Tags Rates
// @Produce json
// @Success 200 {object} RefreshResponse
// @Router /rates/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	execID := uuid.NewString()
	logrus.WithField("exec_id", execID).Info("Manual rate refresh requested")

	summary := h.resolver.RefreshAll(r.Context(), h.validator.SupportedCodes())

	writeJSON(w, http.StatusOK, RefreshResponse{
		ExecID:         execID,
		RefreshSummary: summary,
		DurationMs:     summary.Duration.Milliseconds(),
	})
}
