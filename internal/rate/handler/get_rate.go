package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"fxresolver/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type GetRateResponse struct {
	From      string    `json:"from" example:"USD"`
	To        string    `json:"to" example:"AED"`
	Rate      float64   `json:"rate" example:"3.6725"`
	Tier      string    `json:"tier" example:"cache"`
	Source    string    `json:"source,omitempty" example:"Fixer.io"`
	Timestamp time.Time `json:"timestamp"`
}

// GetRate godoc
// @Summary Get exchange rate
// @Description Resolve the from->to rate through cache, store and providers, falling back to the last known value
// @Tags Rates
// @Produce json
// @Param from path string true "Base currency code" example(USD)
// @Param to path string true "Quote currency code" example(AED)
// @Success 200 {object} GetRateResponse
// @Failure 400 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /rates/{from}/{to} [get]
func (h *Handler) GetRate(w http.ResponseWriter, r *http.Request) {
	from := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "from")))
	to := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "to")))

	if err := h.validator.ValidateCodes(from, to); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q, err := h.resolver.ResolveDetailed(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, domain.ErrRateUnavailable) {
			writeError(w, http.StatusServiceUnavailable, msgRateUnavailable)
			return
		}
		msg := "ups, couldn't get rate this time"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetRate", "from": from, "to": to}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	writeJSON(w, http.StatusOK, GetRateResponse{
		From:      from,
		To:        to,
		Rate:      q.Rate,
		Tier:      string(q.Tier),
		Source:    q.Source,
		Timestamp: q.AsOf,
	})
}
