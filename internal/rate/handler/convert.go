package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"fxresolver/internal/domain"

	"github.com/sirupsen/logrus"
)

type ConvertResponse struct {
	Amount    float64 `json:"amount" example:"100"`
	From      string  `json:"from" example:"USD"`
	To        string  `json:"to" example:"AED"`
	Rate      float64 `json:"rate" example:"3.6725"`
	Converted float64 `json:"converted" example:"367.25"`
	Tier      string  `json:"tier" example:"cache"`
}

// Convert godoc
// @Summary Convert an amount
// @Description Multiply amount by the resolved from->to rate
// @Tags Rates
// @Produce json
// @Param amount query number true "Amount in the base currency" example(100)
// @Param from query string true "Base currency code" example(USD)
// @Param to query string true "Quote currency code" example(AED)
// @Success 200 {object} ConvertResponse
// @Failure 400 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /convert [get]
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from := domain.NormalizeCode(query.Get("from"))
	to := domain.NormalizeCode(query.Get("to"))

	amount, err := strconv.ParseFloat(query.Get("amount"), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		writeError(w, http.StatusBadRequest, "amount must be a non-negative number")
		return
	}

	if err = h.validator.ValidateCodes(from, to); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q, err := h.resolver.ResolveDetailed(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, domain.ErrRateUnavailable) {
			writeError(w, http.StatusServiceUnavailable, msgRateUnavailable)
			return
		}
		msg := "ups, couldn't convert this time"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "Convert", "from": from, "to": to}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	writeJSON(w, http.StatusOK, ConvertResponse{
		Amount:    amount,
		From:      from,
		To:        to,
		Rate:      q.Rate,
		Converted: amount * q.Rate,
		Tier:      string(q.Tier),
	})
}
