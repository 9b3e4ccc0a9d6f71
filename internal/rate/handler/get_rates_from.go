package handler

import (
	"net/http"
	"slices"
	"strings"

	"fxresolver/internal/domain"
)

type GetRatesFromResponse struct {
	Base  string             `json:"base" example:"USD"`
	Rates map[string]float64 `json:"rates"`
}

// GetRatesFrom godoc
// @Summary Get rates from a base currency
// @Description Resolve base->quote for each supported currency (or the listed quotes). Quotes that cannot be priced are omitted
// @Tags Rates
// @Produce json
// @Param base query string true "Base currency code" example(USD)
// @Param quotes query string false "Comma separated quote codes" example(AED,SAR)
// @Success 200 {object} GetRatesFromResponse
// @Failure 400 {object} errorResponse
// @Router /rates [get]
func (h *Handler) GetRatesFrom(w http.ResponseWriter, r *http.Request) {
	base := domain.NormalizeCode(r.URL.Query().Get("base"))
	if err := h.validator.ValidateCodes(base, base); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	quotes := h.validator.SupportedCodes()
	if raw := r.URL.Query().Get("quotes"); raw != "" {
		quotes = make([]string, 0)
		for _, code := range strings.Split(raw, ",") {
			code = domain.NormalizeCode(code)
			if err := h.validator.ValidateCodes(base, code); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			quotes = append(quotes, code)
		}
	}
	quotes = slices.DeleteFunc(quotes, func(code string) bool { return code == base })

	writeJSON(w, http.StatusOK, GetRatesFromResponse{
		Base:  base,
		Rates: h.resolver.RatesFrom(r.Context(), base, quotes),
	})
}
