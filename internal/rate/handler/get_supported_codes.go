package handler

import (
	"net/http"
)

type GetSupportedCodesResponse struct {
	Codes []string `json:"codes" example:"AED,EUR,USD"`
}

// GetSupportedCodes godoc
// @Summary List supported currencies
// @Description Retrieve all supported currency codes for FX requests
// @Tags Rates
// @Produce json
// @Success 200 {object} GetSupportedCodesResponse
// @Router /rates/supported-currencies [get]
func (h *Handler) GetSupportedCodes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, GetSupportedCodesResponse{
		Codes: h.validator.SupportedCodes(),
	})
}
