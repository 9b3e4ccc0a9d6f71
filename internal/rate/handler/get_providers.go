package handler

import (
	"net/http"

	"fxresolver/internal/rate"
)

type GetProvidersResponse struct {
	Providers []rate.ProviderStatus `json:"providers"`
}

// GetProviders godoc
// @Summary List rate providers
// @Description Providers in priority order and whether each has credentials
// @Tags Rates
// @Produce json
// @Success 200 {object} GetProvidersResponse
// @Router /rates/providers [get]
func (h *Handler) GetProviders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, GetProvidersResponse{Providers: h.resolver.Providers()})
}
