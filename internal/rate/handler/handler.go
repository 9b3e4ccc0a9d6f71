package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"fxresolver/internal/domain"
	"fxresolver/internal/rate"
)

const msgRateUnavailable = "temporarily unable to price in this currency"

type Validator interface {
	ValidateCodes(base, quote string) error
	SupportedCodes() []string
}

// Resolver is the slice of rate.Resolver the HTTP layer uses.
type Resolver interface {
	ResolveDetailed(ctx context.Context, from, to string) (rate.Quote, error)
	RatesFrom(ctx context.Context, base string, quotes []string) map[string]float64
	RefreshAll(ctx context.Context, currencies []string) rate.RefreshSummary
	CacheStats() domain.CacheStats
	EvictExpired() int
	Providers() []rate.ProviderStatus
}

type Handler struct {
	validator Validator
	resolver  Resolver
}

func NewRateHandler(validator Validator, resolver Resolver) *Handler {
	return &Handler{validator: validator, resolver: resolver}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	writeJSON(w, statusCode, errorResponse{
		Error: errorMsg,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
