package providers

import (
	"context"
	"net/http"
	"net/url"

	"fxresolver/internal/domain"
)

// Fixer quotes from data.fixer.io.
type Fixer struct {
	client
}

type fixerResponse struct {
	Success bool               `json:"success"`
	Base    string             `json:"base"`
	Rates   map[string]float64 `json:"rates"`
	Error   *apiLayerError     `json:"error"`
}

func (p *Fixer) FetchRate(ctx context.Context, pair domain.RatePair) (float64, error) {
	query := url.Values{}
	query.Set("access_key", p.apiKey)
	query.Set("base", pair.Base)
	query.Set("symbols", pair.Quote)

	var body fixerResponse
	if err := p.getJSON(ctx, pair, "/latest", query, &body); err != nil {
		return 0, err
	}

	if body.Error != nil {
		return 0, p.apiError(pair, body.Error.String())
	}

	rate, ok := body.Rates[pair.Quote]
	if !body.Success || !ok {
		return 0, p.missingRate(pair)
	}
	return rate, nil
}

func NewFixer(httpClient *http.Client, name, baseURL, apiKey string) *Fixer {
	return &Fixer{client{http: httpClient, name: name, baseURL: baseURL, apiKey: apiKey}}
}
