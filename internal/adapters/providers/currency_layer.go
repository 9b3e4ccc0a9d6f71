package providers

import (
	"context"
	"net/http"
	"net/url"

	"fxresolver/internal/domain"
)

// CurrencyLayer quotes from apilayer.net. Quotes are keyed by the concatenated
// pair, e.g. "USDAED".
type CurrencyLayer struct {
	client
}

type currencyLayerResponse struct {
	Success bool               `json:"success"`
	Source  string             `json:"source"`
	Quotes  map[string]float64 `json:"quotes"`
	Error   *apiLayerError     `json:"error"`
}

func (p *CurrencyLayer) FetchRate(ctx context.Context, pair domain.RatePair) (float64, error) {
	query := url.Values{}
	query.Set("access_key", p.apiKey)
	query.Set("source", pair.Base)
	query.Set("currencies", pair.Quote)
	query.Set("format", "1")

	var body currencyLayerResponse
	if err := p.getJSON(ctx, pair, "/live", query, &body); err != nil {
		return 0, err
	}

	if body.Error != nil {
		return 0, p.apiError(pair, body.Error.String())
	}

	rate, ok := body.Quotes[pair.Base+pair.Quote]
	if !body.Success || !ok {
		return 0, p.missingRate(pair)
	}
	return rate, nil
}

func NewCurrencyLayer(httpClient *http.Client, name, baseURL, apiKey string) *CurrencyLayer {
	return &CurrencyLayer{client{http: httpClient, name: name, baseURL: baseURL, apiKey: apiKey}}
}
