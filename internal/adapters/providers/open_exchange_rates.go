package providers

import (
	"context"
	"net/http"
	"net/url"

	"fxresolver/internal/domain"
)

// OpenExchangeRates quotes from openexchangerates.org.
type OpenExchangeRates struct {
	client
}

type openExchangeRatesResponse struct {
	Base        string             `json:"base"`
	Rates       map[string]float64 `json:"rates"`
	Error       bool               `json:"error"`
	Message     string             `json:"message"`
	Description string             `json:"description"`
}

func (p *OpenExchangeRates) FetchRate(ctx context.Context, pair domain.RatePair) (float64, error) {
	query := url.Values{}
	query.Set("app_id", p.apiKey)
	query.Set("base", pair.Base)
	query.Set("symbols", pair.Quote)

	var body openExchangeRatesResponse
	if err := p.getJSON(ctx, pair, "/latest.json", query, &body); err != nil {
		return 0, err
	}

	if body.Error {
		detail := body.Description
		if detail == "" {
			detail = body.Message
		}
		return 0, p.apiError(pair, detail)
	}

	rate, ok := body.Rates[pair.Quote]
	if !ok {
		return 0, p.missingRate(pair)
	}
	return rate, nil
}

func NewOpenExchangeRates(httpClient *http.Client, name, baseURL, apiKey string) *OpenExchangeRates {
	return &OpenExchangeRates{client{http: httpClient, name: name, baseURL: baseURL, apiKey: apiKey}}
}
