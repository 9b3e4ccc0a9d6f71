package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"fxresolver/internal/domain"
)

// CurrencyAPI quotes from api.currencyapi.com (v3).
type CurrencyAPI struct {
	client
}

type currencyAPIValue struct {
	Code  string  `json:"code"`
	Value float64 `json:"value"`
}

type currencyAPIResponse struct {
	Data    map[string]currencyAPIValue `json:"data"`
	Message string                      `json:"message"`
	Errors  json.RawMessage             `json:"errors"`
}

func (p *CurrencyAPI) FetchRate(ctx context.Context, pair domain.RatePair) (float64, error) {
	query := url.Values{}
	query.Set("apikey", p.apiKey)
	query.Set("base_currency", pair.Base)
	query.Set("currencies", pair.Quote)

	var body currencyAPIResponse
	if err := p.getJSON(ctx, pair, "/latest", query, &body); err != nil {
		return 0, err
	}

	if v, ok := body.Data[pair.Quote]; ok {
		return v.Value, nil
	}

	if len(body.Errors) > 0 && string(body.Errors) != "null" {
		return 0, p.apiError(pair, string(body.Errors))
	}
	if body.Message != "" {
		return 0, p.apiError(pair, body.Message)
	}
	return 0, p.missingRate(pair)
}

func NewCurrencyAPI(httpClient *http.Client, name, baseURL, apiKey string) *CurrencyAPI {
	return &CurrencyAPI{client{http: httpClient, name: name, baseURL: baseURL, apiKey: apiKey}}
}
