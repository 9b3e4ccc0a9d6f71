package providers

import (
	"context"
	"net/http"
	"net/url"

	"fxresolver/internal/domain"
)

// ExchangeRateAPI quotes from exchangerate-api.com (v6).
type ExchangeRateAPI struct {
	client
}

type exchangeRateAPIResponse struct {
	Result          string             `json:"result"`
	ErrorType       string             `json:"error-type"`
	BaseCode        string             `json:"base_code"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

func (p *ExchangeRateAPI) FetchRate(ctx context.Context, pair domain.RatePair) (float64, error) {
	path := "/" + url.PathEscape(p.apiKey) + "/latest/" + url.PathEscape(pair.Base)

	var body exchangeRateAPIResponse
	if err := p.getJSON(ctx, pair, path, nil, &body); err != nil {
		return 0, err
	}

	if body.Result != "success" {
		detail := body.Result
		if body.ErrorType != "" {
			detail = body.ErrorType
		}
		return 0, p.apiError(pair, detail)
	}

	rate, ok := body.ConversionRates[pair.Quote]
	if !ok {
		return 0, p.missingRate(pair)
	}
	return rate, nil
}

func NewExchangeRateAPI(httpClient *http.Client, name, baseURL, apiKey string) *ExchangeRateAPI {
	return &ExchangeRateAPI{client{http: httpClient, name: name, baseURL: baseURL, apiKey: apiKey}}
}
