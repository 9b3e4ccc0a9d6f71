package providers

import (
	"context"
	"fmt"

	"fxresolver/internal/domain"
)

// StaticName is reported as the source of demo rates.
const StaticName = "Demo rates"

var demoRates = map[string]map[string]float64{
	"USD": {
		"EUR": 0.85, "GBP": 0.73, "JPY": 110.0, "CAD": 1.25, "AUD": 1.35,
		"AED": 3.67, "SAR": 3.75, "KWD": 0.30, "BHD": 0.38, "QAR": 3.64, "OMR": 0.38,
	},
	"EUR": {"USD": 1.18, "GBP": 0.86, "JPY": 129.4, "AED": 4.32, "SAR": 4.41},
	"GBP": {"USD": 1.37, "EUR": 1.16, "JPY": 150.7, "AED": 5.03, "SAR": 5.14},
}

var gulfCurrencies = map[string]struct{}{
	"AED": {}, "SAR": {}, "KWD": {}, "BHD": {}, "QAR": {}, "OMR": {},
}

// Static serves a fixed demo table. Gulf targets missing from the table are
// crossed through USD, since those currencies are pegged to it. Any other
// unknown pair is an error so the resolver can still fall through to stale data.
type Static struct{}

func (Static) Name() string { return StaticName }

func (s Static) FetchRate(_ context.Context, pair domain.RatePair) (float64, error) {
	rate, ok := s.lookup(pair.Base, pair.Quote)
	if !ok {
		return 0, fmt.Errorf("%w: no demo rate for %s", domain.ErrProviderUnavailable, pair)
	}
	return rate, nil
}

func (s Static) lookup(from, to string) (float64, bool) {
	if from == to {
		return 1, true
	}
	if rate, ok := demoRates[from][to]; ok {
		return rate, true
	}
	if _, gulf := gulfCurrencies[to]; !gulf || from == "USD" {
		return 0, false
	}

	toUSD, ok := s.lookup(from, "USD")
	if !ok {
		return 0, false
	}
	fromUSD, ok := s.lookup("USD", to)
	if !ok {
		return 0, false
	}
	return toUSD * fromUSD, true
}

func NewStatic() Static {
	return Static{}
}
