package providers

import (
	"net/http"

	"fxresolver/internal/adapters"
	"fxresolver/internal/config"
)

// FromConfig builds the provider chain in priority order: ExchangeRate-API, Fixer,
// CurrencyAPI, Open Exchange Rates, Currency Layer. A provider without an API key
// is left out of the chain and its name is returned in unconfigured. The demo
// table goes last when demoFallback is set.
func FromConfig(cfg config.Providers, httpClient *http.Client, demoFallback bool) (chain []adapters.RateProvider, unconfigured []string) {
	type entry struct {
		cfg   config.Provider
		build func(*http.Client, string, string, string) adapters.RateProvider
	}

	entries := []entry{
		{cfg.ExchangeRateAPI, func(c *http.Client, n, u, k string) adapters.RateProvider { return NewExchangeRateAPI(c, n, u, k) }},
		{cfg.Fixer, func(c *http.Client, n, u, k string) adapters.RateProvider { return NewFixer(c, n, u, k) }},
		{cfg.CurrencyAPI, func(c *http.Client, n, u, k string) adapters.RateProvider { return NewCurrencyAPI(c, n, u, k) }},
		{cfg.OpenExchangeRates, func(c *http.Client, n, u, k string) adapters.RateProvider { return NewOpenExchangeRates(c, n, u, k) }},
		{cfg.CurrencyLayer, func(c *http.Client, n, u, k string) adapters.RateProvider { return NewCurrencyLayer(c, n, u, k) }},
	}

	for _, e := range entries {
		if !e.cfg.Configured() {
			unconfigured = append(unconfigured, e.cfg.Name)
			continue
		}
		chain = append(chain, e.build(httpClient, e.cfg.Name, e.cfg.BaseURL, e.cfg.APIKey))
	}

	if demoFallback {
		chain = append(chain, NewStatic())
	}
	return chain, unconfigured
}
