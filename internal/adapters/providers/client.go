package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"fxresolver/internal/domain"
)

// client holds what every quoting API needs: a name for logs and status, the
// base URL and an API key. Concrete providers embed it.
type client struct {
	http    *http.Client
	name    string
	baseURL string
	apiKey  string
}

func (c *client) Name() string { return c.name }

// getJSON issues GET {baseURL}{path}?{query} and decodes the body into out.
// Transport, status and decoding failures all wrap domain.ErrProviderUnavailable.
func (c *client) getJSON(ctx context.Context, pair domain.RatePair, path string, query url.Values, out any) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("failed to parse base URL: %w", err)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", pair, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error carries the full URL, which holds the API key.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = c.baseURL
		}
		return fmt.Errorf("%w: failed to execute request for %s: %w", domain.ErrProviderUnavailable, pair, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: unexpected status code %d for %s: %s", domain.ErrProviderUnavailable, resp.StatusCode, pair, resp.Status)
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response for %s: %w", domain.ErrProviderUnavailable, pair, err)
	}
	return nil
}

func (c *client) missingRate(pair domain.RatePair) error {
	return fmt.Errorf("%w: %s response has no rate for %s", domain.ErrProviderUnavailable, c.name, pair)
}

func (c *client) apiError(pair domain.RatePair, detail string) error {
	return fmt.Errorf("%w: %s api error for %s: %s", domain.ErrProviderUnavailable, c.name, pair, detail)
}

// apiLayerError is the error object shared by Fixer and Currency Layer.
type apiLayerError struct {
	Code int    `json:"code"`
	Type string `json:"type"`
	Info string `json:"info"`
}

func (e *apiLayerError) String() string {
	if e.Info != "" {
		return e.Info
	}
	return fmt.Sprintf("code %d", e.Code)
}
