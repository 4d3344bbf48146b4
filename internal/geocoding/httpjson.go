package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"
)

// ErrUnauthorized is returned when a provider rejects the configured API key.
var ErrUnauthorized = errors.New("geocoding provider unauthorized (invalid API key)")

// jsonRequest describes a single GET call to a JSON API.
type jsonRequest struct {
	provider string        // provider name used in errors and logs
	baseURL  string        // endpoint without query
	query    url.Values    // query parameters
	headers  http.Header   // extra request headers
	limiter  *rate.Limiter // optional rate limiter
}

// fetchJSON performs the request and decodes the body into out.
// Non-200 statuses are turned into errors carrying the response body.
func fetchJSON(ctx context.Context, client HTTPClient, log *slog.Logger, jr jsonRequest, out any) error {
	if jr.limiter != nil {
		if err := jr.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit exceeded: %w", err)
		}
	}

	reqURL, err := url.Parse(jr.baseURL)
	if err != nil {
		return fmt.Errorf("failed to parse base URL: %w", err)
	}
	reqURL.RawQuery = jr.query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for key, values := range jr.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute %s request: %w", jr.provider, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// continue
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w", jr.provider, ErrUnauthorized)
	default:
		const maxErrorBody = 2048
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.ErrorContext(ctx, "Provider API error", "provider", jr.provider, "status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("%s API returned status %d: %s", jr.provider, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	log.DebugContext(ctx, "Provider raw response", "provider", jr.provider, "body", string(body))

	if err = json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", jr.provider, err)
	}

	return nil
}

// FetchJSON performs a GET request against baseURL with the given query and decodes
// the JSON body into out. It shares status handling with the geocoding providers.
func FetchJSON(
	ctx context.Context,
	client HTTPClient,
	log *slog.Logger,
	provider, baseURL string,
	query url.Values,
	out any,
) error {
	return fetchJSON(ctx, client, log, jsonRequest{provider: provider, baseURL: baseURL, query: query}, out)
}
