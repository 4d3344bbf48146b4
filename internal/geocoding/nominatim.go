package geocoding

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/nivaran/internal/models"
	"golang.org/x/time/rate"
)

// NominatimBaseURL is the public OpenStreetMap Nominatim endpoint.
const NominatimBaseURL = "https://nominatim.openstreetmap.org"

// nominatimUserAgent MUST include valid contact info per Nominatim usage policy:
// https://operations.osmfoundation.org/policies/nominatim/
const nominatimUserAgent = "Nivaran-Locator/1.0 (https://github.com/UnknownOlympus/nivaran)"

// NominatimProvider implements SuggestProvider and ReverseProvider using OpenStreetMap's Nominatim API.
// This is a free service with usage limits (1 request/second for fair use).
type NominatimProvider struct {
	client    HTTPClient    // HTTP client for making requests
	baseURL   string        // Base URL for the Nominatim API
	log       *slog.Logger  // Logger for logging operations
	limiter   *rate.Limiter // Rate limiter shared by search and reverse calls
	userAgent string
	limit     int // Maximum number of suggestions per search
}

// nominatimPlace represents a single place in a Nominatim search or reverse response.
type nominatimPlace struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"` // set by /reverse when nothing was found
}

// ErrNominatimEmptyResponse is returned when Nominatim finds nothing for the coordinates.
var ErrNominatimEmptyResponse = fmt.Errorf("nominatim: %w", ErrEmptyResponse)

// NewNominatimProvider creates a new Nominatim provider with the public endpoint.
func NewNominatimProvider(rateLimit int, log *slog.Logger) *NominatimProvider {
	const timeout = 10
	if rateLimit <= 0 {
		rateLimit = 1
	}

	return NewNominatimProviderWithClient(
		&http.Client{Timeout: timeout * time.Second},
		rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
		log,
	)
}

// NewNominatimProviderWithClient creates a Nominatim provider with a custom HTTP client.
// Useful for testing with mocked HTTP clients.
func NewNominatimProviderWithClient(client HTTPClient, limiter *rate.Limiter, log *slog.Logger) *NominatimProvider {
	const suggestionLimit = 5
	return &NominatimProvider{
		client:    client,
		baseURL:   NominatimBaseURL,
		log:       log,
		limiter:   limiter,
		userAgent: nominatimUserAgent,
		limit:     suggestionLimit,
	}
}

// Suggest searches Nominatim for places matching the partial address.
// An empty result is not an error for autocompletion.
func (np *NominatimProvider) Suggest(ctx context.Context, query, country string) ([]string, error) {
	np.log.DebugContext(ctx, "Autocompleting using Nominatim", "query", query, "country", country)

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(np.limit))
	params.Set("accept-language", "en")
	if country != "" {
		params.Set("countrycodes", strings.ToLower(country))
	}

	var places []nominatimPlace
	if err := fetchJSON(ctx, np.client, np.log, np.request("/search", params), &places); err != nil {
		return nil, err
	}

	suggestions := make([]string, 0, len(places))
	for _, place := range places {
		if name := strings.TrimSpace(place.DisplayName); name != "" {
			suggestions = append(suggestions, name)
		}
	}

	return suggestions, nil
}

// ReverseGeocode converts coordinates to the display name of the nearest Nominatim place.
func (np *NominatimProvider) ReverseGeocode(ctx context.Context, coords models.Coordinates) (string, error) {
	np.log.DebugContext(ctx, "Reverse geocoding using Nominatim", "lat", coords.Latitude, "lon", coords.Longitude)

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	params.Set("format", "json")
	params.Set("zoom", "18")
	params.Set("accept-language", "en")

	var place nominatimPlace
	if err := fetchJSON(ctx, np.client, np.log, np.request("/reverse", params), &place); err != nil {
		return "", err
	}

	if place.Error != "" || strings.TrimSpace(place.DisplayName) == "" {
		np.log.DebugContext(ctx, "Nominatim found no place", "reason", place.Error)
		return "", ErrNominatimEmptyResponse
	}

	return strings.TrimSpace(place.DisplayName), nil
}

func (np *NominatimProvider) request(path string, params url.Values) jsonRequest {
	return jsonRequest{
		provider: "nominatim",
		baseURL:  np.baseURL + path,
		query:    params,
		headers:  http.Header{"User-Agent": {np.userAgent}},
		limiter:  np.limiter,
	}
}
