package geocoding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/nivaran/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider is a struct that holds the client for Google Maps API
// and a logger for logging purposes. It serves both place autocompletion
// and reverse geocoding.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

// GoogleAPIClient is the subset of *maps.Client used by GoogleProvider.
type GoogleAPIClient interface {
	PlaceAutocomplete(ctx context.Context, r *maps.PlaceAutocompleteRequest) (maps.AutocompleteResponse, error)
	ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// NewGoogleProvider initializes a new GoogleProvider with the given Google Maps client and logger.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Suggest returns the descriptions of the place predictions for a partial address,
// restricted to the given country when one is set. Predictions keep Google's order.
func (gp *GoogleProvider) Suggest(ctx context.Context, query, country string) ([]string, error) {
	gp.log.DebugContext(ctx, "Autocompleting using Google Places", "query", query, "country", country)

	req := maps.PlaceAutocompleteRequest{Input: query}
	if country != "" {
		req.Components = map[maps.Component][]string{maps.ComponentCountry: {country}}
	}

	resp, err := gp.client.PlaceAutocomplete(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch place predictions: %w", err)
	}

	suggestions := make([]string, 0, len(resp.Predictions))
	for _, prediction := range resp.Predictions {
		if prediction.Description == "" {
			continue
		}
		suggestions = append(suggestions, prediction.Description)
	}

	return suggestions, nil
}

// ReverseGeocode takes a context and coordinates as input, and returns the formatted address
// of the first result of the Google Maps Geocoding API.
// If the response is empty, it returns ErrEmptyResponse.
func (gp *GoogleProvider) ReverseGeocode(ctx context.Context, coords models.Coordinates) (string, error) {
	gp.log.DebugContext(ctx, "Reverse geocoding using Google Maps", "lat", coords.Latitude, "lon", coords.Longitude)

	req := maps.GeocodingRequest{LatLng: &maps.LatLng{Lat: coords.Latitude, Lng: coords.Longitude}}
	results, err := gp.client.ReverseGeocode(ctx, &req)
	if err != nil {
		return "", fmt.Errorf("failed to reverse geocode coordinates: %w", err)
	}

	if len(results) == 0 || results[0].FormattedAddress == "" {
		return "", ErrEmptyResponse
	}

	return results[0].FormattedAddress, nil
}
