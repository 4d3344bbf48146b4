package geocoding

import (
	"context"
	"errors"
	"net/http"

	"github.com/UnknownOlympus/nivaran/internal/models"
)

// SuggestProvider is an interface that defines a method for address autocompletion.
// The Suggest method takes a context, a partial address and a country restriction,
// and returns candidate place descriptions ordered by the provider's relevance.
type SuggestProvider interface {
	Suggest(ctx context.Context, query, country string) ([]string, error)
}

// ReverseProvider is an interface that defines a method for reverse geocoding.
// The ReverseGeocode method takes a context and a coordinate pair as input,
// and returns the formatted address of the first result and an error if any occurs.
type ReverseProvider interface {
	ReverseGeocode(ctx context.Context, coords models.Coordinates) (string, error)
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ErrEmptyResponse is returned when a provider answers successfully but without any result.
// Provider specific errors wrap it, so callers can match it with errors.Is.
var ErrEmptyResponse = errors.New("geocoding provider returned empty response")
