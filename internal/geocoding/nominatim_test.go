package geocoding_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/UnknownOlympus/nivaran/internal/geocoding"
	"github.com/UnknownOlympus/nivaran/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// mockHTTPClient is a mock implementation of HTTPClient for testing.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func TestNominatimProvider_Suggest(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("successful search", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				// Verify request parameters
				assert.Equal(t, "GET", req.Method)
				assert.Equal(t, "/search", req.URL.Path)
				assert.Contains(t, req.URL.String(), "nominatim.openstreetmap.org")
				assert.Equal(t, "Bandra", req.URL.Query().Get("q"))
				assert.Equal(t, "json", req.URL.Query().Get("format"))
				assert.Equal(t, "5", req.URL.Query().Get("limit"))
				assert.Equal(t, "in", req.URL.Query().Get("countrycodes"))
				assert.Equal(
					t,
					"Nivaran-Locator/1.0 (https://github.com/UnknownOlympus/nivaran)",
					req.Header.Get("User-Agent"),
				)

				responseBody := `[
					{"display_name":"Bandra West, Mumbai, Maharashtra, India"},
					{"display_name":"  "},
					{"display_name":"Bandra East, Mumbai, Maharashtra, India"}
				]`
				return jsonResponse(http.StatusOK, responseBody), nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, nil, logger)
		suggestions, err := provider.Suggest(ctx, "Bandra", "IN")

		require.NoError(t, err)
		assert.Equal(t, []string{
			"Bandra West, Mumbai, Maharashtra, India",
			"Bandra East, Mumbai, Maharashtra, India",
		}, suggestions)
	})

	t.Run("no country restriction", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.False(t, req.URL.Query().Has("countrycodes"))
				return jsonResponse(http.StatusOK, `[]`), nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, nil, logger)
		suggestions, err := provider.Suggest(ctx, "Kathmandu", "")

		require.NoError(t, err)
		assert.Empty(t, suggestions)
	})

	t.Run("HTTP request fails", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return nil, errors.New("network error")
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, nil, logger)
		_, err := provider.Suggest(ctx, "Bandra", "in")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to execute nominatim request")
	})

	t.Run("API returns non-200 status", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusTooManyRequests, "Too Many Requests"), nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, nil, logger)
		_, err := provider.Suggest(ctx, "Bandra", "in")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "nominatim API returned status 429")
	})

	t.Run("invalid JSON response", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `invalid json`), nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, nil, logger)
		_, err := provider.Suggest(ctx, "Bandra", "in")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode nominatim response")
	})

	t.Run("forbidden", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusForbidden, ""), nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, nil, logger)
		_, err := provider.Suggest(ctx, "Bandra", "in")

		require.ErrorIs(t, err, geocoding.ErrUnauthorized)
	})
}

func TestNominatimProvider_ReverseGeocode(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	coords := models.Coordinates{Latitude: 19.076, Longitude: 72.8777}

	t.Run("successful reverse geocoding", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, "/reverse", req.URL.Path)
				assert.Equal(t, "19.076", req.URL.Query().Get("lat"))
				assert.Equal(t, "72.8777", req.URL.Query().Get("lon"))
				assert.Equal(t, "18", req.URL.Query().Get("zoom"))
				assert.NotEmpty(t, req.Header.Get("User-Agent"))

				return jsonResponse(http.StatusOK, `{"display_name":"Bandra West, Mumbai, Maharashtra, India"}`), nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, nil, logger)
		address, err := provider.ReverseGeocode(ctx, coords)

		require.NoError(t, err)
		assert.Equal(t, "Bandra West, Mumbai, Maharashtra, India", address)
	})

	t.Run("nothing found", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"error":"Unable to geocode"}`), nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, nil, logger)
		address, err := provider.ReverseGeocode(ctx, models.Coordinates{Latitude: 0, Longitude: -160})

		require.ErrorIs(t, err, geocoding.ErrNominatimEmptyResponse)
		require.ErrorIs(t, err, geocoding.ErrEmptyResponse)
		assert.Empty(t, address)
	})

	t.Run("rate limiter honours cancellation", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				t.Fatal("request must not be sent")
				return nil, nil
			},
		}
		limiter := rate.NewLimiter(rate.Limit(1), 1)
		require.True(t, limiter.Allow())

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		provider := geocoding.NewNominatimProviderWithClient(mockClient, limiter, logger)
		_, err := provider.ReverseGeocode(cctx, coords)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limit exceeded")
	})
}

func TestNewNominatimProvider(t *testing.T) {
	provider := geocoding.NewNominatimProvider(0, slog.Default())
	assert.NotNil(t, provider)
}
