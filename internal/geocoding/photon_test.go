package geocoding_test

import (
	"log/slog"
	"net/http"
	"testing"

	"github.com/UnknownOlympus/nivaran/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotonProvider_Suggest(t *testing.T) {
	ctx := t.Context()
	logger := slog.Default()

	responseBody := `{"features":[
		{"properties":{"name":"Bandra Fort","district":"Bandra West","city":"Mumbai","state":"Maharashtra","country":"India","countrycode":"IN"}},
		{"properties":{"street":"Hill Road","housenumber":"12","city":"Mumbai","state":"Maharashtra","country":"India","countrycode":"IN"}},
		{"properties":{"name":"Mumbai","city":"Mumbai","state":"Maharashtra","country":"India","countrycode":"IN"}},
		{"properties":{"name":"Bandra Fort","district":"Bandra West","city":"Mumbai","state":"Maharashtra","country":"India","countrycode":"IN"}},
		{"properties":{"name":"Bandar Seri Begawan","country":"Brunei","countrycode":"BN"}},
		{"properties":{}}
	]}`

	t.Run("labels restricted to the country", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, "GET", req.Method)
				assert.Contains(t, req.URL.String(), "photon.komoot.io")
				assert.Equal(t, "Band", req.URL.Query().Get("q"))
				assert.Equal(t, "10", req.URL.Query().Get("limit"))
				assert.Equal(t, "en", req.URL.Query().Get("lang"))
				return jsonResponse(http.StatusOK, responseBody), nil
			},
		}

		provider := geocoding.NewPhotonProviderWithClient(mockClient, nil, logger)
		suggestions, err := provider.Suggest(ctx, "Band", "in")

		require.NoError(t, err)
		assert.Equal(t, []string{
			"Bandra Fort, Bandra West, Mumbai, Maharashtra, India",
			"Hill Road 12, Mumbai, Maharashtra, India",
			"Mumbai, Maharashtra, India",
		}, suggestions)
	})

	t.Run("without country every labelled feature is kept", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, responseBody), nil
			},
		}

		provider := geocoding.NewPhotonProviderWithClient(mockClient, nil, logger)
		suggestions, err := provider.Suggest(ctx, "Band", "")

		require.NoError(t, err)
		assert.Len(t, suggestions, 4)
		assert.Contains(t, suggestions, "Bandar Seri Begawan, Brunei")
	})

	t.Run("nothing matches", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"features":[]}`), nil
			},
		}

		provider := geocoding.NewPhotonProviderWithClient(mockClient, nil, logger)
		suggestions, err := provider.Suggest(ctx, "Zzzz", "in")

		require.NoError(t, err)
		assert.NotNil(t, suggestions)
		assert.Empty(t, suggestions)
	})

	t.Run("bad gateway", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusBadGateway, "upstream down"), nil
			},
		}

		provider := geocoding.NewPhotonProviderWithClient(mockClient, nil, logger)
		_, err := provider.Suggest(ctx, "Band", "in")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "photon API returned status 502")
	})
}
