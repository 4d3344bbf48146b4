package locator_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/UnknownOlympus/nivaran/internal/geocoding"
	"github.com/UnknownOlympus/nivaran/internal/locator"
	"github.com/UnknownOlympus/nivaran/internal/models"
	"github.com/UnknownOlympus/nivaran/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReverseGeocodeClient_ReverseGeocode(t *testing.T) {
	ctx := t.Context()
	logger := slog.Default()
	coords := models.Coordinates{Latitude: 19.076, Longitude: 72.8777}

	t.Run("successful reverse geocoding", func(t *testing.T) {
		provider := mocks.NewReverseProvider(t)
		client := locator.NewReverseGeocodeClient(provider, "test", time.Second, logger, newTestMetrics())

		provider.On("ReverseGeocode", mock.Anything, coords).Return(" Bandra West, Mumbai, Maharashtra ", nil).Once()

		address, err := client.ReverseGeocode(ctx, coords)

		require.NoError(t, err)
		assert.Equal(t, "Bandra West, Mumbai, Maharashtra", address)
	})

	t.Run("network failure", func(t *testing.T) {
		provider := mocks.NewReverseProvider(t)
		client := locator.NewReverseGeocodeClient(provider, "test", time.Second, logger, newTestMetrics())

		provider.On("ReverseGeocode", mock.Anything, coords).Return("", assert.AnError).Once()

		address, err := client.ReverseGeocode(ctx, coords)

		assert.Empty(t, address)
		require.ErrorIs(t, err, locator.ErrGeocodeUnavailable)
		require.ErrorIs(t, err, locator.ErrNetworkFailure)
		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("empty result set", func(t *testing.T) {
		provider := mocks.NewReverseProvider(t)
		client := locator.NewReverseGeocodeClient(provider, "test", time.Second, logger, newTestMetrics())

		provider.On("ReverseGeocode", mock.Anything, coords).Return("", geocoding.ErrNominatimEmptyResponse).Once()

		_, err := client.ReverseGeocode(ctx, coords)

		require.ErrorIs(t, err, locator.ErrGeocodeUnavailable)
		require.ErrorIs(t, err, locator.ErrEmptyResult)
		assert.NotErrorIs(t, err, locator.ErrNetworkFailure)
	})

	t.Run("blank address", func(t *testing.T) {
		provider := mocks.NewReverseProvider(t)
		client := locator.NewReverseGeocodeClient(provider, "test", time.Second, logger, newTestMetrics())

		provider.On("ReverseGeocode", mock.Anything, coords).Return("   ", nil).Once()

		_, err := client.ReverseGeocode(ctx, coords)

		require.ErrorIs(t, err, locator.ErrGeocodeUnavailable)
		require.ErrorIs(t, err, locator.ErrEmptyResult)
	})
}

func TestFormatCoordinates(t *testing.T) {
	assert.Equal(t, "19.076000, 72.877700", locator.FormatCoordinates(models.Coordinates{Latitude: 19.076, Longitude: 72.8777}))
	assert.Equal(t, "-0.000001, -179.999999", locator.FormatCoordinates(models.Coordinates{Latitude: -0.000001, Longitude: -179.999999}))
}
