package geocoding_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/nivaran/internal/geocoding"
	"github.com/UnknownOlympus/nivaran/internal/models"
	"github.com/UnknownOlympus/nivaran/internal/repository"
	"github.com/UnknownOlympus/nivaran/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCachedReverseProvider_ReverseGeocode(t *testing.T) {
	ctx := t.Context()
	logger := slog.Default()
	coords := models.Coordinates{Latitude: 19.076, Longitude: 72.8777}
	address := "Bandra West, Mumbai, Maharashtra, India"

	t.Run("cache hit skips the provider", func(t *testing.T) {
		cache := mocks.NewInterface(t)
		next := mocks.NewReverseProvider(t)
		provider := geocoding.NewCachedReverseProvider(next, cache, logger)

		cache.On("LookupAddress", ctx, coords).Return(address, nil).Once()

		got, err := provider.ReverseGeocode(ctx, coords)

		require.NoError(t, err)
		assert.Equal(t, address, got)
		next.AssertNotCalled(t, "ReverseGeocode", mock.Anything, mock.Anything)
	})

	t.Run("cache miss stores the provider result", func(t *testing.T) {
		cache := mocks.NewInterface(t)
		next := mocks.NewReverseProvider(t)
		provider := geocoding.NewCachedReverseProvider(next, cache, logger)

		cache.On("LookupAddress", ctx, coords).Return("", repository.ErrCacheMiss).Once()
		next.On("ReverseGeocode", ctx, coords).Return(address, nil).Once()
		cache.On("StoreAddress", ctx, coords, address).Return(nil).Once()

		got, err := provider.ReverseGeocode(ctx, coords)

		require.NoError(t, err)
		assert.Equal(t, address, got)
	})

	t.Run("broken cache does not fail the lookup", func(t *testing.T) {
		cache := mocks.NewInterface(t)
		next := mocks.NewReverseProvider(t)
		provider := geocoding.NewCachedReverseProvider(next, cache, logger)

		cache.On("LookupAddress", ctx, coords).Return("", assert.AnError).Once()
		next.On("ReverseGeocode", ctx, coords).Return(address, nil).Once()
		cache.On("StoreAddress", ctx, coords, address).Return(assert.AnError).Once()

		got, err := provider.ReverseGeocode(ctx, coords)

		require.NoError(t, err)
		assert.Equal(t, address, got)
	})

	t.Run("provider failure is not cached", func(t *testing.T) {
		cache := mocks.NewInterface(t)
		next := mocks.NewReverseProvider(t)
		provider := geocoding.NewCachedReverseProvider(next, cache, logger)

		cache.On("LookupAddress", ctx, coords).Return("", repository.ErrCacheMiss).Once()
		next.On("ReverseGeocode", ctx, coords).Return("", geocoding.ErrEmptyResponse).Once()

		_, err := provider.ReverseGeocode(ctx, coords)

		require.ErrorIs(t, err, geocoding.ErrEmptyResponse)
		cache.AssertNotCalled(t, "StoreAddress", mock.Anything, mock.Anything, mock.Anything)
	})
}
