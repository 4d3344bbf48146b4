package geocoding

import (
	"context"
	"errors"
	"log/slog"

	"github.com/UnknownOlympus/nivaran/internal/models"
	"github.com/UnknownOlympus/nivaran/internal/repository"
)

// CachedReverseProvider serves reverse geocoding from the address cache and
// falls through to the wrapped provider on a miss. Cache failures are logged
// and never fail the lookup.
type CachedReverseProvider struct {
	next  ReverseProvider
	cache repository.Interface
	log   *slog.Logger
}

// NewCachedReverseProvider wraps next with the given cache.
func NewCachedReverseProvider(next ReverseProvider, cache repository.Interface, log *slog.Logger) *CachedReverseProvider {
	return &CachedReverseProvider{next: next, cache: cache, log: log}
}

// ReverseGeocode implements ReverseProvider.
func (cp *CachedReverseProvider) ReverseGeocode(ctx context.Context, coords models.Coordinates) (string, error) {
	address, err := cp.cache.LookupAddress(ctx, coords)
	switch {
	case err == nil:
		cp.log.DebugContext(ctx, "Reverse geocode cache hit", "address", address)
		return address, nil
	case !errors.Is(err, repository.ErrCacheMiss):
		cp.log.WarnContext(ctx, "Reverse geocode cache lookup failed", "error", err)
	}

	address, err = cp.next.ReverseGeocode(ctx, coords)
	if err != nil {
		return "", err
	}

	if err = cp.cache.StoreAddress(ctx, coords, address); err != nil {
		cp.log.WarnContext(ctx, "Failed to store reverse geocode result", "error", err)
	}

	return address, nil
}
