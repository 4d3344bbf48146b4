package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UnknownOlympus/nivaran/internal/models"
	"github.com/jackc/pgx/v5"
)

// CoordinateKey is the cache key of a coordinate pair: both values rounded to 6 decimals.
func CoordinateKey(coords models.Coordinates) string {
	return fmt.Sprintf("%.6f,%.6f", coords.Latitude, coords.Longitude)
}

// EnsureSchema creates the cache table when it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS public.reverse_geocode_cache (
			coord_key TEXT PRIMARY KEY,
			address   TEXT NOT NULL,
			cached_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`

	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create reverse geocode cache table: %w", err)
	}

	return nil
}

// LookupAddress returns the cached address for the coordinates.
// It returns ErrCacheMiss when nothing is cached.
func (r *Repository) LookupAddress(ctx context.Context, coords models.Coordinates) (string, error) {
	query := `
		SELECT address
		FROM public.reverse_geocode_cache
		WHERE coord_key = $1;
	`

	var address string
	err := r.db.QueryRow(ctx, query, CoordinateKey(coords)).Scan(&address)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("failed to query cached address: %w", err)
	}

	return address, nil
}

// StoreAddress inserts or refreshes the cached address for the coordinates.
func (r *Repository) StoreAddress(ctx context.Context, coords models.Coordinates, address string) error {
	query := `
		INSERT INTO public.reverse_geocode_cache (coord_key, address, cached_at)
		VALUES ($1, $2, now())
		ON CONFLICT (coord_key) DO UPDATE SET
			address = EXCLUDED.address,
			cached_at = now();
	`

	_, err := r.db.Exec(ctx, query, CoordinateKey(coords), address)
	if err != nil {
		return fmt.Errorf("failed to store cached address: %w", err)
	}

	r.log.DebugContext(ctx, "Cached reverse geocode result", "key", CoordinateKey(coords))

	return nil
}

// PurgeOlderThan removes cache entries older than maxAge and returns how many were deleted.
func (r *Repository) PurgeOlderThan(ctx context.Context, maxAge time.Duration) (int64, error) {
	query := `
		DELETE FROM public.reverse_geocode_cache
		WHERE cached_at < now() - make_interval(secs => $1);
	`

	tag, err := r.db.Exec(ctx, query, maxAge.Seconds())
	if err != nil {
		return 0, fmt.Errorf("failed to purge reverse geocode cache: %w", err)
	}

	return tag.RowsAffected(), nil
}
