package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/UnknownOlympus/nivaran/internal/models"
)

// ErrCacheMiss is returned when no address is cached for the coordinates.
var ErrCacheMiss = errors.New("no cached address for coordinates")

// Repository is the PostgreSQL backed reverse geocoding cache.
type Repository struct {
	db  Database
	log *slog.Logger
}

// Interface is implemented by Repository.
type Interface interface {
	LookupAddress(ctx context.Context, coords models.Coordinates) (string, error)
	StoreAddress(ctx context.Context, coords models.Coordinates, address string) error
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}
