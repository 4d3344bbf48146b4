package locator

import (
	"context"

	"github.com/UnknownOlympus/nivaran/internal/models"
)

// PositionSource obtains the device's current coordinates.
//
// Available reports the capability up front; a Field never calls CurrentPosition
// on a source that is not available. CurrentPosition returns an error wrapping
// ErrPositionUnavailable (or ErrPermissionDenied) on failure.
type PositionSource interface {
	Available() bool
	CurrentPosition(ctx context.Context) (models.Coordinates, error)
}
