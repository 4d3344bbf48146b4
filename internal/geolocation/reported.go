// Package geolocation provides position sources for the location field: the fix
// reported by the user's browser, an IP based lookup for the CLI and a source
// for clients without any geolocation capability.
package geolocation

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/nivaran/internal/locator"
	"github.com/UnknownOlympus/nivaran/internal/models"
)

// Failure reasons a client may report instead of a fix.
const (
	ReasonDenied      = "denied"
	ReasonTimeout     = "timeout"
	ReasonUnavailable = "unavailable"
	ReasonUnsupported = "unsupported"
)

var (
	// ErrInvalidCoordinates is returned for a fix outside the valid latitude/longitude range.
	ErrInvalidCoordinates = errors.New("coordinates out of range")
	// ErrUnknownReason is returned for a failure reason that is not one of the Reason constants.
	ErrUnknownReason = errors.New("unknown geolocation failure reason")
)

// Reported is the outcome of a geolocation request performed by the client and
// submitted together with the detect request.
type Reported struct {
	coords    models.Coordinates
	err       error
	supported bool
}

// FromFix builds a source that yields the given coordinates.
func FromFix(latitude, longitude float64) (*Reported, error) {
	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return nil, fmt.Errorf("%w: %f, %f", ErrInvalidCoordinates, latitude, longitude)
	}

	return &Reported{
		coords:    models.Coordinates{Latitude: latitude, Longitude: longitude},
		supported: true,
	}, nil
}

// FromFailure builds a source that fails the way the client reported.
func FromFailure(reason string) (*Reported, error) {
	switch reason {
	case ReasonDenied:
		return &Reported{err: locator.ErrPermissionDenied, supported: true}, nil
	case ReasonTimeout:
		return &Reported{err: fmt.Errorf("%w: timed out", locator.ErrPositionUnavailable), supported: true}, nil
	case ReasonUnavailable:
		return &Reported{err: locator.ErrPositionUnavailable, supported: true}, nil
	case ReasonUnsupported:
		return &Reported{err: locator.ErrCapabilityAbsent}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownReason, reason)
	}
}

// Available reports whether the client has a geolocation capability at all.
func (r *Reported) Available() bool {
	return r.supported
}

// CurrentPosition returns the reported fix or failure.
func (r *Reported) CurrentPosition(ctx context.Context) (models.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return models.Coordinates{}, err
	}
	if r.err != nil {
		return models.Coordinates{}, r.err
	}

	return r.coords, nil
}

// Unsupported is a source without geolocation capability.
type Unsupported struct{}

func (Unsupported) Available() bool { return false }

func (Unsupported) CurrentPosition(context.Context) (models.Coordinates, error) {
	return models.Coordinates{}, locator.ErrCapabilityAbsent
}
