package locator

import (
	"errors"
	"fmt"
)

var (
	// ErrNetworkFailure means an autocomplete or geocode call did not complete.
	ErrNetworkFailure = errors.New("location service call did not complete")
	// ErrEmptyResult means a call completed without any usable candidate.
	ErrEmptyResult = errors.New("location service returned no usable candidates")
	// ErrGeocodeUnavailable is returned by the reverse geocode client for every failure.
	ErrGeocodeUnavailable = errors.New("reverse geocoding unavailable")
	// ErrPositionUnavailable is returned when the current position could not be obtained.
	ErrPositionUnavailable = errors.New("current position unavailable")
	// ErrPermissionDenied is a position failure caused by the user refusing access.
	ErrPermissionDenied = fmt.Errorf("%w: permission denied", ErrPositionUnavailable)
	// ErrCapabilityAbsent is reported when the position source cannot locate at all.
	// It is never returned by CurrentPosition: the call is not attempted.
	ErrCapabilityAbsent = errors.New("geolocation not supported")
	// ErrDetectInProgress is returned when a detect-location request is ignored because another one is running.
	ErrDetectInProgress = errors.New("location detection already in progress")
	// ErrStaleResponse marks a suggestion response superseded by a newer query. It is never surfaced.
	ErrStaleResponse = errors.New("stale response discarded")
)
