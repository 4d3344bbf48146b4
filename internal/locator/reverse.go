package locator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/UnknownOlympus/nivaran/internal/geocoding"
	"github.com/UnknownOlympus/nivaran/internal/metrics"
	"github.com/UnknownOlympus/nivaran/internal/models"
)

// ReverseGeocodeClient converts coordinates into a formatted address with a single best-effort call.
type ReverseGeocodeClient struct {
	provider     geocoding.ReverseProvider
	providerName string
	timeout      time.Duration
	log          *slog.Logger
	metrics      *metrics.Metrics
}

// NewReverseGeocodeClient creates a ReverseGeocodeClient. A zero timeout disables the per-call deadline.
func NewReverseGeocodeClient(
	provider geocoding.ReverseProvider,
	providerName string,
	timeout time.Duration,
	log *slog.Logger,
	metrics *metrics.Metrics,
) *ReverseGeocodeClient {
	return &ReverseGeocodeClient{
		provider:     provider,
		providerName: providerName,
		timeout:      timeout,
		log:          log,
		metrics:      metrics,
	}
}

// ReverseGeocode returns the address for coords. Every failure wraps ErrGeocodeUnavailable,
// together with ErrEmptyResult or ErrNetworkFailure.
func (rc *ReverseGeocodeClient) ReverseGeocode(ctx context.Context, coords models.Coordinates) (string, error) {
	if rc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rc.timeout)
		defer cancel()
	}

	startTime := time.Now()
	address, err := rc.provider.ReverseGeocode(ctx, coords)
	duration := time.Since(startTime).Seconds()
	rc.metrics.RequestSeconds.WithLabelValues(rc.providerName, "reverse").Observe(duration)

	if err != nil {
		rc.metrics.ProviderErrors.WithLabelValues(rc.providerName, "reverse").Inc()
		if errors.Is(err, geocoding.ErrEmptyResponse) {
			return "", fmt.Errorf("%w: %w", ErrGeocodeUnavailable, ErrEmptyResult)
		}
		rc.log.WarnContext(ctx, "Reverse geocoding failed", "provider", rc.providerName, "error", err)
		return "", fmt.Errorf("%w: %w: %w", ErrGeocodeUnavailable, ErrNetworkFailure, err)
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return "", fmt.Errorf("%w: %w", ErrGeocodeUnavailable, ErrEmptyResult)
	}

	return address, nil
}
