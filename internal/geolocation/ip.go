package geolocation

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/UnknownOlympus/nivaran/internal/geocoding"
	"github.com/UnknownOlympus/nivaran/internal/locator"
	"github.com/UnknownOlympus/nivaran/internal/models"
)

// IPAPIBaseURL is the free ip-api.com JSON endpoint. It resolves the caller's public address.
const IPAPIBaseURL = "http://ip-api.com/json/"

// IPSource approximates the current position from the public IP address.
type IPSource struct {
	client  geocoding.HTTPClient
	baseURL string
	log     *slog.Logger
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// NewIPSource creates a source backed by ip-api.com.
func NewIPSource(log *slog.Logger) *IPSource {
	const timeout = 5
	return NewIPSourceWithClient(&http.Client{Timeout: timeout * time.Second}, IPAPIBaseURL, log)
}

// NewIPSourceWithClient creates a source with a custom HTTP client and endpoint.
func NewIPSourceWithClient(client geocoding.HTTPClient, baseURL string, log *slog.Logger) *IPSource {
	return &IPSource{client: client, baseURL: baseURL, log: log}
}

func (s *IPSource) Available() bool { return true }

// CurrentPosition looks up the approximate coordinates of the caller.
func (s *IPSource) CurrentPosition(ctx context.Context) (models.Coordinates, error) {
	params := url.Values{}
	params.Set("fields", "status,message,lat,lon")

	var resp ipAPIResponse
	if err := geocoding.FetchJSON(ctx, s.client, s.log, "ip-api", s.baseURL, params, &resp); err != nil {
		return models.Coordinates{}, fmt.Errorf("%w: %w", locator.ErrPositionUnavailable, err)
	}
	if resp.Status != "success" {
		return models.Coordinates{}, fmt.Errorf("%w: %s", locator.ErrPositionUnavailable, resp.Message)
	}

	s.log.DebugContext(ctx, "IP position resolved", "latitude", resp.Lat, "longitude", resp.Lon)

	return models.Coordinates{Latitude: resp.Lat, Longitude: resp.Lon}, nil
}
