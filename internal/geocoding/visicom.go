package geocoding

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/nivaran/internal/models"
	"golang.org/x/time/rate"
)

// VisicomBaseURL -- Visicom API base URL.
const VisicomBaseURL = "https://api.visicom.ua/data-api/5.0/en/geocode.json"

// VisicomProvider implements reverse geocoding using Visicom API.
type VisicomProvider struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL for the Visicom API
	apiKey  string        // API key with geocoding access
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Rate limiter
}

// ErrVisicomEmptyResponse is returned when Visicom has no feature near the coordinates.
var ErrVisicomEmptyResponse = fmt.Errorf("visicom: %w", ErrEmptyResponse)

// Visicom API response (simplified for reverse geocoding use-case).
type visicomResponse struct {
	Properties struct {
		Name       string `json:"name"`
		Address    string `json:"address"`
		Settlement string `json:"settlement"`
		Country    string `json:"country"`
	} `json:"properties"`
}

// NewVisicomProvider creates a new Visicom reverse geocoding provider.
func NewVisicomProvider(apiKey string, rateLimit int, log *slog.Logger) *VisicomProvider {
	const timeout = 10

	return NewVisicomProviderWithClient(
		&http.Client{Timeout: timeout * time.Second},
		apiKey,
		rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
		log,
	)
}

// NewVisicomProviderWithClient allows injecting custom HTTP client.
func NewVisicomProviderWithClient(
	client HTTPClient,
	apiKey string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *VisicomProvider {
	return &VisicomProvider{
		client:  client,
		baseURL: VisicomBaseURL,
		apiKey:  apiKey,
		log:     log,
		limiter: limiter,
	}
}

// ReverseGeocode returns the address of the Visicom feature nearest to the coordinates.
func (vp *VisicomProvider) ReverseGeocode(ctx context.Context, coords models.Coordinates) (string, error) {
	vp.log.DebugContext(ctx, "Reverse geocoding using Visicom", "lat", coords.Latitude, "lon", coords.Longitude)

	params := url.Values{}
	// Visicom expects "lon,lat".
	params.Set("near", strconv.FormatFloat(coords.Longitude, 'f', -1, 64)+","+
		strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	params.Set("limit", "1")
	params.Set("key", vp.apiKey)

	var result visicomResponse
	err := fetchJSON(ctx, vp.client, vp.log, jsonRequest{
		provider: "visicom",
		baseURL:  vp.baseURL,
		query:    params,
		limiter:  vp.limiter,
	}, &result)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, 3)
	for _, part := range []string{result.Properties.Address, result.Properties.Name, result.Properties.Settlement} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "", ErrVisicomEmptyResponse
	}

	address := strings.Join(parts, ", ")
	vp.log.InfoContext(ctx, "Visicom found result", "address", address)

	return address, nil
}
