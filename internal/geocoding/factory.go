package geocoding

import (
	"errors"
	"fmt"
	"log/slog"

	"googlemaps.github.io/maps"
)

// ProviderType represents the type of geocoding provider.
type ProviderType string

const (
	// ProviderTypeGoogle represents Google Maps (Places autocomplete and reverse geocoding).
	ProviderTypeGoogle ProviderType = "google"
	// ProviderTypeNominatim represents OpenStreetMap Nominatim (search and reverse).
	ProviderTypeNominatim ProviderType = "nominatim"
	// ProviderTypePhoton represents Komoot Photon (search only).
	ProviderTypePhoton ProviderType = "photon"
	// ProviderTypeVisicom represents Visicom Maps (reverse only).
	ProviderTypeVisicom ProviderType = "visicom"
)

// ProviderConfig holds configuration for creating a geocoding provider.
type ProviderConfig struct {
	Type      ProviderType // Type of provider to create
	APIKey    string       // API key (used by Google and Visicom providers)
	RateLimit int          // Rate limit for requests per second
	Logger    *slog.Logger // Logger for the provider
}

// NewSuggestProvider creates an autocomplete provider based on the provided configuration.
//
// Supported provider types:
// - "google": Google Places Autocomplete (requires API key)
// - "nominatim": OpenStreetMap Nominatim search
// - "photon": Komoot Photon search
func NewSuggestProvider(config ProviderConfig) (SuggestProvider, error) {
	switch config.Type {
	case ProviderTypeGoogle:
		provider, err := newGoogleProvider(config)
		if err != nil {
			return nil, err
		}
		return provider, nil
	case ProviderTypeNominatim:
		return NewNominatimProvider(config.RateLimit, config.Logger), nil
	case ProviderTypePhoton:
		return NewPhotonProvider(config.RateLimit, config.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported suggest provider type: %s", config.Type)
	}
}

// NewReverseProvider creates a reverse geocoding provider based on the provided configuration.
//
// Supported provider types:
// - "google": Google Maps Geocoding API (requires API key)
// - "nominatim": OpenStreetMap Nominatim reverse
// - "visicom": Visicom Maps (requires API key)
func NewReverseProvider(config ProviderConfig) (ReverseProvider, error) {
	switch config.Type {
	case ProviderTypeGoogle:
		provider, err := newGoogleProvider(config)
		if err != nil {
			return nil, err
		}
		return provider, nil
	case ProviderTypeNominatim:
		return NewNominatimProvider(config.RateLimit, config.Logger), nil
	case ProviderTypeVisicom:
		provider, err := newVisicomProvider(config)
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unsupported reverse provider type: %s", config.Type)
	}
}

// newGoogleProvider creates a Google Maps provider.
func newGoogleProvider(config ProviderConfig) (*GoogleProvider, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required for Google provider")
	}

	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(config.APIKey),
	}

	if config.RateLimit > 0 {
		clientOpts = append(clientOpts, maps.WithRateLimit(config.RateLimit))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return NewGoogleProvider(client, config.Logger), nil
}

// newVisicomProvider creates a Visicom reverse geocoding provider.
func newVisicomProvider(config ProviderConfig) (*VisicomProvider, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required for Visicom provider")
	}

	if config.RateLimit == 0 {
		config.RateLimit = 5
		config.Logger.Warn("Rate limit for Visicom API not set, set a default value", "value", config.RateLimit)
	}

	return NewVisicomProvider(config.APIKey, config.RateLimit, config.Logger), nil
}
