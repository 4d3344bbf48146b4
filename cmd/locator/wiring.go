package main

import (
	"fmt"

	"github.com/UnknownOlympus/nivaran/internal/geocoding"
	"github.com/UnknownOlympus/nivaran/internal/locator"
	"github.com/UnknownOlympus/nivaran/internal/metrics"
	"github.com/UnknownOlympus/nivaran/internal/repository"
	"github.com/UnknownOlympus/nivaran/internal/service"
)

// clients holds the autocomplete and reverse geocode clients built from the configuration.
type clients struct {
	autocomplete *locator.AutocompleteClient
	reverse      *locator.ReverseGeocodeClient
}

func providerConfig(providerType string) geocoding.ProviderConfig {
	return geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(providerType),
		APIKey:    cfg.APIKey,
		RateLimit: cfg.RateLimit,
		Logger:    logger,
	}
}

// newClients creates the provider clients. When both operations use the same provider
// a single instance serves them, so its rate limit covers all requests. A non-nil
// cache is consulted before the reverse provider.
func newClients(appMetrics *metrics.Metrics, cache repository.Interface) (*clients, error) {
	suggestProvider, err := geocoding.NewSuggestProvider(providerConfig(cfg.SuggestProvider))
	if err != nil {
		return nil, fmt.Errorf("failed to create suggest provider: %w", err)
	}

	reverseProvider, shared := suggestProvider.(geocoding.ReverseProvider)
	if !shared || cfg.GeocodeProvider != cfg.SuggestProvider {
		reverseProvider, err = geocoding.NewReverseProvider(providerConfig(cfg.GeocodeProvider))
		if err != nil {
			return nil, fmt.Errorf("failed to create reverse geocoding provider: %w", err)
		}
	}
	if cache != nil {
		reverseProvider = geocoding.NewCachedReverseProvider(reverseProvider, cache, logger)
	}

	return &clients{
		autocomplete: locator.NewAutocompleteClient(
			suggestProvider, cfg.SuggestProvider, cfg.Country, cfg.RequestTimeout, logger, appMetrics,
		),
		reverse: locator.NewReverseGeocodeClient(
			reverseProvider, cfg.GeocodeProvider, cfg.RequestTimeout, logger, appMetrics,
		),
	}, nil
}

// fieldFactory builds the location field of every new form session.
func (c *clients) fieldFactory(appMetrics *metrics.Metrics) service.FieldFactory {
	return func(notifier locator.Notifier) *locator.Field {
		return locator.NewField(locator.FieldConfig{
			Suggester: c.autocomplete,
			Geocoder:  c.reverse,
			Notifier:  notifier,
			Debounce:  cfg.Debounce,
			Logger:    logger,
			Metrics:   appMetrics,
		})
	}
}
