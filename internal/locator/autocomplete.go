package locator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/UnknownOlympus/nivaran/internal/geocoding"
	"github.com/UnknownOlympus/nivaran/internal/metrics"
)

// MinQueryLength is the shortest query, in characters, sent to the autocomplete provider.
const MinQueryLength = 3

// AutocompleteClient turns a partial address into an ordered list of suggestions.
// It never returns an error: failures are logged and yield no suggestions.
type AutocompleteClient struct {
	provider     geocoding.SuggestProvider
	providerName string
	country      string
	timeout      time.Duration
	log          *slog.Logger
	metrics      *metrics.Metrics
}

// NewAutocompleteClient creates an AutocompleteClient. A zero timeout disables the per-call deadline.
func NewAutocompleteClient(
	provider geocoding.SuggestProvider,
	providerName string,
	country string,
	timeout time.Duration,
	log *slog.Logger,
	metrics *metrics.Metrics,
) *AutocompleteClient {
	return &AutocompleteClient{
		provider:     provider,
		providerName: providerName,
		country:      country,
		timeout:      timeout,
		log:          log,
		metrics:      metrics,
	}
}

// IsShortQuery reports whether the query is below MinQueryLength once trimmed.
func IsShortQuery(query string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(query)) < MinQueryLength
}

// Suggest returns the provider's suggestions for query in relevance order.
// Short queries return nothing without calling the provider.
func (ac *AutocompleteClient) Suggest(ctx context.Context, query string) []string {
	if IsShortQuery(query) {
		ac.metrics.SuggestRequests.WithLabelValues("short").Inc()
		return nil
	}
	query = strings.TrimSpace(query)

	callCtx := ctx
	if ac.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, ac.timeout)
		defer cancel()
	}

	startTime := time.Now()
	suggestions, err := ac.provider.Suggest(callCtx, query, ac.country)
	duration := time.Since(startTime).Seconds()
	ac.metrics.RequestSeconds.WithLabelValues(ac.providerName, "suggest").Observe(duration)

	if err != nil {
		if ctx.Err() != nil && errors.Is(err, context.Canceled) {
			// Superseded by a newer keystroke.
			ac.log.DebugContext(ctx, "Autocomplete request cancelled", "query", query)
			return nil
		}
		ac.metrics.SuggestRequests.WithLabelValues("error").Inc()
		ac.metrics.ProviderErrors.WithLabelValues(ac.providerName, "suggest").Inc()
		ac.log.WarnContext(ctx, "Autocomplete request failed",
			"provider", ac.providerName,
			"query", query,
			"error", fmt.Errorf("%w: %w", ErrNetworkFailure, err))
		return nil
	}

	if len(suggestions) == 0 {
		ac.metrics.SuggestRequests.WithLabelValues("empty").Inc()
		ac.log.DebugContext(ctx, "No suggestions", "query", query, "error", ErrEmptyResult)
		return nil
	}

	ac.metrics.SuggestRequests.WithLabelValues("ok").Inc()
	return suggestions
}
