package geocoding

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// PhotonBaseURL is the public Komoot Photon search endpoint.
const PhotonBaseURL = "https://photon.komoot.io/api/"

// PhotonProvider implements SuggestProvider using the Photon search-as-you-type API.
type PhotonProvider struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL for the Photon API
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Rate limiter
	limit   int           // Number of features requested
}

type photonResponse struct {
	Features []struct {
		Properties photonProperties `json:"properties"`
	} `json:"features"`
}

type photonProperties struct {
	Name        string `json:"name"`
	Street      string `json:"street"`
	HouseNumber string `json:"housenumber"`
	District    string `json:"district"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
	CountryCode string `json:"countrycode"`
}

// NewPhotonProvider creates a Photon provider with the public endpoint.
func NewPhotonProvider(rateLimit int, log *slog.Logger) *PhotonProvider {
	const timeout = 10
	if rateLimit <= 0 {
		rateLimit = 1
	}

	return NewPhotonProviderWithClient(
		&http.Client{Timeout: timeout * time.Second},
		rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
		log,
	)
}

// NewPhotonProviderWithClient allows injecting custom HTTP client.
func NewPhotonProviderWithClient(client HTTPClient, limiter *rate.Limiter, log *slog.Logger) *PhotonProvider {
	const featureLimit = 10
	return &PhotonProvider{
		client:  client,
		baseURL: PhotonBaseURL,
		log:     log,
		limiter: limiter,
		limit:   featureLimit,
	}
}

// Suggest returns labels of the Photon features matching the partial address.
// Photon has no country filter, so features outside the country are dropped here.
func (pp *PhotonProvider) Suggest(ctx context.Context, query, country string) ([]string, error) {
	pp.log.DebugContext(ctx, "Autocompleting using Photon", "query", query, "country", country)

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(pp.limit))
	params.Set("lang", "en")

	var resp photonResponse
	err := fetchJSON(ctx, pp.client, pp.log, jsonRequest{
		provider: "photon",
		baseURL:  pp.baseURL,
		query:    params,
		limiter:  pp.limiter,
	}, &resp)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	suggestions := []string{}
	for _, feature := range resp.Features {
		props := feature.Properties
		if country != "" && !strings.EqualFold(props.CountryCode, country) {
			continue
		}
		label := photonLabel(props)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		suggestions = append(suggestions, label)
	}

	return suggestions, nil
}

// photonLabel joins the non-empty address parts, skipping repeats such as a city named like its state.
func photonLabel(p photonProperties) string {
	street := strings.TrimSpace(strings.Join([]string{p.Street, p.HouseNumber}, " "))
	parts := make([]string, 0, 6)
	for _, part := range []string{p.Name, street, p.District, p.City, p.State, p.Country} {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if len(parts) > 0 && parts[len(parts)-1] == part {
			continue
		}
		parts = append(parts, part)
	}

	return strings.Join(parts, ", ")
}
