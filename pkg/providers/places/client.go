// Package places wraps the live place-search provider with rate limiting
// and a short-lived response cache.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Gobusters/ectologger"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/geo"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/metrics"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/models"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/tracing"
)

// Config holds the search client settings.
type Config struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	CacheTTL          time.Duration
}

// Client performs live text searches against the place provider.
type Client struct {
	httpClient *http.Client
	config     Config
	limiter    *rate.Limiter
	cache      *gocache.Cache
	logger     ectologger.Logger
}

// NewClient creates a search client.
func NewClient(config Config, logger ectologger.Logger) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	rps := config.RequestsPerSecond
	if rps == 0 {
		rps = 10
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 5
	}
	ttl := config.CacheTTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		config:     config,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		cache:      gocache.New(ttl, 2*ttl),
		logger:     logger,
	}
}

type searchResponse struct {
	Results []struct {
		PlaceID  string `json:"place_id"`
		Name     string `json:"name"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		FormattedAddress string   `json:"formatted_address"`
		Rating           *float64 `json:"rating"`
		UserRatingsTotal *int     `json:"user_ratings_total"`
		Website          *string  `json:"website"`
		PhotoURL         *string  `json:"photo_url"`
	} `json:"results"`
	Status string `json:"status"`
}

// TextSearch returns live candidates for a free-text query. Results are
// cached briefly so repeated recommendation requests do not re-hit the
// provider.
func (c *Client) TextSearch(ctx context.Context, query string) ([]models.LiveCandidate, error) {
	ctx, span := tracing.StartSpan(ctx, "places.Client.TextSearch")
	defer span.End()

	if cached, found := c.cache.Get(query); found {
		return cached.([]models.LiveCandidate), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	candidates, err := c.search(ctx, query)
	metrics.ProviderRequestDuration.WithLabelValues("places").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("places", "error").Inc()
		return nil, err
	}
	metrics.ProviderRequestsTotal.WithLabelValues("places", "success").Inc()

	c.cache.Set(query, candidates, gocache.DefaultExpiration)
	return candidates, nil
}

func (c *Client) search(ctx context.Context, query string) ([]models.LiveCandidate, error) {
	endpoint := fmt.Sprintf("%s/textsearch/json?query=%s&key=%s",
		c.config.BaseURL, url.QueryEscape(query), url.QueryEscape(c.config.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("place search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("place search returned status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode place search response: %w", err)
	}
	if body.Status != "" && body.Status != "OK" && body.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("place search returned status %s", body.Status)
	}

	candidates := make([]models.LiveCandidate, 0, len(body.Results))
	for _, result := range body.Results {
		if result.Name == "" || result.PlaceID == "" {
			continue
		}
		candidate := models.LiveCandidate{
			ProviderPlaceID: result.PlaceID,
			Name:            result.Name,
			Coordinate: geo.Coordinate{
				Latitude:  result.Geometry.Location.Lat,
				Longitude: result.Geometry.Location.Lng,
			},
		}
		candidate.Rating = result.Rating
		candidate.RatingCount = result.UserRatingsTotal
		candidate.Website = result.Website
		candidate.CoverImageURL = result.PhotoURL
		if result.FormattedAddress != "" {
			address := result.FormattedAddress
			candidate.Address = &address
		}
		candidates = append(candidates, candidate)
	}

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"query":      query,
		"candidates": len(candidates),
	}).Debug("Live place search completed")

	return candidates, nil
}
