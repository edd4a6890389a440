// Package geocode resolves free-text locations to coordinates via the Google
// Geocoding API, with an in-memory result cache.
package geocode

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client geocodes free-text locations.
type Client interface {
	// Geocode resolves a single location. An address the provider cannot
	// place is not an error: the result has Matched=false.
	Geocode(ctx context.Context, address string) (*Result, error)
}

// Result holds the geocoding output for a location.
type Result struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
	Quality          string // "rooftop", "range", "centroid", "approximate"
	Matched          bool
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithRateLimit sets the requests-per-second rate limit.
func WithRateLimit(rps float64) Option {
	return func(g *geocoder) {
		if rps > 0 {
			g.limiter = rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
		}
	}
}

// WithCacheTTL sets how long results are reused. Zero disables the cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(g *geocoder) {
		if ttl <= 0 {
			g.cache = nil
			return
		}
		g.cache = newCache(ttl)
	}
}

type geocoder struct {
	httpClient *http.Client
	googleKey  string
	limiter    *rate.Limiter
	cache      *cache
}

// NewClient creates a geocoding Client using the given Google API key.
func NewClient(apiKey string, opts ...Option) Client {
	g := &geocoder{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		googleKey:  apiKey,
		limiter:    rate.NewLimiter(10, 10),
		cache:      newCache(time.Hour),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Geocode resolves address, serving repeated lookups from the cache.
// Failed lookups are not cached.
func (g *geocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	if strings.TrimSpace(address) == "" {
		return nil, eris.New("geocode: address is required")
	}

	key := cacheKey(address)
	if g.cache != nil {
		if r, ok := g.cache.get(key); ok {
			zap.L().Debug("geocode cache hit", zap.String("address", address), zap.Bool("matched", r.Matched))
			return r, nil
		}
	}

	r, err := g.geocodeGoogle(ctx, address)
	if err != nil {
		return nil, err
	}
	if g.cache != nil {
		g.cache.put(key, r)
	}
	return r, nil
}
