package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/sme-crm/internal/config"
	"github.com/sells-group/sme-crm/internal/discovery"
	"github.com/sells-group/sme-crm/internal/lead"
	"github.com/sells-group/sme-crm/internal/monitoring"
	"github.com/sells-group/sme-crm/internal/resilience"
	"github.com/sells-group/sme-crm/pkg/geocode"
	"github.com/sells-group/sme-crm/pkg/google"
)

// initSearcher wires the Google clients into a Searcher configured from c.
func initSearcher(c *config.Config, metrics *monitoring.Metrics, onError discovery.ErrorHandler) *discovery.Searcher {
	placesOpts := []google.Option{google.WithRateLimit(c.Google.RateLimit)}
	if c.Google.PlacesBaseURL != "" {
		placesOpts = append(placesOpts, google.WithBaseURL(c.Google.PlacesBaseURL))
	}
	places := google.NewClient(c.Google.Key, placesOpts...)

	geo := geocode.NewClient(c.Google.Key,
		geocode.WithRateLimit(c.Geocode.RateLimit),
		geocode.WithCacheTTL(time.Duration(c.Geocode.CacheTTLMins)*time.Minute),
	)

	provider := discovery.NewGooglePlaces(places, geo,
		discovery.WithRetryPolicy(resilience.NewPolicy(c.Retry.Attempts, c.Retry.BaseDelayMs, c.Retry.MaxDelayMs)),
	)

	opts := []discovery.SearcherOption{
		discovery.WithDefaultCenter(discovery.LatLng{Lat: c.Search.DefaultLat, Lng: c.Search.DefaultLng}),
		discovery.WithRadius(c.Search.RadiusMeters),
		discovery.WithResultCap(c.Search.ResultCap),
		discovery.WithEnrichConcurrency(c.Search.EnrichConcurrency),
		discovery.WithMetrics(metrics),
	}
	if onError != nil {
		opts = append(opts, discovery.WithErrorHandler(onError))
	}
	return discovery.NewSearcher(provider, opts...)
}

// initStore creates the lead store, preloaded from seedPath when set.
func initStore(seedPath string) (*lead.Store, error) {
	var opts []lead.StoreOption
	if seedPath != "" {
		seed, err := lead.LoadSeed(seedPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, lead.WithSeed(seed))
		zap.L().Info("loaded lead seed", zap.String("path", seedPath), zap.Int("leads", len(seed)))
	}
	return lead.NewStore(opts...)
}

// seedPathFlag returns the flag value, falling back to the configured path.
func seedPathFlag(flag string, c *config.Config) string {
	if flag != "" {
		return flag
	}
	if c == nil {
		return ""
	}
	return c.Leads.SeedPath
}
