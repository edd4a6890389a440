package discovery

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/sme-crm/internal/monitoring"
)

const (
	// DefaultRadiusMeters is the search radius around the center.
	DefaultRadiusMeters = 5000
	// DefaultEnrichConcurrency bounds parallel detail fetches.
	DefaultEnrichConcurrency = 4
)

// DefaultCenter is used when no location is given or it cannot be geocoded.
var DefaultCenter = LatLng{Lat: 40.7128, Lng: -74.0060}

// ErrorHandler receives provider failures. Searches never return them.
type ErrorHandler func(q Query, err error)

// Searcher runs searches against a PlaceSearchClient.
type Searcher struct {
	client        PlaceSearchClient
	center        LatLng
	radius        float64
	limit         int
	enrichWorkers int
	onError       ErrorHandler
	metrics       *monitoring.Metrics
	log           *zap.Logger
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher)

// WithDefaultCenter sets the fallback search center.
func WithDefaultCenter(c LatLng) SearcherOption {
	return func(s *Searcher) {
		s.center = c
	}
}

// WithRadius sets the search radius in meters.
func WithRadius(meters float64) SearcherOption {
	return func(s *Searcher) {
		if meters > 0 {
			s.radius = meters
		}
	}
}

// WithResultCap sets how many candidates one search keeps.
func WithResultCap(n int) SearcherOption {
	return func(s *Searcher) {
		if n >= 0 {
			s.limit = n
		}
	}
}

// WithEnrichConcurrency bounds the parallel detail fetches of Enrich.
func WithEnrichConcurrency(n int) SearcherOption {
	return func(s *Searcher) {
		if n > 0 {
			s.enrichWorkers = n
		}
	}
}

// WithErrorHandler sets the callback that receives provider failures.
func WithErrorHandler(h ErrorHandler) SearcherOption {
	return func(s *Searcher) {
		s.onError = h
	}
}

// WithMetrics records search outcomes.
func WithMetrics(m *monitoring.Metrics) SearcherOption {
	return func(s *Searcher) {
		s.metrics = m
	}
}

// NewSearcher creates a Searcher.
func NewSearcher(client PlaceSearchClient, opts ...SearcherOption) *Searcher {
	s := &Searcher{
		client:        client,
		center:        DefaultCenter,
		radius:        DefaultRadiusMeters,
		limit:         DefaultResultCap,
		enrichWorkers: DefaultEnrichConcurrency,
		log:           zap.L().With(zap.String("component", "discovery.searcher")),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// text is the string sent to the provider: the keywords, or the category
// when no keywords were typed.
func (q Query) text() string {
	if k := strings.TrimSpace(q.Keywords); k != "" {
		return k
	}
	return strings.TrimSpace(q.Category)
}

// Search geocodes q.Location (falling back to the default center), runs a
// text search around the center and normalizes the results. Provider
// failures do not produce an error: the result comes back empty with
// Failed set, and the failure goes to the ErrorHandler. The only error is
// ErrEmptyQuery.
func (s *Searcher) Search(ctx context.Context, q Query) (Result, error) {
	text := q.text()
	if text == "" {
		return Result{}, eris.Wrap(ErrEmptyQuery, "discovery: search")
	}

	start := time.Now()
	res := Result{
		ID:         uuid.NewString(),
		Query:      q,
		Center:     s.center,
		Candidates: []Candidate{},
	}
	log := s.log.With(zap.String("search_id", res.ID), zap.String("query", text))

	if loc := strings.TrimSpace(q.Location); loc != "" {
		if center, err := s.geocode(ctx, loc); err != nil {
			s.report(q, "geocode", err)
			log.Warn("geocode failed, using default center", zap.String("location", loc), zap.Error(err))
		} else {
			res.Center = center
		}
	}

	resp, err := s.client.TextSearch(ctx, text, res.Center, s.radius)
	if err == nil && resp == nil {
		err = &ProviderError{Op: "text_search", Status: StatusError}
	}
	if err == nil && resp.Status != StatusOK && resp.Status != StatusZeroResults {
		err = &ProviderError{Op: "text_search", Status: resp.Status}
	}
	if err != nil {
		res.Failed = true
		s.report(q, "text_search", err)
		s.metrics.ObserveSearch(monitoring.OutcomeFailed, time.Since(start), 0)
		log.Warn("search failed", zap.Error(err))
		return res, nil
	}

	res.Candidates = Normalize(resp.Results, s.limit)

	outcome := monitoring.OutcomeOK
	if len(res.Candidates) == 0 {
		outcome = monitoring.OutcomeEmpty
	}
	s.metrics.ObserveSearch(outcome, time.Since(start), len(res.Candidates))
	log.Info("search complete",
		zap.Int("raw", len(resp.Results)),
		zap.Int("candidates", len(res.Candidates)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

func (s *Searcher) geocode(ctx context.Context, address string) (LatLng, error) {
	resp, err := s.client.Geocode(ctx, address)
	if err != nil {
		return LatLng{}, err
	}
	if resp == nil || resp.Status != StatusOK {
		return LatLng{}, &ProviderError{Op: "geocode", Status: StatusError}
	}
	if !finite(resp.Location.Lat) || !finite(resp.Location.Lng) {
		return LatLng{}, &ProviderError{Op: "geocode", Status: StatusError}
	}
	return resp.Location, nil
}

func (s *Searcher) report(q Query, op string, err error) {
	s.metrics.ObserveProviderError(op)
	if s.onError != nil {
		s.onError(q, err)
	}
}

// Details fills c's phone, website and rating from a detail fetch. On
// failure c is returned unchanged along with the error, which is also
// passed to the ErrorHandler.
func (s *Searcher) Details(ctx context.Context, c Candidate) (Candidate, error) {
	if strings.HasPrefix(c.ExternalID, positionalPrefix) {
		// Positional ids are ours, not the provider's.
		return c, nil
	}

	resp, err := s.client.GetDetails(ctx, c.ExternalID, DefaultDetailFields)
	if err == nil && (resp == nil || resp.Status != StatusOK) {
		err = &ProviderError{Op: "details", Status: StatusError}
	}
	if err != nil {
		s.report(Query{Keywords: c.Name}, "details", err)
		return c, err
	}

	rec := resp.Record
	if v := strings.TrimSpace(rec.Phone); v != "" {
		c.Phone = v
	}
	if v := strings.TrimSpace(rec.Website); v != "" {
		c.Website = v
	}
	if rec.Rating != nil && finite(*rec.Rating) {
		v := *rec.Rating
		c.Rating = &v
	}
	return c, nil
}

// Enrich runs Details for every candidate with bounded parallelism. Order is
// preserved and failed fetches leave their candidate unchanged.
func (s *Searcher) Enrich(ctx context.Context, cands []Candidate) []Candidate {
	out := make([]Candidate, len(cands))
	copy(out, cands)

	var g errgroup.Group
	g.SetLimit(s.enrichWorkers)
	for i := range out {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			c, err := s.Details(ctx, out[i])
			if err != nil {
				s.log.Debug("detail fetch failed", zap.String("external_id", out[i].ExternalID), zap.Error(err))
				return nil
			}
			out[i] = c
			return nil
		})
	}
	_ = g.Wait()
	return out
}
