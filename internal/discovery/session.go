package discovery

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Session holds the candidate list of one search view. Every dispatched
// search takes a generation number; a result is applied only if no newer
// search was dispatched (and no Clear happened) while it was in flight.
type Session struct {
	searcher *Searcher
	debounce *Debouncer
	log      *zap.Logger

	mu      sync.Mutex
	gen     uint64
	current []Candidate
	results chan Result
}

// SessionOption configures a Session.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	debounce time.Duration
	buffer   int
}

// WithDebounce sets the quiet period for Submit.
func WithDebounce(d time.Duration) SessionOption {
	return func(c *sessionConfig) {
		c.debounce = d
	}
}

// WithResultBuffer sets the capacity of the Results channel.
func WithResultBuffer(n int) SessionOption {
	return func(c *sessionConfig) {
		if n >= 0 {
			c.buffer = n
		}
	}
}

// NewSession creates a Session over searcher.
func NewSession(searcher *Searcher, opts ...SessionOption) *Session {
	cfg := sessionConfig{debounce: DefaultDebounce, buffer: 8}
	for _, o := range opts {
		o(&cfg)
	}
	return &Session{
		searcher: searcher,
		debounce: NewDebouncer(cfg.debounce),
		log:      zap.L().With(zap.String("component", "discovery.session")),
		current:  []Candidate{},
		results:  make(chan Result, cfg.buffer),
	}
}

// Results delivers every applied result, including failed ones so a caller
// can offer a retry. Results nobody reads are dropped once the buffer is full.
func (s *Session) Results() <-chan Result {
	return s.results
}

// Submit schedules a search for q after the debounce period. A later Submit,
// SearchNow or Clear before then cancels it.
func (s *Session) Submit(ctx context.Context, q Query) {
	s.debounce.Trigger(func() {
		if _, _, err := s.dispatch(ctx, q); err != nil {
			s.log.Debug("debounced search skipped", zap.Error(err))
		}
	})
}

// SearchNow runs a search immediately. applied is false when the result was
// discarded because a newer search or a Clear superseded it. A failed
// search is applied without changing the candidate list.
func (s *Session) SearchNow(ctx context.Context, q Query) (res Result, applied bool, err error) {
	s.debounce.Stop()
	return s.dispatch(ctx, q)
}

func (s *Session) dispatch(ctx context.Context, q Query) (res Result, applied bool, err error) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	res, err = s.searcher.Search(ctx, q)
	if err != nil {
		return res, false, err
	}
	res.Generation = gen
	return res, s.apply(res), nil
}

func (s *Session) apply(res Result) bool {
	s.mu.Lock()
	if res.Generation != s.gen {
		latest := s.gen
		s.mu.Unlock()
		s.searcher.metrics.ObserveStale()
		s.log.Debug("discarding stale search result",
			zap.String("search_id", res.ID),
			zap.Uint64("generation", res.Generation),
			zap.Uint64("latest", latest),
		)
		return false
	}
	if !res.Failed {
		s.current = append([]Candidate(nil), res.Candidates...)
	}
	s.mu.Unlock()

	select {
	case s.results <- res:
	default:
		s.log.Debug("result channel full, dropping", zap.String("search_id", res.ID))
	}
	return true
}

// Clear empties the candidate list and invalidates in-flight searches.
func (s *Session) Clear() {
	s.debounce.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.current = []Candidate{}
}

// Candidates returns a copy of the current candidate list.
func (s *Session) Candidates() []Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Candidate(nil), s.current...)
}

// Close cancels any pending debounced search.
func (s *Session) Close() {
	s.debounce.Stop()
}
