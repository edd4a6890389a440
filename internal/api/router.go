// Package api exposes the lead store and candidate search over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/sme-crm/internal/discovery"
	"github.com/sells-group/sme-crm/internal/lead"
	"github.com/sells-group/sme-crm/internal/monitoring"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Config wires the router's dependencies. Store is required; a nil
// Searcher disables the search route.
type Config struct {
	Store          *lead.Store
	Searcher       *discovery.Searcher
	Metrics        *monitoring.Metrics
	MetricsHandler http.Handler
	CORSOrigins    []string
	// ConversionRate is reported by the stats route as supplied.
	ConversionRate *float64
	Now            func() time.Time
}

type server struct {
	store          *lead.Store
	searcher       *discovery.Searcher
	metrics        *monitoring.Metrics
	conversionRate *float64
	now            func() time.Time
	log            *zap.Logger
}

// New builds the HTTP handler.
func New(cfg Config) http.Handler {
	s := &server{
		store:          cfg.Store,
		searcher:       cfg.Searcher,
		metrics:        cfg.Metrics,
		conversionRate: cfg.ConversionRate,
		now:            cfg.Now,
		log:            zap.L().With(zap.String("component", "api")),
	}
	if s.now == nil {
		s.now = time.Now
	}

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "SME CRM API"})
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/leads", func(r chi.Router) {
			r.Get("/", s.listLeads)
			r.Post("/", s.createLead)
			r.Get("/stats", s.leadStats)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getLead)
				r.Put("/", s.replaceLead)
				r.Patch("/", s.patchLead)
				r.Delete("/", s.deleteLead)
				r.Put("/status", s.setLeadStatus)
			})
		})
		r.Post("/search", s.search)
		r.Post("/candidates/promote", s.promote)
	})

	return r
}

// requestLogger logs each request at debug level once it completes.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
