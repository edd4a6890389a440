package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sells-group/sme-crm/internal/discovery"
)

type searchRequest struct {
	discovery.Query
	// Enrich fetches phone, website and rating for every candidate.
	Enrich bool `json:"enrich,omitempty"`
}

// annotatedCandidate is a candidate plus how it relates to the current
// leads, so a client can mark already-added results.
type annotatedCandidate struct {
	discovery.Candidate
	Match  string `json:"match"`
	LeadID int64  `json:"lead_id,omitempty"`
}

type searchResponse struct {
	ID         string               `json:"id"`
	Query      discovery.Query      `json:"query"`
	Center     discovery.LatLng     `json:"center"`
	Failed     bool                 `json:"failed,omitempty"`
	Candidates []annotatedCandidate `json:"candidates"`
}

func (s *server) search(w http.ResponseWriter, r *http.Request) {
	if s.searcher == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "search is not configured"})
		return
	}
	var req searchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.searcher.Search(r.Context(), req.Query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cands := res.Candidates
	if req.Enrich && len(cands) > 0 {
		cands = s.searcher.Enrich(r.Context(), cands)
	}

	leads := s.store.List()
	out := searchResponse{
		ID:         res.ID,
		Query:      res.Query,
		Center:     res.Center,
		Failed:     res.Failed,
		Candidates: make([]annotatedCandidate, 0, len(cands)),
	}
	for _, c := range cands {
		m := discovery.Match(c, leads)
		out.Candidates = append(out.Candidates, annotatedCandidate{Candidate: c, Match: m.Kind.String(), LeadID: m.LeadID})
	}
	writeJSON(w, http.StatusOK, out)
}

type promoteRequest struct {
	Candidate discovery.Candidate `json:"candidate"`
	// Name overrides the candidate name, e.g. to add a copy of a lead that
	// already exists.
	Name  string  `json:"name,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

func (s *server) promote(w http.ResponseWriter, r *http.Request) {
	var req promoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := []discovery.PromoteOption{discovery.WithNotes(discovery.SearchResultNote)}
	if req.Notes != nil {
		opts = append(opts, discovery.WithNotes(*req.Notes))
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		opts = append(opts, discovery.WithName(name))
	}

	created, match, err := discovery.PromoteTo(s.store, req.Candidate, s.now(), opts...)
	switch {
	case errors.Is(err, discovery.ErrDuplicateLead):
		s.metrics.ObservePromotion("duplicate")
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), LeadID: match.LeadID})
		return
	case err != nil:
		s.metrics.ObservePromotion("invalid")
		s.writeError(w, r, err)
		return
	}
	s.metrics.ObservePromotion("created")
	writeJSON(w, http.StatusCreated, created)
}
