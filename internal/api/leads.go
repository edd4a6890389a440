package api

import (
	"net/http"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/sme-crm/internal/lead"
)

func (s *server) listLeads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := lead.ListOpts{
		Category: lead.Category(strings.TrimSpace(q.Get("category"))),
		Status:   lead.Status(strings.TrimSpace(q.Get("status"))),
	}
	if opts.Status != "" && !opts.Status.Valid() {
		s.writeError(w, r, eris.Wrapf(errBadRequest, "unknown status %q", opts.Status))
		return
	}
	writeJSON(w, http.StatusOK, s.store.Find(opts))
}

func (s *server) createLead(w http.ResponseWriter, r *http.Request) {
	var in lead.Lead
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := s.store.Create(in)
	s.metrics.ObserveLeadMutation("create", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) getLead(w http.ResponseWriter, r *http.Request) {
	id, err := leadID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l, err := s.store.Get(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// replaceLead saves a full lead, the way the detail view does. Any id in
// the body is ignored.
func (s *server) replaceLead(w http.ResponseWriter, r *http.Request) {
	id, err := leadID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in lead.Lead
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.update(w, r, id, lead.PatchFrom(in))
}

func (s *server) patchLead(w http.ResponseWriter, r *http.Request) {
	id, err := leadID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var p lead.Patch
	if err := decodeJSON(w, r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.update(w, r, id, p)
}

func (s *server) update(w http.ResponseWriter, r *http.Request, id int64, p lead.Patch) {
	updated, err := s.store.Update(id, p)
	s.metrics.ObserveLeadMutation("update", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *server) setLeadStatus(w http.ResponseWriter, r *http.Request) {
	id, err := leadID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body struct {
		Status lead.Status `json:"status"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	updated, err := s.store.SetStatus(id, body.Status)
	s.metrics.ObserveLeadMutation("status", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *server) deleteLead(w http.ResponseWriter, r *http.Request) {
	id, err := leadID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	err = s.store.Delete(id)
	s.metrics.ObserveLeadMutation("delete", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) leadStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Summary(lead.SummaryOpts{ConversionRate: s.conversionRate}))
}
