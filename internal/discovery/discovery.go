// Package discovery turns place-search queries into de-duplicated candidate
// businesses and reconciles those candidates with the lead store.
package discovery

import (
	"github.com/rotisserie/eris"
)

// Discovery errors.
var (
	// ErrInvalidCandidate is returned when promoting a candidate that has no
	// name or no address.
	ErrInvalidCandidate = eris.New("discovery: invalid candidate")
	// ErrProvider marks a failed or non-OK places provider call.
	ErrProvider = eris.New("discovery: provider error")
	// ErrDuplicateLead is returned when a promoted candidate matches an
	// existing lead.
	ErrDuplicateLead = eris.New("discovery: duplicate lead")
	// ErrEmptyQuery is returned for a search with no query text at all.
	ErrEmptyQuery = eris.New("discovery: empty query")
)

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ProviderRecord is a raw business record as the places provider returns it.
// Any field may be missing.
type ProviderRecord struct {
	ExternalID string
	Name       string
	Types      []string
	Address    string
	Location   *LatLng
	Rating     *float64
	Phone      string
	Website    string
}

// Candidate is a normalized search result. It is transient and never
// stored on its own; promoting it creates a lead.
type Candidate struct {
	ExternalID string   `json:"external_id"`
	Position   LatLng   `json:"position"`
	Degraded   bool     `json:"degraded,omitempty"` // Position is the (0,0) marker
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	Address    string   `json:"address"`
	Rating     *float64 `json:"rating,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Website    string   `json:"website,omitempty"`
}

// Record converts c back into provider form, such that normalizing the
// record yields c again.
func (c Candidate) Record() ProviderRecord {
	r := ProviderRecord{
		ExternalID: c.ExternalID,
		Name:       c.Name,
		Types:      []string{c.Category},
		Address:    c.Address,
		Phone:      c.Phone,
		Website:    c.Website,
	}
	if !c.Degraded {
		pos := c.Position
		r.Location = &pos
	}
	if c.Rating != nil {
		v := *c.Rating
		r.Rating = &v
	}
	return r
}

// Query is one search request. Keywords is the free text; Location and
// Category narrow it.
type Query struct {
	Keywords string `json:"query"`
	Location string `json:"location,omitempty"`
	Category string `json:"category,omitempty"`
}

// Result is the outcome of one dispatched search.
type Result struct {
	ID         string      `json:"id"`
	Generation uint64      `json:"-"`
	Query      Query       `json:"query"`
	Center     LatLng      `json:"center"`
	Candidates []Candidate `json:"candidates"`
	// Failed is set when the provider call failed. Candidates is then
	// empty and should not replace what is currently shown.
	Failed bool `json:"failed,omitempty"`
}
