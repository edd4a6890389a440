package discovery

import (
	"math"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/sme-crm/internal/lead"
)

// SearchResultNote is the annotation used for leads added from the map.
const SearchResultNote = "Added from search results"

// PromoteOption adjusts the lead built by Promote.
type PromoteOption func(*promoteOpts)

type promoteOpts struct {
	name  string
	notes string
}

// WithName replaces the candidate's name, e.g. to add a "(Copy)" suffix.
func WithName(name string) PromoteOption {
	return func(o *promoteOpts) {
		o.name = name
	}
}

// WithNotes sets the new lead's notes.
func WithNotes(notes string) PromoteOption {
	return func(o *promoteOpts) {
		o.notes = notes
	}
}

// Promote builds a draft lead from c: status New, the candidate's rating or
// zero, and LastContact set to the date of now. The draft has no id; the
// store assigns one on create. Promote fails with ErrInvalidCandidate when
// the name or address is blank.
func Promote(c Candidate, now time.Time, opts ...PromoteOption) (lead.Lead, error) {
	var o promoteOpts
	for _, opt := range opts {
		opt(&o)
	}

	name := strings.TrimSpace(c.Name)
	if o.name != "" {
		name = strings.TrimSpace(o.name)
	}
	address := strings.TrimSpace(c.Address)
	if name == "" || address == "" {
		return lead.Lead{}, eris.Wrapf(ErrInvalidCandidate, "discovery: promote %q: name and address are required", c.ExternalID)
	}

	return lead.Lead{
		Name:        name,
		Category:    lead.CategoryFor(c.Category),
		Address:     address,
		Phone:       lead.FormatPhone(c.Phone),
		Status:      lead.StatusNew,
		Rating:      clampRating(c.Rating),
		LastContact: now.Format(lead.DateLayout),
		Notes:       o.notes,
		Website:     lead.StringPtr(c.Website),
	}, nil
}

func clampRating(r *float64) float64 {
	if r == nil || math.IsNaN(*r) {
		return 0
	}
	return math.Max(0, math.Min(5, *r))
}

// LeadCreator is the part of the lead store PromoteTo needs.
type LeadCreator interface {
	CreateChecked(l lead.Lead, check func(existing []lead.Lead) error) (*lead.Lead, error)
}

// PromoteTo promotes c and adds it to store unless an equal lead is already
// there. On a duplicate the store is untouched and the error wraps
// ErrDuplicateLead; the returned MatchResult names the existing lead. The
// duplicate check and the insert happen atomically.
func PromoteTo(store LeadCreator, c Candidate, now time.Time, opts ...PromoteOption) (*lead.Lead, MatchResult, error) {
	draft, err := Promote(c, now, opts...)
	if err != nil {
		return nil, MatchResult{}, err
	}

	var res MatchResult
	created, err := store.CreateChecked(draft, func(existing []lead.Lead) error {
		res = Match(Candidate{Name: draft.Name, Address: draft.Address}, existing)
		if res.Duplicate() {
			return eris.Wrapf(ErrDuplicateLead, "discovery: %q already exists as lead %d", draft.Name, res.LeadID)
		}
		return nil
	})
	if err != nil {
		return nil, res, err
	}

	zap.L().Info("candidate promoted",
		zap.String("external_id", c.ExternalID),
		zap.Int64("lead_id", created.ID),
	)
	return created, res, nil
}
