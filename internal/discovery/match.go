package discovery

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/sells-group/sme-crm/internal/lead"
)

// MatchKind says whether a candidate is already a lead.
type MatchKind int

// Match kinds.
const (
	MatchNew MatchKind = iota
	MatchDuplicate
)

func (k MatchKind) String() string {
	if k == MatchDuplicate {
		return "duplicate"
	}
	return "new"
}

// MatchResult is the outcome of Match. LeadID is set for MatchDuplicate.
type MatchResult struct {
	Kind   MatchKind
	LeadID int64
}

// Duplicate reports whether the candidate matched an existing lead.
func (m MatchResult) Duplicate() bool { return m.Kind == MatchDuplicate }

// Match reports whether c is already among leads. A lead matches when both
// its name and address equal the candidate's after trimming, collapsing
// whitespace runs and folding case. The first matching lead wins.
func Match(c Candidate, leads []lead.Lead) MatchResult {
	name, addr := matchKey(c.Name), matchKey(c.Address)
	for _, l := range leads {
		if matchKey(l.Name) == name && matchKey(l.Address) == addr {
			return MatchResult{Kind: MatchDuplicate, LeadID: l.ID}
		}
	}
	return MatchResult{Kind: MatchNew}
}

// matchKey builds a fresh Caser per call; Casers keep state and must not be
// shared across goroutines.
func matchKey(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}
