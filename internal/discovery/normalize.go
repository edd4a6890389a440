package discovery

import (
	"math"
	"strconv"
	"strings"
)

// DefaultResultCap is the number of candidates kept from one search.
const DefaultResultCap = 20

const (
	fallbackCategory = "Business"
	fallbackName     = "Unknown Business"
	fallbackAddress  = "Address not available"

	positionalPrefix = "idx-"
)

// Normalize converts raw provider records into candidates, keeping provider
// order. The first record with a given ExternalID wins and later ones are
// dropped before the limit applies. Missing fields are defaulted, never
// dropped. A negative limit is treated as zero.
func Normalize(records []ProviderRecord, limit int) []Candidate {
	if limit < 0 {
		limit = 0
	}
	out := make([]Candidate, 0, min(limit, len(records)))

	// taken holds every id in the batch so positional ids never shadow a
	// provider id, wherever it appears.
	taken := make(map[string]struct{}, len(records))
	for _, r := range records {
		if id := strings.TrimSpace(r.ExternalID); id != "" {
			taken[id] = struct{}{}
		}
	}
	seen := make(map[string]struct{}, len(records))

	for i, r := range records {
		if len(out) == limit {
			break
		}
		id := strings.TrimSpace(r.ExternalID)
		if id == "" {
			id = positionalID(i, taken)
		} else if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, normalizeRecord(id, r))
	}
	return out
}

// positionalID returns "idx-<i>", suffixed until it is free in taken, and
// marks it taken.
func positionalID(i int, taken map[string]struct{}) string {
	base := positionalPrefix + strconv.Itoa(i)
	id := base
	for n := 1; ; n++ {
		if _, ok := taken[id]; !ok {
			break
		}
		id = base + "-" + strconv.Itoa(n)
	}
	taken[id] = struct{}{}
	return id
}

func normalizeRecord(id string, r ProviderRecord) Candidate {
	c := Candidate{
		ExternalID: id,
		Name:       orDefault(r.Name, fallbackName),
		Category:   fallbackCategory,
		Address:    orDefault(r.Address, fallbackAddress),
		Phone:      strings.TrimSpace(r.Phone),
		Website:    strings.TrimSpace(r.Website),
	}

	for _, t := range r.Types {
		if label := strings.TrimSpace(strings.ReplaceAll(t, "_", " ")); label != "" {
			c.Category = label
			break
		}
	}

	if r.Location != nil && finite(r.Location.Lat) && finite(r.Location.Lng) {
		c.Position = *r.Location
	} else {
		c.Degraded = true
	}

	if r.Rating != nil && finite(*r.Rating) {
		v := *r.Rating
		c.Rating = &v
	}
	return c
}

// FilterDegraded returns the candidates that have a real position, for
// placing on a map.
func FilterDegraded(cands []Candidate) []Candidate {
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if !c.Degraded {
			out = append(out, c)
		}
	}
	return out
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
