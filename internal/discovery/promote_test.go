package discovery

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sme-crm/internal/lead"
)

var promotedAt = time.Date(2024, 2, 3, 18, 30, 0, 0, time.UTC)

func cafe() Candidate {
	return Candidate{
		ExternalID: "ChIJ-cafe",
		Position:   LatLng{Lat: 40.72, Lng: -74.01},
		Name:       "Morning Cup Cafe",
		Category:   "cafe",
		Address:    "12 Hudson St, New York",
		Rating:     ptr(4.3),
		Phone:      "(212) 555-0199",
		Website:    "https://morningcup.example",
	}
}

func TestPromote(t *testing.T) {
	l, err := Promote(cafe(), promotedAt)
	require.NoError(t, err)

	assert.Zero(t, l.ID)
	assert.Equal(t, "Morning Cup Cafe", l.Name)
	assert.Equal(t, lead.CategoryRestaurant, l.Category)
	assert.Equal(t, "12 Hudson St, New York", l.Address)
	assert.Equal(t, "(212) 555-0199", l.Phone)
	assert.Equal(t, lead.StatusNew, l.Status)
	assert.InDelta(t, 4.3, l.Rating, 0.0001)
	assert.Equal(t, "2024-02-03", l.LastContact)
	assert.Empty(t, l.Notes)
	require.NotNil(t, l.Website)
	assert.Equal(t, "https://morningcup.example", *l.Website)
	assert.Nil(t, l.ContactPerson)
}

func TestPromote_FormatsPhone(t *testing.T) {
	c := cafe()
	c.Phone = "+1 650-253-0000"

	l, err := Promote(c, promotedAt)
	require.NoError(t, err)
	assert.Equal(t, "(650) 253-0000", l.Phone)
}

func TestPromote_Options(t *testing.T) {
	l, err := Promote(cafe(), promotedAt, WithName("Morning Cup Cafe (Copy)"), WithNotes(SearchResultNote))
	require.NoError(t, err)
	assert.Equal(t, "Morning Cup Cafe (Copy)", l.Name)
	assert.Equal(t, "Added from search results", l.Notes)
}

func TestPromote_RatingDefaults(t *testing.T) {
	c := cafe()
	c.Rating = nil
	l, err := Promote(c, promotedAt)
	require.NoError(t, err)
	assert.Zero(t, l.Rating)

	c.Rating = ptr(7)
	l, err = Promote(c, promotedAt)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, l.Rating, 0)
}

func TestPromote_UnknownCategoryIsOther(t *testing.T) {
	c := cafe()
	c.Category = "Business"
	l, err := Promote(c, promotedAt)
	require.NoError(t, err)
	assert.Equal(t, lead.CategoryOther, l.Category)
}

func TestPromote_InvalidCandidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Candidate)
		opts   []PromoteOption
	}{
		{"empty name", func(c *Candidate) { c.Name = "" }, nil},
		{"blank name", func(c *Candidate) { c.Name = "   " }, nil},
		{"empty address", func(c *Candidate) { c.Address = "" }, nil},
		{"blank override name", func(c *Candidate) { c.Name = "" }, []PromoteOption{WithName("  ")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cafe()
			tt.mutate(&c)
			_, err := Promote(c, promotedAt, tt.opts...)
			assert.ErrorIs(t, err, ErrInvalidCandidate)
		})
	}
}

func TestPromote_PlaceholderValuesArePromotable(t *testing.T) {
	c := Normalize([]ProviderRecord{{ExternalID: "x"}}, 1)[0]
	l, err := Promote(c, promotedAt)
	require.NoError(t, err)
	assert.Equal(t, "Unknown Business", l.Name)
}

func newStore(t *testing.T) *lead.Store {
	t.Helper()
	s, err := lead.NewStore(lead.WithSeed([]lead.Lead{{
		ID: 2, Name: "Tech Solutions Inc", Category: lead.CategoryTechnology,
		Address: "456 Business Ave, Tech District", Status: lead.StatusContacted, LastContact: "2024-01-12",
	}}))
	require.NoError(t, err)
	return s
}

func TestPromoteTo_CreatesThenMatches(t *testing.T) {
	s := newStore(t)
	c := cafe()

	created, res, err := PromoteTo(s, c, promotedAt, WithNotes(SearchResultNote))
	require.NoError(t, err)
	assert.Equal(t, MatchNew, res.Kind)
	assert.Equal(t, int64(3), created.ID)
	assert.Equal(t, "2024-02-03", created.LastContact)

	got, err := s.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	assert.Equal(t, MatchResult{Kind: MatchDuplicate, LeadID: created.ID}, Match(c, s.List()))
}

func TestPromoteTo_Duplicate(t *testing.T) {
	s := newStore(t)
	c := Candidate{ExternalID: "dup", Name: "TECH SOLUTIONS INC", Address: " 456 Business Ave,  Tech District"}

	created, res, err := PromoteTo(s, c, promotedAt)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateLead))
	assert.Nil(t, created)
	assert.Equal(t, MatchResult{Kind: MatchDuplicate, LeadID: 2}, res)
	assert.Equal(t, 1, s.Len())
}

func TestPromoteTo_CopyBypassesDuplicate(t *testing.T) {
	s := newStore(t)
	c := Candidate{ExternalID: "dup", Name: "Tech Solutions Inc", Address: "456 Business Ave, Tech District"}

	created, res, err := PromoteTo(s, c, promotedAt, WithName(c.Name+" (Copy)"))
	require.NoError(t, err)
	assert.Equal(t, MatchNew, res.Kind)
	assert.Equal(t, "Tech Solutions Inc (Copy)", created.Name)
	assert.Equal(t, 2, s.Len())
}

func TestPromoteTo_Invalid(t *testing.T) {
	s := newStore(t)
	_, _, err := PromoteTo(s, Candidate{Name: "x"}, promotedAt)
	assert.ErrorIs(t, err, ErrInvalidCandidate)
	assert.Equal(t, 1, s.Len())
}
