package discovery

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_DedupThenCap(t *testing.T) {
	recs := records(25)
	recs[7].ExternalID = "place-3"
	recs[12].ExternalID = "place-3"

	got := Normalize(recs, DefaultResultCap)

	require.Len(t, got, 20)
	seen := map[string]bool{}
	for _, c := range got {
		assert.False(t, seen[c.ExternalID], "duplicate %s", c.ExternalID)
		seen[c.ExternalID] = true
	}
	assert.Equal(t, "Business 3", got[3].Name, "first occurrence wins")
	assert.Equal(t, "place-21", got[19].ExternalID)
}

func TestNormalize_PreservesOrder(t *testing.T) {
	got := Normalize(records(5), 20)
	require.Len(t, got, 5)
	for i, c := range got {
		assert.Equal(t, records(5)[i].ExternalID, c.ExternalID)
	}
}

func TestNormalize_Fallbacks(t *testing.T) {
	got := Normalize([]ProviderRecord{{}, {ExternalID: "x", Name: "  ", Address: "\t"}}, 20)

	require.Len(t, got, 2)
	assert.Equal(t, "idx-0", got[0].ExternalID)
	assert.Equal(t, "Unknown Business", got[0].Name)
	assert.Equal(t, "Business", got[0].Category)
	assert.Equal(t, "Address not available", got[0].Address)
	assert.True(t, got[0].Degraded)
	assert.Equal(t, LatLng{}, got[0].Position)
	assert.Nil(t, got[0].Rating)

	assert.Equal(t, "x", got[1].ExternalID)
	assert.Equal(t, "Unknown Business", got[1].Name)
	assert.Equal(t, "Address not available", got[1].Address)
}

func TestNormalize_Category(t *testing.T) {
	tests := []struct {
		types []string
		want  string
	}{
		{[]string{"meal_takeaway", "restaurant"}, "meal takeaway"},
		{[]string{"", "  ", "car_wash"}, "car wash"},
		{[]string{"_"}, "Business"},
		{nil, "Business"},
	}
	for _, tt := range tests {
		got := Normalize([]ProviderRecord{{ExternalID: "a", Types: tt.types}}, 1)
		require.Len(t, got, 1)
		assert.Equal(t, tt.want, got[0].Category, "types=%v", tt.types)
	}
}

func TestNormalize_NonFiniteCoordinates(t *testing.T) {
	got := Normalize([]ProviderRecord{
		{ExternalID: "nan", Location: &LatLng{Lat: math.NaN(), Lng: 1}},
		{ExternalID: "inf", Location: &LatLng{Lat: 1, Lng: math.Inf(1)}},
		{ExternalID: "ok", Location: &LatLng{Lat: 30.1, Lng: -97.7}, Rating: ptr(math.NaN())},
	}, 20)

	require.Len(t, got, 3)
	assert.True(t, got[0].Degraded)
	assert.Equal(t, LatLng{}, got[0].Position)
	assert.True(t, got[1].Degraded)
	assert.False(t, got[2].Degraded)
	assert.Equal(t, LatLng{Lat: 30.1, Lng: -97.7}, got[2].Position)
	assert.Nil(t, got[2].Rating)
}

func TestNormalize_Limits(t *testing.T) {
	assert.Empty(t, Normalize(records(5), 0))
	assert.Empty(t, Normalize(records(5), -3))
	assert.Empty(t, Normalize(nil, 20))
	assert.Len(t, Normalize(records(5), 3), 3)
}

func TestNormalize_Idempotent(t *testing.T) {
	recs := append(records(4),
		ProviderRecord{},
		ProviderRecord{ExternalID: "r", Name: " Cafe ", Types: []string{"coffee_shop"}, Rating: ptr(4.4)},
	)
	first := Normalize(recs, 20)

	back := make([]ProviderRecord, len(first))
	for i, c := range first {
		back[i] = c.Record()
	}
	assert.Equal(t, first, Normalize(back, 20))
}

func TestNormalize_DoesNotAliasInput(t *testing.T) {
	recs := []ProviderRecord{{ExternalID: "a", Location: &LatLng{Lat: 1, Lng: 2}, Rating: ptr(3)}}
	got := Normalize(recs, 1)

	*recs[0].Rating = 5
	recs[0].Location.Lat = 9

	assert.InDelta(t, 3.0, *got[0].Rating, 0)
	assert.InDelta(t, 1.0, got[0].Position.Lat, 0)
}

func TestFilterDegraded(t *testing.T) {
	cands := Normalize([]ProviderRecord{
		{ExternalID: "a", Location: &LatLng{Lat: 1, Lng: 1}},
		{ExternalID: "b"},
		{ExternalID: "c", Location: &LatLng{Lat: 2, Lng: 2}},
	}, 20)

	got := FilterDegraded(cands)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ExternalID)
	assert.Equal(t, "c", got[1].ExternalID)
}

func TestNormalize_PositionalIDDoesNotShadowProviderID(t *testing.T) {
	tests := []struct {
		name    string
		records []ProviderRecord
	}{
		{"provider id first", []ProviderRecord{{ExternalID: "idx-1", Name: "A"}, {Name: "B"}}},
		{"provider id later", []ProviderRecord{{Name: "A"}, {Name: "B"}, {ExternalID: "idx-1", Name: "C"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.records, 20)
			require.Len(t, got, len(tt.records))

			ids := map[string]bool{}
			for _, c := range got {
				assert.False(t, ids[c.ExternalID], "duplicate id %q", c.ExternalID)
				ids[c.ExternalID] = true
			}
			assert.True(t, ids["idx-1"])
		})
	}
}
