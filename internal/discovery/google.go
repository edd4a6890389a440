package discovery

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/sme-crm/internal/resilience"
	"github.com/sells-group/sme-crm/pkg/geocode"
	"github.com/sells-group/sme-crm/pkg/google"
)

var googleDetailFields = map[string]string{
	FieldName:     "displayName",
	FieldAddress:  "formattedAddress",
	FieldPhone:    "nationalPhoneNumber",
	FieldWebsite:  "websiteUri",
	FieldRating:   "rating",
	FieldLocation: "location",
	FieldTypes:    "types",
}

// GooglePlaces is a PlaceSearchClient backed by the Google Places and
// Geocoding APIs. Transient failures are retried.
type GooglePlaces struct {
	places google.Client
	geo    geocode.Client
	policy resilience.Policy
}

// GoogleOption configures GooglePlaces.
type GoogleOption func(*GooglePlaces)

// WithRetryPolicy overrides the retry policy for provider calls.
func WithRetryPolicy(p resilience.Policy) GoogleOption {
	return func(g *GooglePlaces) {
		g.policy = p
	}
}

// NewGooglePlaces creates the Google adapter. geo may be nil, in which case
// every geocode lookup fails and searches fall back to the default center.
func NewGooglePlaces(places google.Client, geo geocode.Client, opts ...GoogleOption) *GooglePlaces {
	g := &GooglePlaces{
		places: places,
		geo:    geo,
		policy: resilience.DefaultPolicy(),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

func (g *GooglePlaces) retry(op string) resilience.Policy {
	p := g.policy
	if p.OnRetry == nil {
		p.OnRetry = resilience.LogRetries("google", op)
	}
	return p
}

// TextSearch implements PlaceSearchClient.
func (g *GooglePlaces) TextSearch(ctx context.Context, query string, center LatLng, radiusMeters float64) (*SearchResponse, error) {
	req := google.TextSearchRequest{
		TextQuery: query,
		PageSize:  DefaultResultCap,
		LocationBias: &google.LocationBias{Circle: google.Circle{
			Center: google.LatLng{Latitude: center.Lat, Longitude: center.Lng},
			Radius: radiusMeters,
		}},
	}

	resp, err := resilience.Call(ctx, g.retry("text_search"), func(ctx context.Context) (*google.TextSearchResponse, error) {
		return g.places.TextSearch(ctx, req)
	})
	if err != nil {
		return &SearchResponse{Status: StatusError}, &ProviderError{Op: "text_search", Status: StatusError, Err: err}
	}
	if len(resp.Places) == 0 {
		return &SearchResponse{Status: StatusZeroResults}, nil
	}

	out := &SearchResponse{Status: StatusOK, Results: make([]ProviderRecord, 0, len(resp.Places))}
	for _, p := range resp.Places {
		out.Results = append(out.Results, placeRecord(p))
	}
	return out, nil
}

// Geocode implements PlaceSearchClient. An address Google cannot place is
// reported as StatusError.
func (g *GooglePlaces) Geocode(ctx context.Context, address string) (*GeocodeResponse, error) {
	if g.geo == nil {
		return &GeocodeResponse{Status: StatusError}, &ProviderError{
			Op: "geocode", Status: StatusError, Err: eris.New("geocoder not configured"),
		}
	}

	r, err := resilience.Call(ctx, g.retry("geocode"), func(ctx context.Context) (*geocode.Result, error) {
		return g.geo.Geocode(ctx, address)
	})
	if err != nil {
		return &GeocodeResponse{Status: StatusError}, &ProviderError{Op: "geocode", Status: StatusError, Err: err}
	}
	if !r.Matched {
		return &GeocodeResponse{Status: StatusError}, nil
	}
	return &GeocodeResponse{
		Status:   StatusOK,
		Location: LatLng{Lat: r.Latitude, Lng: r.Longitude},
	}, nil
}

// GetDetails implements PlaceSearchClient. Unknown field names are passed
// to Google as is.
func (g *GooglePlaces) GetDetails(ctx context.Context, externalID string, fields []string) (*DetailsResponse, error) {
	if len(fields) == 0 {
		fields = DefaultDetailFields
	}
	mask := make([]string, 0, len(fields))
	for _, f := range fields {
		if gf, ok := googleDetailFields[f]; ok {
			f = gf
		}
		mask = append(mask, f)
	}

	place, err := resilience.Call(ctx, g.retry("details"), func(ctx context.Context) (*google.Place, error) {
		return g.places.PlaceDetails(ctx, externalID, mask)
	})
	if err != nil {
		return &DetailsResponse{Status: StatusError}, &ProviderError{Op: "details", Status: StatusError, Err: err}
	}

	rec := placeRecord(*place)
	if rec.ExternalID == "" {
		rec.ExternalID = externalID
	}
	return &DetailsResponse{Status: StatusOK, Record: rec}, nil
}

func placeRecord(p google.Place) ProviderRecord {
	r := ProviderRecord{
		ExternalID: p.ID,
		Name:       p.DisplayName.Text,
		Types:      p.Types,
		Address:    p.FormattedAddress,
		Phone:      p.NationalPhoneNumber,
		Website:    p.WebsiteURI,
	}
	if p.Location != nil {
		r.Location = &LatLng{Lat: p.Location.Latitude, Lng: p.Location.Longitude}
	}
	if p.Rating != nil {
		v := *p.Rating
		r.Rating = &v
	}
	return r
}
