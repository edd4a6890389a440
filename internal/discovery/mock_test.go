package discovery

import (
	"context"
	"fmt"
	"sync"
)

// fakeClient implements PlaceSearchClient for testing. Nil funcs answer
// with an empty OK response.
type fakeClient struct {
	mu       sync.Mutex
	search   func(ctx context.Context, query string, center LatLng, radius float64) (*SearchResponse, error)
	geocode  func(ctx context.Context, address string) (*GeocodeResponse, error)
	details  func(ctx context.Context, id string, fields []string) (*DetailsResponse, error)
	queries  []string
	centers  []LatLng
	detailed []string
}

func (f *fakeClient) TextSearch(ctx context.Context, query string, center LatLng, radius float64) (*SearchResponse, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.centers = append(f.centers, center)
	fn := f.search
	f.mu.Unlock()

	if fn == nil {
		return &SearchResponse{Status: StatusZeroResults}, nil
	}
	return fn(ctx, query, center, radius)
}

func (f *fakeClient) Geocode(ctx context.Context, address string) (*GeocodeResponse, error) {
	if f.geocode == nil {
		return &GeocodeResponse{Status: StatusError}, nil
	}
	return f.geocode(ctx, address)
}

func (f *fakeClient) GetDetails(ctx context.Context, id string, fields []string) (*DetailsResponse, error) {
	f.mu.Lock()
	f.detailed = append(f.detailed, id)
	f.mu.Unlock()

	if f.details == nil {
		return &DetailsResponse{Status: StatusOK, Record: ProviderRecord{ExternalID: id}}, nil
	}
	return f.details(ctx, id, fields)
}

func (f *fakeClient) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func (f *fakeClient) lastQuery() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return ""
	}
	return f.queries[len(f.queries)-1]
}

// records returns n provider records with ids place-0..place-(n-1).
func records(n int) []ProviderRecord {
	out := make([]ProviderRecord, n)
	for i := range out {
		out[i] = ProviderRecord{
			ExternalID: fmt.Sprintf("place-%d", i),
			Name:       fmt.Sprintf("Business %d", i),
			Types:      []string{"store"},
			Address:    fmt.Sprintf("%d Main St", i),
			Location:   &LatLng{Lat: 40.7, Lng: -74.0},
		}
	}
	return out
}

func okSearch(recs []ProviderRecord) func(context.Context, string, LatLng, float64) (*SearchResponse, error) {
	return func(context.Context, string, LatLng, float64) (*SearchResponse, error) {
		return &SearchResponse{Status: StatusOK, Results: recs}, nil
	}
}

func ptr(f float64) *float64 { return &f }
