package discovery

import (
	"context"
	"fmt"
)

// Status is the outcome reported by a places provider call.
type Status string

// Provider statuses.
const (
	StatusOK          Status = "OK"
	StatusZeroResults Status = "ZERO_RESULTS"
	StatusError       Status = "ERROR"
)

// SearchResponse is the result of a text search.
type SearchResponse struct {
	Status  Status
	Results []ProviderRecord
}

// GeocodeResponse is the result of a geocode lookup.
type GeocodeResponse struct {
	Status   Status
	Location LatLng
}

// DetailsResponse is the result of a detail fetch for one place.
type DetailsResponse struct {
	Status Status
	Record ProviderRecord
}

// Detail field names accepted by PlaceSearchClient.GetDetails.
const (
	FieldName     = "name"
	FieldAddress  = "address"
	FieldPhone    = "phone"
	FieldWebsite  = "website"
	FieldRating   = "rating"
	FieldLocation = "location"
	FieldTypes    = "types"
)

// DefaultDetailFields are fetched when a candidate is opened.
var DefaultDetailFields = []string{FieldName, FieldPhone, FieldWebsite, FieldRating, FieldAddress}

// PlaceSearchClient is the boundary to the external places provider.
// Implementations report failure either through the error or through a
// non-OK Status; callers treat both the same way.
type PlaceSearchClient interface {
	TextSearch(ctx context.Context, query string, center LatLng, radiusMeters float64) (*SearchResponse, error)
	Geocode(ctx context.Context, address string) (*GeocodeResponse, error)
	GetDetails(ctx context.Context, externalID string, fields []string) (*DetailsResponse, error)
}

// ProviderError describes a failed provider call. It matches ErrProvider
// under errors.Is and unwraps to the transport error, if any.
type ProviderError struct {
	Op     string
	Status Status
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("discovery: %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("discovery: %s returned %s", e.Op, e.Status)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Is reports whether target is ErrProvider.
func (e *ProviderError) Is(target error) bool { return target == ErrProvider }
