// Package google is a small client for the Google Places API (New).
package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://places.googleapis.com/v1"

// textSearchFieldMask lists the fields a text search returns. Phone and
// website are billed at a higher tier, so they are left to PlaceDetails.
const textSearchFieldMask = "places.id,places.displayName,places.formattedAddress,places.location,places.types,places.rating"

// DefaultDetailFields is the field set fetched when a candidate is opened.
var DefaultDetailFields = []string{"displayName", "formattedAddress", "nationalPhoneNumber", "websiteUri", "rating"}

// Client performs Google Places API operations.
type Client interface {
	TextSearch(ctx context.Context, req TextSearchRequest) (*TextSearchResponse, error)
	PlaceDetails(ctx context.Context, placeID string, fields []string) (*Place, error)
}

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Circle is a search area around a center point.
type Circle struct {
	Center LatLng  `json:"center"`
	Radius float64 `json:"radius"`
}

// LocationBias prefers, but does not restrict to, results inside Circle.
type LocationBias struct {
	Circle Circle `json:"circle"`
}

// TextSearchRequest is the body of a Places Text Search call.
type TextSearchRequest struct {
	TextQuery    string        `json:"textQuery"`
	LocationBias *LocationBias `json:"locationBias,omitempty"`
	PageSize     int           `json:"pageSize,omitempty"`
}

// TextSearchResponse is the response from Places Text Search.
type TextSearchResponse struct {
	Places []Place `json:"places"`
}

// Place represents a place returned by the API. Fields not in the request's
// field mask are left at their zero value.
type Place struct {
	ID                  string      `json:"id"`
	DisplayName         DisplayName `json:"displayName"`
	FormattedAddress    string      `json:"formattedAddress,omitempty"`
	Location            *LatLng     `json:"location,omitempty"`
	Types               []string    `json:"types,omitempty"`
	Rating              *float64    `json:"rating,omitempty"`
	UserRatingCount     int         `json:"userRatingCount,omitempty"`
	NationalPhoneNumber string      `json:"nationalPhoneNumber,omitempty"`
	WebsiteURI          string      `json:"websiteUri,omitempty"`
}

// DisplayName holds the place's display name.
type DisplayName struct {
	Text string `json:"text"`
}

// APIError is returned for non-200 responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("google: unexpected status %d: %s", e.StatusCode, e.Body)
}

// HTTPStatus returns the response status code.
func (e *APIError) HTTPStatus() int { return e.StatusCode }

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Google Places API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(10, 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) TextSearch(ctx context.Context, req TextSearchRequest) (*TextSearchResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "google: marshal request")
	}

	var result TextSearchResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/places:searchText", textSearchFieldMask, bytes.NewReader(body), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) PlaceDetails(ctx context.Context, placeID string, fields []string) (*Place, error) {
	if placeID == "" {
		return nil, eris.New("google: place id is required")
	}
	if len(fields) == 0 {
		fields = DefaultDetailFields
	}

	var place Place
	endpoint := c.baseURL + "/places/" + url.PathEscape(placeID)
	if err := c.do(ctx, http.MethodGet, endpoint, strings.Join(fields, ","), nil, &place); err != nil {
		return nil, err
	}
	return &place, nil
}

func (c *httpClient) do(ctx context.Context, method, endpoint, fieldMask string, body io.Reader, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "google: rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return eris.Wrap(err, "google: create request")
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "google: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "google: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "google: unmarshal response")
	}
	return nil
}
