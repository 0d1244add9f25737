package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// MaxRadius is the largest search radius (meters) the provider
	// accepts; larger requests are clamped before leaving the client.
	MaxRadius = 50000

	defaultBaseURL = "https://maps.googleapis.com/maps/api"
	apiTimeout     = 20 * time.Second
)

// Client talks to the Google Maps web services. It is the only place
// the provider's wire format is known; callers see PlaceResult and
// Route values.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// ClientOption tunes a Client at construction.
type ClientOption func(*Client)

// WithBaseURL points the client at a different API host, used by
// tests to aim at a local server.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient builds a provider client authenticated with apiKey.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: apiTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchPlaces runs one place search. Text search when q.Query is
// set, nearby search otherwise. A zero-result response is not an
// error; it returns an empty slice.
func (c *Client) SearchPlaces(ctx context.Context, q PlaceQuery) ([]PlaceResult, error) {
	endpoint := "nearbysearch"
	if q.Query != "" {
		endpoint = "textsearch"
	}

	params := url.Values{}
	if q.Query != "" {
		params.Set("query", q.Query)
	}
	if q.Type != "" {
		params.Set("type", q.Type)
	}
	if q.Keyword != "" {
		params.Set("keyword", q.Keyword)
	}
	params.Set("location", fmt.Sprintf("%g,%g", q.Lat, q.Lng))
	params.Set("radius", strconv.Itoa(clampRadius(q.Radius)))
	params.Set("key", c.apiKey)

	var resp placesResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/place/%s/json", c.baseURL, endpoint), params, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "OK" && resp.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("places API status %s: %s", resp.Status, resp.ErrorMessage)
	}

	results := make([]PlaceResult, 0, len(resp.Results))
	for _, p := range resp.Results {
		results = append(results, PlaceResult{
			PlaceID:     p.PlaceID,
			Name:        p.Name,
			Location:    p.Geometry.Location,
			Address:     p.Vicinity,
			Types:       p.Types,
			Rating:      p.Rating,
			RatingCount: p.UserRatingsTotal,
		})
	}
	return results, nil
}

// GetDirections fetches one route between two "lat,lng" endpoints.
func (c *Client) GetDirections(ctx context.Context, origin, destination, mode string) (*Route, error) {
	params := url.Values{}
	params.Set("origin", origin)
	params.Set("destination", destination)
	params.Set("mode", mode)
	params.Set("alternatives", "false")
	params.Set("key", c.apiKey)

	var resp directionsResponse
	if err := c.getJSON(ctx, c.baseURL+"/directions/json", params, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "OK" {
		return nil, fmt.Errorf("directions API status %s: %s", resp.Status, resp.ErrorMessage)
	}
	if len(resp.Routes) == 0 {
		return nil, fmt.Errorf("directions API returned no routes")
	}
	return &resp.Routes[0], nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("maps API returned HTTP %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func clampRadius(radius int) int {
	if radius > MaxRadius {
		return MaxRadius
	}
	return radius
}
