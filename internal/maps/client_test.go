package maps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client())), srv
}

func TestSearchPlacesEndpointSelection(t *testing.T) {
	var gotPath string
	var gotParams url.Values
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotParams = r.URL.Query()
		w.Write([]byte(`{"status":"OK","results":[]}`))
	})
	defer srv.Close()

	ctx := context.Background()

	if _, err := client.SearchPlaces(ctx, PlaceQuery{Query: "central market", Lat: -15.8, Lng: 35.05, Radius: 5000}); err != nil {
		t.Fatalf("SearchPlaces() error = %v", err)
	}
	if gotPath != "/place/textsearch/json" {
		t.Errorf("query search path = %q, want textsearch", gotPath)
	}
	if gotParams.Get("query") != "central market" || gotParams.Get("key") != "test-key" {
		t.Errorf("params = %v", gotParams)
	}

	if _, err := client.SearchPlaces(ctx, PlaceQuery{Type: "shopping_mall", Keyword: "market", Radius: 5000}); err != nil {
		t.Fatalf("SearchPlaces() error = %v", err)
	}
	if gotPath != "/place/nearbysearch/json" {
		t.Errorf("typed search path = %q, want nearbysearch", gotPath)
	}
	if gotParams.Get("type") != "shopping_mall" || gotParams.Get("keyword") != "market" {
		t.Errorf("params = %v", gotParams)
	}
}

func TestSearchPlacesClampsRadius(t *testing.T) {
	var gotRadius string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotRadius = r.URL.Query().Get("radius")
		w.Write([]byte(`{"status":"OK","results":[]}`))
	})
	defer srv.Close()

	if _, err := client.SearchPlaces(context.Background(), PlaceQuery{Type: "shopping_mall", Radius: 100000}); err != nil {
		t.Fatalf("SearchPlaces() error = %v", err)
	}
	if gotRadius != "50000" {
		t.Errorf("radius sent = %s, want 50000", gotRadius)
	}
}

func TestSearchPlacesParsesResults(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"place_id": "p1",
				"name": "Limbe Market",
				"vicinity": "Limbe, Blantyre",
				"geometry": {"location": {"lat": -15.81, "lng": 35.06}},
				"types": ["market", "point_of_interest"],
				"rating": 4.2,
				"user_ratings_total": 87
			}]
		}`))
	})
	defer srv.Close()

	results, err := client.SearchPlaces(context.Background(), PlaceQuery{Type: "market", Radius: 5000})
	if err != nil {
		t.Fatalf("SearchPlaces() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	p := results[0]
	if p.PlaceID != "p1" || p.Name != "Limbe Market" || p.Address != "Limbe, Blantyre" {
		t.Errorf("result = %+v", p)
	}
	if p.Location.Lat != -15.81 || p.Location.Lng != 35.06 {
		t.Errorf("location = %+v", p.Location)
	}
	if p.Rating != 4.2 || p.RatingCount != 87 {
		t.Errorf("rating = %v (%d)", p.Rating, p.RatingCount)
	}
}

func TestSearchPlacesStatuses(t *testing.T) {
	status := `{"status":"ZERO_RESULTS","results":[]}`
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(status))
	})
	defer srv.Close()

	results, err := client.SearchPlaces(context.Background(), PlaceQuery{Type: "market", Radius: 5000})
	if err != nil {
		t.Fatalf("ZERO_RESULTS must not be an error, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}

	status = `{"status":"REQUEST_DENIED","error_message":"bad key"}`
	if _, err := client.SearchPlaces(context.Background(), PlaceQuery{Type: "market", Radius: 5000}); err == nil {
		t.Error("REQUEST_DENIED must surface as an error")
	}
}

func TestGetDirections(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/directions/json" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("origin") != "-15.8,35.0" || q.Get("mode") != "walking" {
			t.Errorf("params = %v", q)
		}
		w.Write([]byte(`{
			"status": "OK",
			"routes": [{
				"summary": "M1",
				"overview_polyline": {"points": "abc"},
				"legs": [{
					"distance": {"text": "1.2 km", "value": 1200},
					"duration": {"text": "15 mins", "value": 900},
					"start_address": "A",
					"end_address": "B",
					"steps": [{"travel_mode": "WALKING", "html_instructions": "Head <b>north</b>"}]
				}]
			}]
		}`))
	})
	defer srv.Close()

	route, err := client.GetDirections(context.Background(), "-15.8,35.0", "-15.9,35.1", "walking")
	if err != nil {
		t.Fatalf("GetDirections() error = %v", err)
	}
	if route.Summary != "M1" || route.OverviewPolyline.Points != "abc" {
		t.Errorf("route = %+v", route)
	}
	if len(route.Legs) != 1 || route.Legs[0].Distance.Value != 1200 {
		t.Errorf("legs = %+v", route.Legs)
	}
}

func TestGetDirectionsNoRoutes(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","routes":[]}`))
	})
	defer srv.Close()

	if _, err := client.GetDirections(context.Background(), "0,0", "1,1", "walking"); err == nil {
		t.Error("empty routes must surface as an error")
	}
}
