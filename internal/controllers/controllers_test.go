package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"school_mapper/internal/maps"
	"school_mapper/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memStore is a minimal in-memory RouteStore for handler tests.
type memStore struct {
	entries   map[services.RouteKey]*services.StoredRoute
	nextID    uint
	createErr map[string]error // by schoolId
}

func newMemStore() *memStore {
	return &memStore{entries: map[services.RouteKey]*services.StoredRoute{}, createErr: map[string]error{}}
}

func (m *memStore) RunTransaction(_ context.Context, fn func(tx services.RouteStore) error) error {
	return fn(m)
}

func (m *memStore) RunNested(_ context.Context, fn func(tx services.RouteStore) error) error {
	return fn(m)
}

func (m *memStore) FindMatching(_ context.Context, key services.RouteKey) (*services.StoredRoute, error) {
	return m.entries[key], nil
}

func (m *memStore) Create(_ context.Context, rec *services.NormalizedRoute) (*services.StoredRoute, error) {
	if err := m.createErr[rec.SchoolID]; err != nil {
		return nil, err
	}
	m.nextID++
	stored := &services.StoredRoute{ID: m.nextID, Record: *rec}
	m.entries[services.DeriveKey(rec)] = stored
	return stored, nil
}

func (m *memStore) Update(_ context.Context, id uint, rec *services.NormalizedRoute) (*services.StoredRoute, error) {
	stored := &services.StoredRoute{ID: id, Record: *rec}
	m.entries[services.DeriveKey(rec)] = stored
	return stored, nil
}

func (m *memStore) DeleteMatching(_ context.Context, keys []services.RouteKey) (int64, error) {
	var deleted int64
	for _, k := range keys {
		if _, ok := m.entries[k]; ok {
			delete(m.entries, k)
			deleted++
		}
	}
	return deleted, nil
}

func bulkRouter(st services.RouteStore) *gin.Engine {
	rc := NewRouteController(services.NewReconciler(st), nil)
	r := gin.New()
	r.POST("/api/routes/bulk", rc.BulkSchoolRoutes)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBulkRoutesRejectsNonArray(t *testing.T) {
	w := postJSON(bulkRouter(newMemStore()), "/api/routes/bulk", `{"schoolId":"S1"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestBulkRoutesAllSuccess(t *testing.T) {
	w := postJSON(bulkRouter(newMemStore()), "/api/routes/bulk",
		`[{"schoolId":"S1","amenityType":"market","travelMode":"walking","distance":120}]`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Outcome services.BatchOutcome `json:"outcome"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Outcome.CreatedCount != 1 {
		t.Errorf("createdCount = %d, want 1", resp.Outcome.CreatedCount)
	}
}

func TestBulkRoutesPartialFailure(t *testing.T) {
	st := newMemStore()
	st.createErr["S2"] = errors.New("store fault")

	w := postJSON(bulkRouter(st), "/api/routes/bulk",
		`[{"schoolId":"S1","amenityType":"market","distance":1},
		  {"schoolId":"S2","amenityType":"market","distance":1}]`)
	if w.Code != http.StatusMultiStatus {
		t.Fatalf("status = %d, want 207; body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Outcome services.BatchOutcome `json:"outcome"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Outcome.CreatedCount != 1 || len(resp.Outcome.Errors) != 1 {
		t.Errorf("outcome = %+v", resp.Outcome)
	}
}

func TestBulkRoutesIntakeRejection(t *testing.T) {
	w := postJSON(bulkRouter(newMemStore()), "/api/routes/bulk", `[{"distance":1}]`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

// staticSearcher always answers with the same results.
type staticSearcher struct {
	results []maps.PlaceResult
}

func (s *staticSearcher) SearchPlaces(context.Context, maps.PlaceQuery) ([]maps.PlaceResult, error) {
	return s.results, nil
}

func marketsRouter(results []maps.PlaceResult) *gin.Engine {
	mc := NewMarketsController(services.NewMarketFinder(&staticSearcher{results: results}))
	r := gin.New()
	r.GET("/api/places/markets", mc.Search)
	return r
}

func TestMarketsSearchValidatesCoordinates(t *testing.T) {
	r := marketsRouter(nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/places/markets?lat=abc&lng=35", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/places/markets?lat=200&lng=35", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("out-of-range lat: status = %d, want 400", w.Code)
	}
}

func TestMarketsSearchZeroResults(t *testing.T) {
	r := marketsRouter(nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/places/markets?lat=-15.8&lng=35.05", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ZERO_RESULTS") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestMarketsSearchOK(t *testing.T) {
	r := marketsRouter([]maps.PlaceResult{
		{PlaceID: "p1", Name: "Central Market", Types: []string{"point_of_interest"}},
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/places/markets?lat=-15.8&lng=35.05", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Central Market") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestSanitizeAndStripHelpers(t *testing.T) {
	if got := sanitizeInput("shopping_mall; DROP TABLE--"); strings.ContainsAny(got, ";'") {
		t.Errorf("sanitizeInput left punctuation: %q", got)
	}
	if got := stripHTML("Head <b>north</b> on M1"); got != "Head north on M1" {
		t.Errorf("stripHTML = %q", got)
	}
	if _, _, ok := parseLatLng("-15.8,35.05"); !ok {
		t.Error("valid pair rejected")
	}
	if _, _, ok := parseLatLng("-95.0,35.05"); ok {
		t.Error("out-of-range latitude accepted")
	}
	if _, _, ok := parseLatLng("-15.8"); ok {
		t.Error("single value accepted")
	}
}
