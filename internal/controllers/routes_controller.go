package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	geojson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
	"gorm.io/gorm"

	"school_mapper/internal/models"
	"school_mapper/internal/services"
	"school_mapper/internal/store"
)

// RouteController serves the bulk route reconciliation endpoints for
// the three route variants and the school-route read-back endpoint.
type RouteController struct {
	reconciler *services.Reconciler
	store      *store.GormStore
}

// NewRouteController wires the controller to its collaborators.
func NewRouteController(reconciler *services.Reconciler, st *store.GormStore) *RouteController {
	return &RouteController{reconciler: reconciler, store: st}
}

// BulkSchoolRoutes ingests school→place routes. The default strategy
// upserts by composite key; ?strategy=replace deletes every stored
// row matching the batch's keys first and inserts fresh. Replace is
// not safe to run concurrently on overlapping schools; callers must
// serialize those submissions.
func (rc *RouteController) BulkSchoolRoutes(c *gin.Context) {
	strategy := services.StrategyUpsert
	if c.Query("strategy") == string(services.StrategyReplace) {
		strategy = services.StrategyReplace
	}
	rc.reconcile(c, services.VariantSchool, strategy)
}

// BulkStudentRoutes ingests student→school routes (update-wins).
func (rc *RouteController) BulkStudentRoutes(c *gin.Context) {
	rc.reconcile(c, services.VariantStudent, services.StrategyUpsert)
}

// BulkTeacherRoutes ingests teacher→school routes (update-wins).
func (rc *RouteController) BulkTeacherRoutes(c *gin.Context) {
	rc.reconcile(c, services.VariantTeacher, services.StrategyUpsert)
}

func (rc *RouteController) reconcile(c *gin.Context, variant services.Variant, strategy services.Strategy) {
	var rawRecords []map[string]any
	if err := c.ShouldBindJSON(&rawRecords); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Expected an array of route objects",
			"details": err.Error(),
		})
		return
	}

	started := time.Now()
	outcome, err := rc.reconciler.ReconcileRoutes(c.Request.Context(), variant, strategy, rawRecords)
	if err != nil {
		// Only intake rejection escapes the reconciler as an error.
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    err.Error(),
			"rejected": outcome.Rejected,
			"received": len(rawRecords),
		})
		return
	}

	logrus.WithFields(logrus.Fields{
		"variant":  variant,
		"strategy": strategy,
		"created":  outcome.CreatedCount,
		"updated":  outcome.UpdatedCount,
		"skipped":  outcome.SkippedCount,
		"errors":   len(outcome.Errors),
		"elapsed":  time.Since(started).String(),
	}).Info("bulk route reconciliation finished")

	status := http.StatusCreated
	message := "All routes processed successfully"
	if outcome.State() == services.BatchCompletedWithErrors {
		status = http.StatusMultiStatus
		message = "Some routes failed to process"
	}
	c.JSON(status, gin.H{
		"message": message,
		"outcome": outcome,
	})
}

// SchoolRouteResponse mirrors models.SchoolRoute with the stored WKB
// geometry rendered as a GeoJSON string.
type SchoolRouteResponse struct {
	ID          uint           `json:"ID"`
	CreatedAt   time.Time      `json:"CreatedAt"`
	UpdatedAt   time.Time      `json:"UpdatedAt"`
	DeletedAt   gorm.DeletedAt `json:"DeletedAt,omitempty"`
	SchoolID    string         `json:"school_id"`
	SchoolName  string         `json:"school_name"`
	AmenityType string         `json:"amenity_type"`
	TravelMode  string         `json:"travel_mode"`
	Place       string         `json:"place"`
	PlaceID     string         `json:"place_id"`
	Distance    float64        `json:"distance"`
	Duration    int            `json:"duration"`
	Geometry    string         `json:"geometry,omitempty"`
	Division    string         `json:"division"`
	District    string         `json:"district"`
	Zone        string         `json:"zone"`
}

func toSchoolRouteResponse(route models.SchoolRoute) SchoolRouteResponse {
	jsonGeom, _ := convertWKBToGeoJSON(route.Geometry)
	return SchoolRouteResponse{
		ID:          route.ID,
		CreatedAt:   route.CreatedAt,
		UpdatedAt:   route.UpdatedAt,
		DeletedAt:   route.DeletedAt,
		SchoolID:    route.SchoolID,
		SchoolName:  route.SchoolName,
		AmenityType: route.AmenityType,
		TravelMode:  route.TravelMode,
		Place:       route.Place,
		PlaceID:     route.PlaceID,
		Distance:    route.Distance,
		Duration:    route.Duration,
		Geometry:    jsonGeom,
		Division:    route.Division,
		District:    route.District,
		Zone:        route.Zone,
	}
}

// convertWKBToGeoJSON renders stored WKB geometry as a GeoJSON string.
func convertWKBToGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := geojson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ListSchoolRoutes returns stored school routes, optionally filtered
// by schoolId.
func (rc *RouteController) ListSchoolRoutes(c *gin.Context) {
	routes, err := rc.store.ListSchoolRoutes(c.Request.Context(), c.Query("schoolId"))
	if err != nil {
		logrus.WithError(err).Error("ListSchoolRoutes: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch routes"})
		return
	}

	responses := make([]SchoolRouteResponse, 0, len(routes))
	for _, r := range routes {
		responses = append(responses, toSchoolRouteResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"routes": responses})
}
