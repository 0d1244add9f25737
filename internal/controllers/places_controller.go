package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"school_mapper/internal/maps"
	"school_mapper/internal/services"
)

// PlacesController serves the passthrough place-search and directions
// endpoints over the maps provider.
type PlacesController struct {
	maps *maps.Client
}

// NewPlacesController wires the controller to the provider client.
func NewPlacesController(client *maps.Client) *PlacesController {
	return &PlacesController{maps: client}
}

// Search proxies a single place search. lat/lng are required; type,
// query, and radius are optional.
func (pc *PlacesController) Search(c *gin.Context) {
	lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
	lng, err2 := strconv.ParseFloat(c.Query("lng"), 64)
	if err1 != nil || err2 != nil || !validCoordinates(lat, lng) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "Invalid coordinates",
			"received": gin.H{"lat": c.Query("lat"), "lng": c.Query("lng")},
		})
		return
	}

	radius := services.DefaultSearchRadius
	if r, err := strconv.Atoi(c.Query("radius")); err == nil && r > 0 {
		radius = r
	}

	results, err := pc.maps.SearchPlaces(c.Request.Context(), maps.PlaceQuery{
		Query:  sanitizeInput(c.Query("query")),
		Type:   sanitizeInput(c.Query("type")),
		Lat:    lat,
		Lng:    lng,
		Radius: radius,
	})
	if err != nil {
		logrus.WithError(err).Error("places search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search places", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "OK", "results": results})
}

// directionsStep is a step with the provider markup stripped out.
type directionsStep struct {
	TravelMode   string         `json:"travel_mode"`
	Distance     maps.TextValue `json:"distance"`
	Duration     maps.TextValue `json:"duration"`
	Instructions string         `json:"instructions"`
}

// GetDirections fetches one turn-by-turn route between two "lat,lng"
// points and reshapes it for API consumers.
func (pc *PlacesController) GetDirections(c *gin.Context) {
	mode := c.DefaultQuery("mode", services.DefaultTravelMode)
	if !services.ValidTravelMode(mode) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Invalid travel mode %q; valid modes are walking, driving, bicycling, transit", mode),
		})
		return
	}

	origin := c.Query("origin")
	destination := c.Query("destination")
	if _, _, ok := parseLatLng(origin); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid origin coordinates format"})
		return
	}
	if _, _, ok := parseLatLng(destination); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid destination coordinates format"})
		return
	}

	route, err := pc.maps.GetDirections(c.Request.Context(), origin, destination, mode)
	if err != nil {
		logrus.WithError(err).Error("directions request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate directions", "details": err.Error()})
		return
	}

	if len(route.Legs) == 0 {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Invalid route structure from provider"})
		return
	}
	if route.OverviewPolyline.Points == "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Missing overview polyline data"})
		return
	}

	leg := route.Legs[0]
	steps := make([]directionsStep, 0, len(leg.Steps))
	for _, s := range leg.Steps {
		steps = append(steps, directionsStep{
			TravelMode:   s.TravelMode,
			Distance:     s.Distance,
			Duration:     s.Duration,
			Instructions: stripHTML(s.Instructions),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "OK",
		"routes": []gin.H{{
			"summary": route.Summary,
			"legs": []gin.H{{
				"distance":      leg.Distance,
				"duration":      leg.Duration,
				"start_address": leg.StartAddress,
				"end_address":   leg.EndAddress,
				"steps":         steps,
			}},
			"overview_polyline": route.OverviewPolyline,
			"bounds":            route.Bounds,
			"warnings":          route.Warnings,
		}},
	})
}
