package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"school_mapper/internal/services"
)

// MarketsController serves the multi-strategy market discovery
// endpoint.
type MarketsController struct {
	finder *services.MarketFinder
}

// NewMarketsController wires the controller to the market finder.
func NewMarketsController(finder *services.MarketFinder) *MarketsController {
	return &MarketsController{finder: finder}
}

// Search discovers markets around lat/lng. Responds 404 with
// ZERO_RESULTS only after every strategy has run empty.
func (mc *MarketsController) Search(c *gin.Context) {
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

	results, err := mc.finder.FindMarkets(c.Request.Context(), services.Coordinate{Lat: lat, Lng: lng}, radius)
	if errors.Is(err, services.ErrNoMarketsFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "ZERO_RESULTS",
			"message": "No markets found after multiple search attempts",
		})
		return
	}
	if err != nil {
		logrus.WithError(err).Error("market search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search markets", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "OK", "results": results})
}
