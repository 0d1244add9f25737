package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"school_mapper/internal/controllers"
	"school_mapper/internal/middleware"
)

// SetupRouter builds the gin engine and registers every route group.
func SetupRouter(rc *controllers.RouteController, pc *controllers.PlacesController, mc *controllers.MarketsController) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")
	RouteRoutes(api, rc)
	PlaceRoutes(api, pc, mc)

	return r
}
