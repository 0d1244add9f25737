package routes

import (
	"github.com/gin-gonic/gin"

	"school_mapper/internal/controllers"
)

func PlaceRoutes(api *gin.RouterGroup, pc *controllers.PlacesController, mc *controllers.MarketsController) {
	places := api.Group("/places")
	{
		places.GET("/search", pc.Search)
		places.GET("/markets", mc.Search)
	}

	api.GET("/directions", pc.GetDirections)
}
