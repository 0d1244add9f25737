package routes

import (
	"github.com/gin-gonic/gin"

	"school_mapper/internal/controllers"
)

func RouteRoutes(api *gin.RouterGroup, rc *controllers.RouteController) {
	r := api.Group("/routes")
	{
		r.POST("/bulk", rc.BulkSchoolRoutes)
		r.POST("/students/bulk", rc.BulkStudentRoutes)
		r.POST("/teachers/bulk", rc.BulkTeacherRoutes)
		r.GET("", rc.ListSchoolRoutes)
	}
}
