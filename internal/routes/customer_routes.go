package routes

import (
	"routeboard/internal/controllers"
	"routeboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

func CustomerRoutes(r *gin.Engine) {
	customers := r.Group("/customers")
	customers.Use(middleware.RequireAuth())
	{
		customers.GET("/stops", controllers.ListCustomerStops)
		customers.GET("/by-location", controllers.CustomersByLocation)
	}

	imports := r.Group("/customers")
	imports.Use(middleware.RequireAuthWithRole("dispatcher"))
	{
		imports.POST("/locations/import", controllers.ImportCustomerLocations)
	}
}
