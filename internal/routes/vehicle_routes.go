package routes

import (
	"routeboard/internal/controllers"
	"routeboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

func VehicleRoutes(r *gin.Engine) {
	vehicle := r.Group("/vehicles")
	vehicle.Use(middleware.RequireAuth())
	{
		vehicle.GET("", controllers.ListVehicles)
		vehicle.GET("/live", controllers.LiveFleet)
	}

	manage := r.Group("/vehicles")
	manage.Use(middleware.RequireAuthWithRole("dispatcher"))
	{
		manage.POST("", controllers.CreateVehicle)
		manage.PATCH("/:id/service", controllers.UpdateVehicleService)
		manage.PATCH("/:id/route", controllers.AssignVehicleRoute)
	}
}
