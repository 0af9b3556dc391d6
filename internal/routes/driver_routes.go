package routes

import (
	"routeboard/internal/controllers"
	"routeboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

func DriverRoutes(r *gin.Engine) {
	driver := r.Group("/drivers")
	driver.Use(middleware.RequireAuthWithRole("dispatcher"))
	{
		driver.GET("", controllers.ListDrivers)
		driver.PATCH("/:id/vehicle", controllers.AssignDriverVehicle)
	}
}
