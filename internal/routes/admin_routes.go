package routes

import (
	"routeboard/internal/controllers"
	"routeboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuthWithRole("admin"))
	{
		admin.GET("/staff", controllers.ListStaff)
		admin.GET("/vehicles", controllers.ListVehicles)
		admin.GET("/drivers", controllers.ListDrivers)
	}
}
