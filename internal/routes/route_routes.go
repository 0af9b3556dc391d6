package routes

import (
	"routeboard/internal/controllers"
	"routeboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RouteRoutes(r *gin.Engine) {
	routes := r.Group("/routes")
	routes.Use(middleware.RequireAuth())
	{
		routes.GET("", controllers.ListRoutes)
		routes.GET("/groups", controllers.RouteGroups)
		routes.GET("/today", controllers.TodayOverview)
		routes.GET("/:id", controllers.GetRoute)
		routes.GET("/:id/customers", controllers.RouteCustomers)
	}

	manage := r.Group("/routes")
	manage.Use(middleware.RequireAuthWithRole("dispatcher"))
	{
		manage.POST("", controllers.CreateRoute)
		manage.PATCH("/:id", controllers.UpdateRoute)
		manage.DELETE("/:id", controllers.DeleteRoute)
	}
}
