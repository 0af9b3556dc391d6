package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())

	AuthRoutes(r)
	RouteRoutes(r)
	CustomerRoutes(r)
	VehicleRoutes(r)
	DriverRoutes(r)
	AdminRoutes(r)
	WebSocketRoutes(r)

	return r
}
