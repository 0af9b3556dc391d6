package routes

import (
	"routeboard/internal/controllers"

	"github.com/gin-gonic/gin"
)

func WebSocketRoutes(r *gin.Engine) {
	wsRoutes := r.Group("/ws")
	{
		// Token arrives as a query parameter; validated inside the handler.
		wsRoutes.GET("/positions", controllers.HandlePositionWebSocket)
	}
}
