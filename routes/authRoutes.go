package routes

import (
	"github.com/Kariqs/silkstitch-api/controllers"
	"github.com/gin-gonic/gin"
)

func AuthRoutes(server *gin.Engine, ac *controllers.AuthController) {
	auth := server.Group("/auth")
	{
		auth.POST("/login", ac.Login)
	}
}
