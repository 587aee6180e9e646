package routes

import (
	"github.com/Kariqs/silkstitch-api/controllers"
	"github.com/Kariqs/silkstitch-api/middlewares"
	"github.com/gin-gonic/gin"
)

func CartRoutes(server *gin.Engine, cc *controllers.CartController, secureCookie bool) {
	cart := server.Group("/cart", middlewares.CartSession(secureCookie))
	{
		cart.GET("", cc.GetCart)
		cart.DELETE("", cc.ClearCart)
		cart.POST("/items", cc.AddCartItem)
		cart.PUT("/items/:id", cc.UpdateCartItem)
		cart.DELETE("/items/:id", cc.RemoveCartItem)
		cart.POST("/open", cc.OpenCart)
		cart.POST("/close", cc.CloseCart)
		cart.POST("/toggle", cc.ToggleCart)
	}
}
