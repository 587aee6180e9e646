package routes

import (
	"github.com/Kariqs/silkstitch-api/controllers"
	"github.com/gin-gonic/gin"
)

func StorefrontRoutes(server *gin.Engine, sc *controllers.StorefrontController) {
	storefront := server.Group("/storefront")
	{
		storefront.GET("/new-arrivals", sc.NewArrivals)
		storefront.GET("/sale", sc.Sale)
		storefront.GET("/most-loved", sc.MostLoved)
		storefront.GET("/collections", sc.Collections)
	}
	server.POST("/contact", sc.Contact)
}
