package routes

import (
	"github.com/Kariqs/silkstitch-api/controllers"
	"github.com/gin-gonic/gin"
)

// ProductRoutes registers the catalog. Reads are public; writes, uploads and
// exports run behind the admin guard.
func ProductRoutes(server *gin.Engine, pc *controllers.ProductController, adminGuard []gin.HandlerFunc) {
	server.GET("/products", pc.GetProducts)
	server.GET("/products/:id", pc.GetProduct)

	admin := server.Group("/products", adminGuard...)
	{
		admin.POST("", pc.CreateProduct)
		admin.PUT("/:id", pc.UpdateProduct)
		admin.DELETE("/:id", pc.DeleteProduct)
		admin.POST("/images", pc.UploadProductImages)
		admin.GET("/export", pc.ExportProducts)
	}
}
