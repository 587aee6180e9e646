package routes

import (
	"github.com/Kariqs/silkstitch-api/cart"
	"github.com/Kariqs/silkstitch-api/controllers"
	"github.com/Kariqs/silkstitch-api/middlewares"
	"github.com/Kariqs/silkstitch-api/services"
	"github.com/Kariqs/silkstitch-api/storage"
	"github.com/Kariqs/silkstitch-api/utils"
	"github.com/gin-gonic/gin"
)

// Dependencies are the collaborators the HTTP surface is built from. Uploader
// and Mailer are optional.
type Dependencies struct {
	Catalog      *services.CatalogService
	Auth         *services.AuthService
	CartStore    cart.Store
	Uploader     storage.ImageUploader
	Mailer       utils.Mailer
	JWTSecret    string
	AdminAuth    bool
	SecureCookie bool
}

// Register mounts every route group on server.
func Register(server *gin.Engine, deps Dependencies) {
	var adminGuard []gin.HandlerFunc
	if deps.AdminAuth {
		adminGuard = []gin.HandlerFunc{middlewares.RequireAuth(deps.JWTSecret), middlewares.RequireAdmin()}
	}

	DefaultRoutes(server)
	AuthRoutes(server, controllers.NewAuthController(deps.Auth))
	ProductRoutes(server, controllers.NewProductController(deps.Catalog, deps.Uploader), adminGuard)
	StorefrontRoutes(server, controllers.NewStorefrontController(deps.Catalog, deps.Mailer))
	CartRoutes(server, controllers.NewCartController(deps.CartStore), deps.SecureCookie)
}
