package controllers

import (
	"net/http"

	"github.com/Kariqs/silkstitch-api/logger"
	"github.com/Kariqs/silkstitch-api/services"
	"github.com/Kariqs/silkstitch-api/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StorefrontController struct {
	catalog *services.CatalogService
	mailer  utils.Mailer
}

// NewStorefrontController wires the read-only storefront views and the
// contact form. mailer may be nil, in which case messages are only logged.
func NewStorefrontController(catalog *services.CatalogService, mailer utils.Mailer) *StorefrontController {
	return &StorefrontController{catalog: catalog, mailer: mailer}
}

func (sc *StorefrontController) NewArrivals(ctx *gin.Context) {
	products, err := sc.catalog.NewArrivals(ctx.Request.Context(), queryInt(ctx, "limit"))
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"products": products})
}

func (sc *StorefrontController) Sale(ctx *gin.Context) {
	products, err := sc.catalog.Sale(ctx.Request.Context(), ctx.Query("sort"), queryInt(ctx, "limit"))
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"products": products})
}

func (sc *StorefrontController) MostLoved(ctx *gin.Context) {
	products, err := sc.catalog.MostLoved(ctx.Request.Context(), queryInt(ctx, "limit"))
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"products": products})
}

func (sc *StorefrontController) Collections(ctx *gin.Context) {
	collections, err := sc.catalog.Collections(ctx.Request.Context())
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"collections": collections})
}

func (sc *StorefrontController) Contact(ctx *gin.Context) {
	var input services.ContactInput
	if err := bindJSON(ctx, &input); err != nil {
		respondWithError(ctx, err)
		return
	}
	if err := services.Validate(input); err != nil {
		respondWithError(ctx, err)
		return
	}

	reqCtx := ctx.Request.Context()
	if sc.mailer == nil {
		logger.Info(reqCtx, "contact message received, mail disabled",
			zap.String("email", input.Email), zap.String("subject", input.Subject))
	} else if err := sc.mailer.SendContact(reqCtx, utils.ContactEmail(input)); err != nil {
		logger.Error(reqCtx, "failed to deliver contact message", err, zap.String("email", input.Email))
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "We could not send your message. Please try again later."})
		return
	}

	ctx.JSON(http.StatusAccepted, gin.H{"message": "Thank you for your message! We'll get back to you soon."})
}
