package controllers

import (
	"net/http"
	"strings"

	"github.com/Kariqs/silkstitch-api/apperrors"
	"github.com/Kariqs/silkstitch-api/cart"
	"github.com/Kariqs/silkstitch-api/middlewares"
	"github.com/Kariqs/silkstitch-api/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AddCartItemInput is the POST /cart/items body: a product snapshot taken by
// the page that adds it.
type AddCartItemInput struct {
	ID       uint             `json:"id" validate:"required"`
	Name     string           `json:"name" validate:"required"`
	Price    *decimal.Decimal `json:"price" validate:"required"`
	Image    string           `json:"image"`
	Size     string           `json:"size"`
	Color    string           `json:"color"`
	Quantity int              `json:"quantity"`
}

type UpdateCartItemInput struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type CartController struct {
	store cart.Store
}

func NewCartController(store cart.Store) *CartController {
	return &CartController{store: store}
}

// engine loads the cart for the session attached by middlewares.CartSession.
func (cc *CartController) engine(ctx *gin.Context) *cart.Engine {
	engine := cart.NewEngine(cc.store, ctx.GetString(middlewares.CartSessionKey))
	engine.Load(ctx.Request.Context())
	return engine
}

func (cc *CartController) GetCart(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, cc.engine(ctx).State())
}

func (cc *CartController) AddCartItem(ctx *gin.Context) {
	var input AddCartItemInput
	if err := bindJSON(ctx, &input); err != nil {
		respondWithError(ctx, err)
		return
	}
	if err := services.Validate(input); err != nil {
		respondWithError(ctx, err)
		return
	}
	if input.Price.IsNegative() {
		respondWithError(ctx, apperrors.InvalidInput("price must not be negative"))
		return
	}

	image := strings.TrimSpace(input.Image)
	if image == "" {
		image = cart.PlaceholderImage
	}
	item := cart.Item{
		ID:    input.ID,
		Name:  input.Name,
		Price: *input.Price,
		Image: image,
		Size:  input.Size,
		Color: input.Color,
	}
	ctx.JSON(http.StatusOK, cc.engine(ctx).Add(ctx.Request.Context(), item, input.Quantity))
}

func (cc *CartController) UpdateCartItem(ctx *gin.Context) {
	id, err := services.ParseID(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	var input UpdateCartItemInput
	if err := bindJSON(ctx, &input); err != nil {
		respondWithError(ctx, err)
		return
	}
	if err := services.Validate(input); err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, cc.engine(ctx).UpdateQuantity(ctx.Request.Context(), id, *input.Quantity))
}

func (cc *CartController) RemoveCartItem(ctx *gin.Context) {
	id, err := services.ParseID(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, cc.engine(ctx).Remove(ctx.Request.Context(), id))
}

func (cc *CartController) ClearCart(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, cc.engine(ctx).Clear(ctx.Request.Context()))
}

func (cc *CartController) OpenCart(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, cc.engine(ctx).Open(ctx.Request.Context()))
}

func (cc *CartController) CloseCart(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, cc.engine(ctx).Close(ctx.Request.Context()))
}

func (cc *CartController) ToggleCart(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, cc.engine(ctx).Toggle(ctx.Request.Context()))
}
