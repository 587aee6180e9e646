package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Silk Stitch API. Korean fashion, one request at a time.

CATALOG
- GET "/products?category=&search=&page=&limit=" - List products
- GET "/products/:id" - Get product by ID
- POST "/products" - Create product (admin)
- PUT "/products/:id" - Update product (admin)
- DELETE "/products/:id" - Delete product (admin)
- POST "/products/images" - Upload product images (admin)
- GET "/products/export" - Download the catalog as .xlsx (admin)

STOREFRONT
- GET "/storefront/new-arrivals" - Newest products flagged as new
- GET "/storefront/sale?sort=discount|price-low|price-high" - Products on sale
- GET "/storefront/most-loved" - Top rated products
- GET "/storefront/collections" - Product counts per category
- POST "/contact" - Send a message to the store

CART
- GET "/cart" - Current cart
- POST "/cart/items" - Add an item
- PUT "/cart/items/:id" - Set item quantity
- DELETE "/cart/items/:id" - Remove an item
- DELETE "/cart" - Clear the cart
- POST "/cart/open", "/cart/close", "/cart/toggle" - Cart visibility

AUTH
- POST "/auth/login" - Admin login`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}

func GetHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
