package client

import (
	"strings"

	"github.com/Kariqs/silkstitch-api/cart"
	"github.com/Kariqs/silkstitch-api/services"
)

// FilterProducts narrows an already fetched list. term matches name or brand,
// case-insensitively. category matches exactly, ignoring case, unless it is
// empty or "all".
func FilterProducts(products []services.ProductResponse, term, category string) []services.ProductResponse {
	term = strings.ToLower(strings.TrimSpace(term))
	category = strings.TrimSpace(category)
	anyCategory := category == "" || strings.EqualFold(category, services.CategoryAll)

	out := make([]services.ProductResponse, 0, len(products))
	for _, p := range products {
		if !anyCategory && !strings.EqualFold(p.Category, category) {
			continue
		}
		if term != "" && !matchesTerm(p, term) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesTerm(p services.ProductResponse, term string) bool {
	if strings.Contains(strings.ToLower(p.Name), term) {
		return true
	}
	return p.Brand != nil && strings.Contains(strings.ToLower(*p.Brand), term)
}

// Snapshot builds the cart line for product. An empty size or color falls
// back to the first one the product offers.
func Snapshot(product services.ProductResponse, size, color string) cart.Item {
	image := cart.PlaceholderImage
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	if size == "" && len(product.Sizes) > 0 {
		size = product.Sizes[0]
	}
	if color == "" && len(product.Colors) > 0 {
		color = product.Colors[0]
	}
	return cart.Item{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Image:    image,
		Size:     size,
		Color:    color,
		Quantity: 1,
	}
}
