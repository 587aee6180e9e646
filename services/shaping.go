package services

import (
	"encoding/json"
	"math"
	"time"

	"github.com/Kariqs/silkstitch-api/logger"
	"github.com/Kariqs/silkstitch-api/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductResponse is the API-facing shape of a product.
type ProductResponse struct {
	ID              uint             `json:"id"`
	Name            string           `json:"name"`
	Description     *string          `json:"description"`
	Price           decimal.Decimal  `json:"price"`
	OriginalPrice   *decimal.Decimal `json:"originalPrice"`
	Category        string           `json:"category"`
	Brand           *string          `json:"brand"`
	Rating          float64          `json:"rating"`
	ReviewsCount    int              `json:"reviewsCount"`
	IsNew           bool             `json:"isNew"`
	IsSale          bool             `json:"isSale"`
	Images          []string         `json:"images"`
	Sizes           []string         `json:"sizes"`
	Colors          []string         `json:"colors"`
	Features        []string         `json:"features"`
	ShippingInfo    *string          `json:"shippingInfo"`
	ReturnPolicy    *string          `json:"returnPolicy"`
	CreatedAt       time.Time        `json:"createdAt"`
	DiscountPercent *int             `json:"discountPercent,omitempty"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type ProductPage struct {
	Products   []ProductResponse `json:"products"`
	Pagination Pagination        `json:"pagination"`
}

// DecodeStringList reads a serialized string-list column. Missing, empty or
// malformed values all decode to an empty list.
func DecodeStringList(raw *string) []string {
	if raw == nil || *raw == "" {
		return []string{}
	}
	var values []string
	if err := json.Unmarshal([]byte(*raw), &values); err != nil {
		logger.Log.Warn("malformed string list column", zap.String("value", *raw), zap.Error(err))
		return []string{}
	}
	if values == nil {
		return []string{}
	}
	return values
}

// EncodeStringList serializes a list for a text column. A nil list is stored
// as NULL.
func EncodeStringList(values []string) *string {
	if values == nil {
		return nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	encoded := string(data)
	return &encoded
}

func ToProductResponse(p *models.Product) ProductResponse {
	images := p.ImageURLs()
	if images == nil {
		images = []string{}
	}
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Category:      p.Category,
		Brand:         p.Brand,
		Rating:        p.Rating,
		ReviewsCount:  p.ReviewsCount,
		IsNew:         p.IsNew,
		IsSale:        p.IsSale,
		Images:        images,
		Sizes:         DecodeStringList(p.Sizes),
		Colors:        DecodeStringList(p.Colors),
		Features:      DecodeStringList(p.Features),
		ShippingInfo:  p.ShippingInfo,
		ReturnPolicy:  p.ReturnPolicy,
		CreatedAt:     p.CreatedAt,
	}
}

func ToProductResponses(products []models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, ToProductResponse(&products[i]))
	}
	return out
}

// DiscountPercent returns round((original-price)/original*100), or false when
// the product has no usable original price.
func DiscountPercent(price decimal.Decimal, original *decimal.Decimal) (int, bool) {
	if original == nil || !original.IsPositive() {
		return 0, false
	}
	ratio, _ := original.Sub(price).Div(*original).Mul(decimal.NewFromInt(100)).Float64()
	return int(math.Round(ratio)), true
}
