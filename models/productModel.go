package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Known storefront categories. The set is open: other values are stored as-is.
var Categories = []string{"tops", "bottoms", "dresses", "outerwear", "accessories", "shoes"}

// Product is a catalog entry. Sizes, Colors and Features hold JSON-encoded
// string arrays in plain text columns and are decoded at the API boundary.
type Product struct {
	ID            uint             `gorm:"primaryKey;autoIncrement"`
	Name          string           `gorm:"size:255;not null"`
	Description   *string          `gorm:"type:text"`
	Price         decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	OriginalPrice *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Category      string           `gorm:"size:64;not null;index"`
	Brand         *string          `gorm:"size:255"`
	Rating        float64          `gorm:"not null;default:0"`
	ReviewsCount  int              `gorm:"not null;default:0"`
	IsNew         bool             `gorm:"not null;default:false"`
	IsSale        bool             `gorm:"not null;default:false"`
	Sizes         *string          `gorm:"type:text"`
	Colors        *string          `gorm:"type:text"`
	Features      *string          `gorm:"type:text"`
	ShippingInfo  *string          `gorm:"type:text"`
	ReturnPolicy  *string          `gorm:"type:text"`
	Images        []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time        `gorm:"index"`
	UpdatedAt     time.Time
}

// ProductImage is one ordered image owned by a Product.
type ProductImage struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	ProductID uint   `gorm:"not null;index"`
	ImageURL  string `gorm:"column:image_url;type:text;not null"`
	IsPrimary bool   `gorm:"not null;default:false"`
	SortOrder int    `gorm:"not null;default:0"`
	CreatedAt time.Time
}

// ImageURLs returns the image URLs in display order. Images must already be
// sorted by SortOrder.
func (p *Product) ImageURLs() []string {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, img.ImageURL)
	}
	return urls
}

// NewProductImages builds the image rows for urls: the first is primary and
// SortOrder follows array position.
func NewProductImages(productID uint, urls []string) []ProductImage {
	images := make([]ProductImage, 0, len(urls))
	for i, url := range urls {
		images = append(images, ProductImage{
			ProductID: productID,
			ImageURL:  url,
			IsPrimary: i == 0,
			SortOrder: i,
		})
	}
	return images
}
