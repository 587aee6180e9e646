package initializers

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/Kariqs/silkstitch-api/logger"
	"github.com/Kariqs/silkstitch-api/models"
	"github.com/Kariqs/silkstitch-api/repository"
	"github.com/Kariqs/silkstitch-api/services"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed seed/products.yaml
var seedCatalog []byte

// SeedProduct is one entry of the demo catalog file.
type SeedProduct struct {
	services.CreateProductInput `yaml:",inline"`
	Rating                      float64 `yaml:"rating"`
	ReviewsCount                int     `yaml:"reviewsCount"`
}

// LoadSeedCatalog parses the embedded demo catalog.
func LoadSeedCatalog() ([]SeedProduct, error) {
	var products []SeedProduct
	if err := yaml.Unmarshal(seedCatalog, &products); err != nil {
		return nil, fmt.Errorf("parse seed catalog: %w", err)
	}
	return products, nil
}

// SeedCatalog inserts the demo catalog when the products table is empty. It
// returns the number of products created.
func SeedCatalog(ctx context.Context, products repository.ProductRepository) (int, error) {
	count, err := products.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.Log.Info("catalog already populated, skipping seed", zap.Int64("products", count))
		return 0, nil
	}

	seed, err := LoadSeedCatalog()
	if err != nil {
		return 0, err
	}

	for i, item := range seed {
		price := decimal.Zero
		if item.Price != nil {
			price = *item.Price
		}
		product := &models.Product{
			Name:          item.Name,
			Description:   item.Description,
			Price:         price,
			OriginalPrice: item.OriginalPrice,
			Category:      item.Category,
			Brand:         item.Brand,
			Rating:        item.Rating,
			ReviewsCount:  item.ReviewsCount,
			IsNew:         item.IsNew,
			IsSale:        item.IsSale,
			Sizes:         services.EncodeStringList(item.Sizes),
			Colors:        services.EncodeStringList(item.Colors),
			Features:      services.EncodeStringList(item.Features),
			ShippingInfo:  item.ShippingInfo,
			ReturnPolicy:  item.ReturnPolicy,
		}
		if err := products.Create(ctx, product, item.Images); err != nil {
			return i, fmt.Errorf("seed %q: %w", item.Name, err)
		}
		logger.Log.Info("seeded product", zap.String("name", product.Name))
	}
	return len(seed), nil
}

// SeedAdmin creates the bootstrap admin from ADMIN_EMAIL and ADMIN_PASSWORD
// when no admin exists.
func SeedAdmin(ctx context.Context, cfg *Config, auth *services.AuthService) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}
	_, err := auth.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	return err
}
