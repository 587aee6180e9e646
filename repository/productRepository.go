package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/Kariqs/silkstitch-api/models"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

// Sort orders understood by List.
const (
	SortNewest    = ""
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortDiscount  = "discount"
	SortTopRated  = "top-rated"
	SortRating    = "rating"
)

// ProductQuery selects a page of products. A zero Limit means no limit.
type ProductQuery struct {
	Category string
	Search   string
	IsNew    *bool
	OnSale   bool
	Sort     string
	Offset   int
	Limit    int
}

type CategoryCount struct {
	Category string
	Count    int64
}

// ProductRepository reads and writes products together with their images.
type ProductRepository interface {
	List(ctx context.Context, query ProductQuery) ([]models.Product, int64, error)
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, product *models.Product, imageURLs []string) error
	// Update applies fields to the product. A non-nil imageURLs replaces the
	// whole image set.
	Update(ctx context.Context, id uint, fields map[string]any, imageURLs []string) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	CategoryCounts(ctx context.Context) ([]CategoryCount, error)
}

type GormProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func preloadImages(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC").Order("id ASC")
}

func (r *GormProductRepository) List(ctx context.Context, query ProductQuery) ([]models.Product, int64, error) {
	filtered := r.applyFilters(r.db.WithContext(ctx).Model(&models.Product{}), query)

	var total int64
	if err := filtered.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	find := r.applyFilters(r.db.WithContext(ctx), query).Preload("Images", preloadImages)
	find = applySort(find, query.Sort)
	if query.Offset > 0 {
		find = find.Offset(query.Offset)
	}
	if query.Limit > 0 {
		find = find.Limit(query.Limit)
	}

	var products []models.Product
	if err := find.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// likeEscaper escapes LIKE wildcards with '!', which needs no quoting in
// any of the supported dialects.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func (r *GormProductRepository) applyFilters(db *gorm.DB, query ProductQuery) *gorm.DB {
	if query.Category != "" {
		// MySQL's default collation compares case-insensitively.
		if r.db.Dialector.Name() == "mysql" {
			db = db.Where("BINARY category = ?", query.Category)
		} else {
			db = db.Where("category = ?", query.Category)
		}
	}
	if term := strings.TrimSpace(query.Search); term != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		db = db.Where(
			"LOWER(name) LIKE ? ESCAPE '!' OR LOWER(COALESCE(brand, '')) LIKE ? ESCAPE '!' OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '!'",
			pattern, pattern, pattern,
		)
	}
	if query.IsNew != nil {
		db = db.Where("is_new = ?", *query.IsNew)
	}
	if query.OnSale {
		db = db.Where("is_sale = ? AND original_price > 0", true)
	}
	return db
}

func applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case SortPriceLow:
		return db.Order("price ASC").Order("id ASC")
	case SortPriceHigh:
		return db.Order("price DESC").Order("id ASC")
	case SortDiscount:
		return db.Order("(original_price - price) * 1.0 / NULLIF(original_price, 0) DESC").Order("id ASC")
	case SortTopRated, SortRating:
		return db.Order("rating DESC").Order("reviews_count DESC").Order("id ASC")
	default:
		return db.Order("created_at DESC").Order("id DESC")
	}
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Preload("Images", preloadImages).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts the product row and then its images in one transaction.
func (r *GormProductRepository) Create(ctx context.Context, product *models.Product, imageURLs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product.Images = nil
		if err := tx.Omit("Images").Create(product).Error; err != nil {
			return err
		}
		images := models.NewProductImages(product.ID, imageURLs)
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return err
			}
		}
		product.Images = images
		return nil
	})
}

// Update runs in one transaction so a failed image replacement never leaves
// the product without images.
func (r *GormProductRepository) Update(ctx context.Context, id uint, fields map[string]any, imageURLs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Product
		if err := tx.Select("id").First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		if len(fields) > 0 {
			if err := tx.Model(&existing).Updates(fields).Error; err != nil {
				return err
			}
		}

		if imageURLs == nil {
			return nil
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		images := models.NewProductImages(id, imageURLs)
		if len(images) == 0 {
			return nil
		}
		return tx.Create(&images).Error
	})
}

// Delete removes the images first and then the product.
func (r *GormProductRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Product{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrProductNotFound
		}
		return nil
	})
}

func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

func (r *GormProductRepository) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	var counts []CategoryCount
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("category ASC").
		Scan(&counts).Error
	return counts, err
}
