package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Kariqs/silkstitch-api/internal/testdb"
	"github.com/Kariqs/silkstitch-api/models"
	"github.com/Kariqs/silkstitch-api/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func strPtr(s string) *string { return &s }

func newProduct(name, category string, price float64) *models.Product {
	return &models.Product{
		Name:     name,
		Category: category,
		Price:    decimal.NewFromFloat(price),
	}
}

func countImages(t *testing.T, db *gorm.DB, productID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.ProductImage{}).Where("product_id = ?", productID).Count(&n).Error)
	return n
}

func TestCreate_PersistsImagesInOrder(t *testing.T) {
	db := testdb.New(t)
	repo := repository.NewProductRepository(db)
	ctx := context.Background()

	product := newProduct("Oversized Blazer", "outerwear", 89.99)
	require.NoError(t, repo.Create(ctx, product, []string{"a.jpg", "b.jpg"}))
	require.NotZero(t, product.ID)

	var images []models.ProductImage
	require.NoError(t, db.Where("product_id = ?", product.ID).Order("sort_order").Find(&images).Error)
	require.Len(t, images, 2)
	assert.Equal(t, "a.jpg", images[0].ImageURL)
	assert.True(t, images[0].IsPrimary)
	assert.Equal(t, 0, images[0].SortOrder)
	assert.Equal(t, "b.jpg", images[1].ImageURL)
	assert.False(t, images[1].IsPrimary)
	assert.Equal(t, 1, images[1].SortOrder)
}

func TestFindByID(t *testing.T) {
	db := testdb.New(t)
	repo := repository.NewProductRepository(db)
	ctx := context.Background()

	product := newProduct("Pleated Skirt", "bottoms", 52.99)
	product.Sizes = strPtr(`["XS","S"]`)
	require.NoError(t, repo.Create(ctx, product, []string{"one.jpg", "two.jpg", "three.jpg"}))

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pleated Skirt", found.Name)
	assert.True(t, decimal.NewFromFloat(52.99).Equal(found.Price))
	assert.Equal(t, []string{"one.jpg", "two.jpg", "three.jpg"}, found.ImageURLs())
	require.NotNil(t, found.Sizes)
	assert.Equal(t, `["XS","S"]`, *found.Sizes)

	_, err = repo.FindByID(ctx, 999999)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestList_FiltersAndPaginates(t *testing.T) {
	db := testdb.New(t)
	repo := repository.NewProductRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	seed := []*models.Product{
		{Name: "Silk Blouse", Category: "tops", Brand: strPtr("Silk Stitch"), Price: decimal.NewFromInt(68)},
		{Name: "Graphic Tee", Category: "tops", Brand: strPtr("Seoul Street"), Price: decimal.NewFromInt(38)},
		{Name: "Cargo Pants", Category: "bottoms", Brand: strPtr("Seoul Street"), Price: decimal.NewFromInt(72)},
		{Name: "Midi Dress", Category: "dresses", Description: strPtr("Layered SILK lining"), Price: decimal.NewFromInt(78)},
	}
	for i, p := range seed {
		p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(ctx, p, nil))
	}

	products, total, err := repo.List(ctx, repository.ProductQuery{Category: "tops"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, products, 2)
	for _, p := range products {
		assert.Equal(t, "tops", p.Category)
	}

	_, total, err = repo.List(ctx, repository.ProductQuery{Category: "Tops"})
	require.NoError(t, err)
	assert.Zero(t, total)

	products, total, err = repo.List(ctx, repository.ProductQuery{Search: "silk"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	names := []string{products[0].Name, products[1].Name}
	assert.ElementsMatch(t, []string{"Silk Blouse", "Midi Dress"}, names)

	products, total, err = repo.List(ctx, repository.ProductQuery{Search: "SEOUL"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	products, total, err = repo.List(ctx, repository.ProductQuery{Offset: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, products, 2)
	// Newest first: Midi Dress, Cargo Pants, Graphic Tee, Silk Blouse.
	assert.Equal(t, "Cargo Pants", products[0].Name)
	assert.Equal(t, "Graphic Tee", products[1].Name)
}

func TestList_SaleAndSorts(t *testing.T) {
	db := testdb.New(t)
	repo := repository.NewProductRepository(db)
	ctx := context.Background()

	orig := func(v int64) *decimal.Decimal { d := decimal.NewFromInt(v); return &d }
	items := []*models.Product{
		{Name: "Half Off", Category: "tops", Price: decimal.NewFromInt(50), OriginalPrice: orig(100), IsSale: true},
		{Name: "Tenth Off", Category: "tops", Price: decimal.NewFromInt(90), OriginalPrice: orig(100), IsSale: true},
		{Name: "Flagged No Original", Category: "tops", Price: decimal.NewFromInt(10), IsSale: true},
		{Name: "Full Price", Category: "tops", Price: decimal.NewFromInt(20), Rating: 4.9},
		{Name: "Zero Original", Category: "tops", Price: decimal.NewFromInt(15), OriginalPrice: orig(0), IsSale: true},
	}
	for _, p := range items {
		require.NoError(t, repo.Create(ctx, p, nil))
	}

	products, total, err := repo.List(ctx, repository.ProductQuery{OnSale: true, Sort: repository.SortDiscount})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, products, 2)
	assert.Equal(t, "Half Off", products[0].Name)

	products, _, err = repo.List(ctx, repository.ProductQuery{Sort: repository.SortPriceLow})
	require.NoError(t, err)
	assert.Equal(t, "Flagged No Original", products[0].Name)

	products, _, err = repo.List(ctx, repository.ProductQuery{Sort: repository.SortDiscount})
	require.NoError(t, err)
	assert.Len(t, products, 5)

	products, _, err = repo.List(ctx, repository.ProductQuery{Sort: repository.SortTopRated, Limit: 1})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Full Price", products[0].Name)

	products, _, err = repo.List(ctx, repository.ProductQuery{Sort: repository.SortRating, Limit: 1})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Full Price", products[0].Name)
}

func TestList_SearchMatchesWildcardsLiterally(t *testing.T) {
	db := testdb.New(t)
	repo := repository.NewProductRepository(db)
	ctx := context.Background()

	for _, p := range []*models.Product{
		newProduct("100% Cotton Tee", "tops", 25),
		newProduct("Snake_Print Cap", "accessories", 18),
		newProduct("Wow! Hoodie", "tops", 55),
		newProduct("Plain Hoodie", "tops", 45),
	} {
		require.NoError(t, repo.Create(ctx, p, nil))
	}

	tests := []struct {
		term string
		want []string
	}{
		{"%", []string{"100% Cotton Tee"}},
		{"_", []string{"Snake_Print Cap"}},
		{"!", []string{"Wow! Hoodie"}},
		{"e_p", []string{"Snake_Print Cap"}},
		{"hoodie", []string{"Wow! Hoodie", "Plain Hoodie"}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			products, total, err := repo.List(ctx, repository.ProductQuery{Search: tt.term})
			require.NoError(t, err)
			assert.EqualValues(t, len(tt.want), total)
			names := []string{}
			for _, p := range products {
				names = append(names, p.Name)
			}
			assert.ElementsMatch(t, tt.want, names)
		})
	}
}

func TestUpdate_AppliesFieldsAndReplacesImages(t *testing.T) {
	db := testdb.New(t)
	repo := repository.NewProductRepository(db)
	ctx := context.Background()

	product := newProduct("Denim Jacket", "outerwear", 95.99)
	product.Brand = strPtr("Seoul Denim Co.")
	require.NoError(t, repo.Create(ctx, product, []string{"old-1.jpg", "old-2.jpg"}))

	err := repo.Update(ctx, product.ID, map[string]any{
		"price": decimal.NewFromInt(50),
		"brand": nil,
	}, []string{"new.jpg"})
	require.NoError(t, err)

	updated, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(updated.Price))
	assert.Nil(t, updated.Brand)
	assert.Equal(t, "Denim Jacket", updated.Name)
	assert.Equal(t, []string{"new.jpg"}, updated.ImageURLs())
	assert.True(t, updated.Images[0].IsPrimary)
	assert.EqualValues(t, 1, countImages(t, db, product.ID))
}

func TestUpdate_NilImagesKeepsExistingSet(t *testing.T) {
	db := testdb.New(t)
	repo := repository.NewProductRepository(db)
	ctx := context.Background()

	product := newProduct("Crop Top", "tops", 45.99)
	require.NoError(t, repo.Create(ctx, product, []string{"a.jpg", "b.jpg"}))

	require.NoError(t, repo.Update(ctx, product.ID, map[string]any{"is_new": true}, nil))

	updated, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsNew)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, updated.ImageURLs())
}

func TestUpdate_MissingProduct(t *testing.T) {
	repo := repository.NewProductRepository(testdb.New(t))

	err := repo.Update(context.Background(), 42, map[string]any{"name": "x"}, nil)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestDelete_RemovesImages(t *testing.T) {
	db := testdb.New(t)
	repo := repository.NewProductRepository(db)
	ctx := context.Background()

	keep := newProduct("Keep Me", "tops", 10)
	require.NoError(t, repo.Create(ctx, keep, []string{"keep.jpg"}))
	gone := newProduct("Delete Me", "tops", 10)
	require.NoError(t, repo.Create(ctx, gone, []string{"x.jpg", "y.jpg"}))

	require.NoError(t, repo.Delete(ctx, gone.ID))

	assert.EqualValues(t, 0, countImages(t, db, gone.ID))
	assert.EqualValues(t, 1, countImages(t, db, keep.ID))
	_, err := repo.FindByID(ctx, gone.ID)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, gone.ID), repository.ErrProductNotFound)
}

func TestCategoryCounts(t *testing.T) {
	db := testdb.New(t)
	repo := repository.NewProductRepository(db)
	ctx := context.Background()

	for _, c := range []string{"tops", "tops", "shoes"} {
		require.NoError(t, repo.Create(ctx, newProduct("p", c, 1), nil))
	}

	counts, err := repo.CategoryCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []repository.CategoryCount{{Category: "shoes", Count: 1}, {Category: "tops", Count: 2}}, counts)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestFindByID_DriverFailureIsNotNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewProductRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `products`")).
		WillReturnError(assert.AnError)

	_, err := repo.FindByID(context.Background(), 7)
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrProductNotFound)
}

func TestList_MySQLCategoryMatchIsBinary(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewProductRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE BINARY category = ?")).
		WithArgs("tops").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE BINARY category = ?")).
		WithArgs("tops").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, total, err := repo.List(context.Background(), repository.ProductQuery{Category: "tops"})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_RollsBackWhenImageInsertFails(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewProductRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `products`")).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `product_images`")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), newProduct("Tee", "tops", 20), []string{"a.jpg"})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
