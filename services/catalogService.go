package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Kariqs/silkstitch-api/apperrors"
	"github.com/Kariqs/silkstitch-api/logger"
	"github.com/Kariqs/silkstitch-api/models"
	"github.com/Kariqs/silkstitch-api/repository"
	"go.uber.org/zap"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100

	// CategoryAll disables the category filter.
	CategoryAll = "all"

	msgProductNotFound = "Product not found"
	msgInvalidID       = "Invalid product ID"
)

// ProductCache is the read-through cache used by CatalogService. Lookups
// report a miss on any failure and return the version they read under, which
// the following fill must carry.
type ProductCache interface {
	GetProduct(ctx context.Context, id uint, dst any) (int64, bool)
	SetProduct(ctx context.Context, version int64, id uint, value any)
	GetList(ctx context.Context, key string, dst any) (int64, bool)
	SetList(ctx context.Context, version int64, key string, value any)
	Invalidate(ctx context.Context, id uint)
}

type ListParams struct {
	Category string
	Search   string
	Sort     string
	Page     int
	Limit    int
}

type CollectionCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type CatalogService struct {
	products repository.ProductRepository
	cache    ProductCache
}

// NewCatalogService builds the service. cache may be nil.
func NewCatalogService(products repository.ProductRepository, cache ProductCache) *CatalogService {
	return &CatalogService{products: products, cache: cache}
}

// ParseID accepts only positive base-10 integers.
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 0)
	if err != nil || id == 0 {
		return 0, apperrors.InvalidInput(msgInvalidID)
	}
	return uint(id), nil
}

// NormalizePage falls back to the defaults for missing or invalid values and
// caps limit at MaxLimit.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

func listCacheKey(p ListParams) string {
	return fmt.Sprintf("c:%s:s:%s:o:%s:p:%d:l:%d", p.Category, strings.ToLower(p.Search), p.Sort, p.Page, p.Limit)
}

func (s *CatalogService) List(ctx context.Context, params ListParams) (*ProductPage, error) {
	params.Page, params.Limit = NormalizePage(params.Page, params.Limit)
	if params.Category == CategoryAll {
		params.Category = ""
	}
	params.Search = strings.TrimSpace(params.Search)

	key := listCacheKey(params)
	var version int64
	if s.cache != nil {
		var cached ProductPage
		var hit bool
		if version, hit = s.cache.GetList(ctx, key, &cached); hit {
			return &cached, nil
		}
	}

	products, total, err := s.products.List(ctx, repository.ProductQuery{
		Category: params.Category,
		Search:   params.Search,
		Sort:     params.Sort,
		Offset:   (params.Page - 1) * params.Limit,
		Limit:    params.Limit,
	})
	if err != nil {
		return nil, s.internal(ctx, "Failed to fetch products", err)
	}

	pages := int((total + int64(params.Limit) - 1) / int64(params.Limit))
	page := &ProductPage{
		Products: ToProductResponses(products),
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
			Pages: pages,
		},
	}
	if s.cache != nil {
		s.cache.SetList(ctx, version, key, page)
	}
	return page, nil
}

func (s *CatalogService) GetByID(ctx context.Context, id uint) (*ProductResponse, error) {
	var version int64
	if s.cache != nil {
		var cached ProductResponse
		var hit bool
		if version, hit = s.cache.GetProduct(ctx, id, &cached); hit {
			return &cached, nil
		}
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(ctx, "Failed to fetch product", err)
	}
	resp := ToProductResponse(product)
	if s.cache != nil {
		s.cache.SetProduct(ctx, version, id, resp)
	}
	return &resp, nil
}

func (s *CatalogService) Create(ctx context.Context, input CreateProductInput) (*ProductResponse, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Category = strings.TrimSpace(input.Category)
	if err := Validate(input); err != nil {
		return nil, err
	}
	if input.Price.IsNegative() {
		return nil, apperrors.InvalidInput("price must not be negative")
	}
	if input.OriginalPrice != nil && input.OriginalPrice.IsNegative() {
		return nil, apperrors.InvalidInput("originalPrice must not be negative")
	}

	product := &models.Product{
		Name:          input.Name,
		Description:   input.Description,
		Price:         *input.Price,
		OriginalPrice: input.OriginalPrice,
		Category:      input.Category,
		Brand:         input.Brand,
		IsNew:         input.IsNew,
		IsSale:        input.IsSale,
		Sizes:         EncodeStringList(input.Sizes),
		Colors:        EncodeStringList(input.Colors),
		Features:      EncodeStringList(input.Features),
		ShippingInfo:  input.ShippingInfo,
		ReturnPolicy:  input.ReturnPolicy,
	}
	if err := s.products.Create(ctx, product, cleanURLs(input.Images)); err != nil {
		return nil, s.internal(ctx, "Failed to create product", err)
	}
	s.invalidate(ctx, product.ID)

	logger.Info(ctx, "product created", zap.Uint("product_id", product.ID))
	resp := ToProductResponse(product)
	return &resp, nil
}

func (s *CatalogService) Update(ctx context.Context, id uint, input UpdateProductInput) (*ProductResponse, error) {
	fields, err := updateFields(input)
	if err != nil {
		return nil, err
	}

	var images []string
	if input.Images.HasValue() && len(cleanURLs(input.Images.Value)) > 0 {
		images = cleanURLs(input.Images.Value)
	}

	if err := s.products.Update(ctx, id, fields, images); err != nil {
		return nil, s.mapRepoError(ctx, "Failed to update product", err)
	}
	s.invalidate(ctx, id)

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(ctx, "Failed to fetch product", err)
	}
	logger.Info(ctx, "product updated", zap.Uint("product_id", id), zap.Int("fields", len(fields)), zap.Bool("images_replaced", images != nil))
	resp := ToProductResponse(product)
	return &resp, nil
}

// updateFields maps the provided fields to columns. Required fields ignore
// null and blank values; optional fields are cleared by null.
func updateFields(input UpdateProductInput) (map[string]any, error) {
	fields := map[string]any{}

	if input.Name.HasValue() {
		if name := strings.TrimSpace(input.Name.Value); name != "" {
			fields["name"] = name
		}
	}
	if input.Category.HasValue() {
		if category := strings.TrimSpace(input.Category.Value); category != "" {
			fields["category"] = category
		}
	}
	if input.Price.HasValue() {
		if input.Price.Value.IsNegative() {
			return nil, apperrors.InvalidInput("price must not be negative")
		}
		fields["price"] = input.Price.Value
	}
	if input.OriginalPrice.Set {
		if input.OriginalPrice.Null {
			fields["original_price"] = nil
		} else {
			if input.OriginalPrice.Value.IsNegative() {
				return nil, apperrors.InvalidInput("originalPrice must not be negative")
			}
			fields["original_price"] = input.OriginalPrice.Value
		}
	}

	setNullableString(fields, "description", input.Description)
	setNullableString(fields, "brand", input.Brand)
	setNullableString(fields, "shipping_info", input.ShippingInfo)
	setNullableString(fields, "return_policy", input.ReturnPolicy)

	setStringList(fields, "sizes", input.Sizes)
	setStringList(fields, "colors", input.Colors)
	setStringList(fields, "features", input.Features)

	if input.IsNew.HasValue() {
		fields["is_new"] = input.IsNew.Value
	}
	if input.IsSale.HasValue() {
		fields["is_sale"] = input.IsSale.Value
	}
	return fields, nil
}

func setNullableString(fields map[string]any, column string, value Optional[string]) {
	if !value.Set {
		return
	}
	if value.Null {
		fields[column] = nil
		return
	}
	fields[column] = value.Value
}

func setStringList(fields map[string]any, column string, value Optional[[]string]) {
	if !value.Set {
		return
	}
	if value.Null {
		fields[column] = nil
		return
	}
	list := value.Value
	if list == nil {
		list = []string{}
	}
	fields[column] = *EncodeStringList(list)
}

func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return s.mapRepoError(ctx, "Failed to delete product", err)
	}
	s.invalidate(ctx, id)
	logger.Info(ctx, "product deleted", zap.Uint("product_id", id))
	return nil
}

func (s *CatalogService) NewArrivals(ctx context.Context, limit int) ([]ProductResponse, error) {
	_, limit = NormalizePage(1, limit)
	isNew := true
	products, _, err := s.products.List(ctx, repository.ProductQuery{IsNew: &isNew, Limit: limit})
	if err != nil {
		return nil, s.internal(ctx, "Failed to fetch new arrivals", err)
	}
	return ToProductResponses(products), nil
}

// Sale lists discounted products. sortBy is discount, price-low or
// price-high; anything else means discount.
func (s *CatalogService) Sale(ctx context.Context, sortBy string, limit int) ([]ProductResponse, error) {
	if limit < 1 {
		limit = 50
	}
	_, limit = NormalizePage(1, limit)
	switch sortBy {
	case repository.SortPriceLow, repository.SortPriceHigh:
	default:
		sortBy = repository.SortDiscount
	}

	products, _, err := s.products.List(ctx, repository.ProductQuery{OnSale: true, Sort: sortBy, Limit: limit})
	if err != nil {
		return nil, s.internal(ctx, "Failed to fetch sale items", err)
	}

	out := ToProductResponses(products)
	for i := range out {
		if pct, ok := DiscountPercent(out[i].Price, out[i].OriginalPrice); ok {
			out[i].DiscountPercent = &pct
		}
	}
	if sortBy == repository.SortDiscount {
		sort.SliceStable(out, func(i, j int) bool {
			return discountOf(out[i]) > discountOf(out[j])
		})
	}
	return out, nil
}

func discountOf(p ProductResponse) int {
	if p.DiscountPercent == nil {
		return 0
	}
	return *p.DiscountPercent
}

func (s *CatalogService) MostLoved(ctx context.Context, limit int) ([]ProductResponse, error) {
	if limit < 1 {
		limit = 8
	}
	_, limit = NormalizePage(1, limit)
	products, _, err := s.products.List(ctx, repository.ProductQuery{Sort: repository.SortTopRated, Limit: limit})
	if err != nil {
		return nil, s.internal(ctx, "Failed to fetch products", err)
	}
	return ToProductResponses(products), nil
}

// Collections counts products per category. Known categories come first in
// their fixed order, zero counts included.
func (s *CatalogService) Collections(ctx context.Context) ([]CollectionCount, error) {
	counts, err := s.products.CategoryCounts(ctx)
	if err != nil {
		return nil, s.internal(ctx, "Failed to fetch collections", err)
	}
	byCategory := make(map[string]int64, len(counts))
	for _, c := range counts {
		byCategory[c.Category] = c.Count
	}

	out := make([]CollectionCount, 0, len(models.Categories)+len(counts))
	known := make(map[string]bool, len(models.Categories))
	for _, category := range models.Categories {
		known[category] = true
		out = append(out, CollectionCount{Category: category, Count: byCategory[category]})
	}
	for _, c := range counts {
		if !known[c.Category] {
			out = append(out, CollectionCount{Category: c.Category, Count: c.Count})
		}
	}
	return out, nil
}

// All returns the whole catalog, newest first.
func (s *CatalogService) All(ctx context.Context) ([]ProductResponse, error) {
	products, _, err := s.products.List(ctx, repository.ProductQuery{})
	if err != nil {
		return nil, s.internal(ctx, "Failed to fetch products", err)
	}
	return ToProductResponses(products), nil
}

func (s *CatalogService) invalidate(ctx context.Context, id uint) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
}

func (s *CatalogService) mapRepoError(ctx context.Context, message string, err error) error {
	if errors.Is(err, repository.ErrProductNotFound) {
		return apperrors.NotFound(msgProductNotFound)
	}
	return s.internal(ctx, message, err)
}

func (s *CatalogService) internal(ctx context.Context, message string, err error) error {
	logger.Error(ctx, message, err)
	return apperrors.Internal(message, err)
}

func cleanURLs(urls []string) []string {
	if urls == nil {
		return nil
	}
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}
