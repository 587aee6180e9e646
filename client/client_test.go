package client_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Kariqs/silkstitch-api/cart"
	"github.com/Kariqs/silkstitch-api/client"
	"github.com/Kariqs/silkstitch-api/internal/testdb"
	"github.com/Kariqs/silkstitch-api/repository"
	"github.com/Kariqs/silkstitch-api/routes"
	"github.com/Kariqs/silkstitch-api/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	secret   = "client-secret"
	email    = "admin@silkstitch.com"
	password = "s3cret-pass"
)

type stubUploader struct{}

func (stubUploader) Upload(_ context.Context, filename, _ string, body io.Reader) (string, error) {
	data, _ := io.ReadAll(body)
	if len(data) == 0 {
		return "", errors.New("empty file")
	}
	return "https://cdn.example.com/" + filename, nil
}

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testdb.New(t)
	auth := services.NewAuthService(repository.NewUserRepository(db), secret)
	_, err := auth.EnsureAdmin(context.Background(), email, password)
	require.NoError(t, err)

	router := gin.New()
	routes.Register(router, routes.Dependencies{
		Catalog:   services.NewCatalogService(repository.NewProductRepository(db), nil),
		Auth:      auth,
		CartStore: cart.NewMemoryStore(),
		Uploader:  stubUploader{},
		JWTSecret: secret,
		AdminAuth: true,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCatalogClient_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := client.New(newAPI(t).URL, "")

	_, err := c.Create(ctx, services.CreateProductInput{Name: "Blazer", Price: price("89.99"), Category: "outerwear"})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	_, err = c.Login(ctx, email, "wrong")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	token, err := c.Login(ctx, email, password)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	brand := "Seoul Fashion"
	created, err := c.Create(ctx, services.CreateProductInput{
		Name:          "Oversized Blazer",
		Price:         price("89.99"),
		OriginalPrice: price("129.99"),
		Category:      "outerwear",
		Brand:         &brand,
		Sizes:         []string{"S", "M"},
		Images:        []string{"a.jpg", "b.jpg"},
		IsSale:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, "89.99", created.Price.String())
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, created.Images)

	got, err := c.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Oversized Blazer", got.Name)
	assert.Equal(t, []string{"S", "M"}, got.Sizes)

	updated, err := c.Update(ctx, created.ID, map[string]any{"price": "79.50", "brand": nil})
	require.NoError(t, err)
	assert.Equal(t, "79.5", updated.Price.String())
	assert.Nil(t, updated.Brand)
	assert.Equal(t, "Oversized Blazer", updated.Name)

	_, err = c.Update(ctx, created.ID, map[string]any{"price": -1})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	require.NoError(t, c.Delete(ctx, created.ID))
	_, err = c.Get(ctx, created.ID)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Product not found", apiErr.Message)
}

func TestCatalogClient_ListAll(t *testing.T) {
	ctx := context.Background()
	c := client.New(newAPI(t).URL, "")
	_, err := c.Login(ctx, email, password)
	require.NoError(t, err)

	for _, name := range []string{"Tee", "Skirt", "Dress", "Cap", "Coat"} {
		_, err := c.Create(ctx, services.CreateProductInput{Name: name, Price: price("10"), Category: "tops"})
		require.NoError(t, err)
	}

	page, err := c.List(ctx, client.ListOptions{Limit: 2, Page: 2})
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
	assert.EqualValues(t, 5, page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.Pages)

	all, err := c.ListAll(ctx, client.ListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, all, 5)

	found, err := c.List(ctx, client.ListOptions{Search: "ski"})
	require.NoError(t, err)
	require.Len(t, found.Products, 1)
	assert.Equal(t, "Skirt", found.Products[0].Name)
}

func TestCatalogClient_UploadImages(t *testing.T) {
	ctx := context.Background()
	c := client.New(newAPI(t).URL, "")
	_, err := c.Login(ctx, email, password)
	require.NoError(t, err)

	res, err := c.UploadImages(ctx,
		client.UploadFile{Name: "front.jpg", Reader: strings.NewReader("jpeg-bytes")},
		client.UploadFile{Name: "empty.jpg", Reader: strings.NewReader("")},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example.com/front.jpg"}, res.URLs)
	assert.Equal(t, []string{"empty.jpg"}, res.Failed)
}

func TestAPIError(t *testing.T) {
	err := &client.APIError{Status: 404, Message: "Product not found"}
	assert.Equal(t, "api error 404: Product not found", err.Error())
}
