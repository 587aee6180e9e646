// Package client is a Go consumer of the catalog HTTP API, used by the admin
// CLI and by integration tests.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Kariqs/silkstitch-api/services"
	"github.com/go-resty/resty/v2"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type errorBody struct {
	Error string `json:"error"`
}

type ListOptions struct {
	Category string
	Search   string
	Sort     string
	Page     int
	Limit    int
}

type productEnvelope struct {
	Message string                   `json:"message"`
	Product services.ProductResponse `json:"product"`
}

// UploadFile is one image sent to UploadImages.
type UploadFile struct {
	Name   string
	Reader io.Reader
}

type UploadResult struct {
	Message string   `json:"message"`
	URLs    []string `json:"urls"`
	Failed  []string `json:"failed,omitempty"`
}

type CatalogClient struct {
	http *resty.Client
}

// New returns a client for the API at baseURL. token may be empty for
// public reads.
func New(baseURL, token string) *CatalogClient {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(30*time.Second).
		SetHeader("Accept", "application/json")
	if token != "" {
		c.SetAuthToken(token)
	}
	return &CatalogClient{http: c}
}

// SetToken replaces the bearer token sent with every request.
func (c *CatalogClient) SetToken(token string) {
	c.http.SetAuthToken(token)
}

func (c *CatalogClient) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx).SetError(&errorBody{})
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.IsError() {
		return nil
	}
	msg := http.StatusText(resp.StatusCode())
	if body, ok := resp.Error().(*errorBody); ok && body.Error != "" {
		msg = body.Error
	}
	return &APIError{Status: resp.StatusCode(), Message: msg}
}

func (c *CatalogClient) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	resp, err := c.request(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out).
		Post("/auth/login")
	if err := check(resp, err); err != nil {
		return "", err
	}
	c.SetToken(out.Token)
	return out.Token, nil
}

func (c *CatalogClient) List(ctx context.Context, opts ListOptions) (*services.ProductPage, error) {
	params := map[string]string{}
	if opts.Category != "" {
		params["category"] = opts.Category
	}
	if opts.Search != "" {
		params["search"] = opts.Search
	}
	if opts.Sort != "" {
		params["sort"] = opts.Sort
	}
	if opts.Page > 0 {
		params["page"] = strconv.Itoa(opts.Page)
	}
	if opts.Limit > 0 {
		params["limit"] = strconv.Itoa(opts.Limit)
	}

	var page services.ProductPage
	resp, err := c.request(ctx).SetQueryParams(params).SetResult(&page).Get("/products")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListAll pages through the whole catalog.
func (c *CatalogClient) ListAll(ctx context.Context, opts ListOptions) ([]services.ProductResponse, error) {
	opts.Page = 1
	if opts.Limit <= 0 {
		opts.Limit = services.MaxLimit
	}
	var all []services.ProductResponse
	for {
		page, err := c.List(ctx, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Products...)
		if opts.Page >= page.Pagination.Pages || len(page.Products) == 0 {
			return all, nil
		}
		opts.Page++
	}
}

func (c *CatalogClient) Get(ctx context.Context, id uint) (*services.ProductResponse, error) {
	var product services.ProductResponse
	resp, err := c.request(ctx).
		SetPathParam("id", strconv.FormatUint(uint64(id), 10)).
		SetResult(&product).
		Get("/products/{id}")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &product, nil
}

// Create posts payload, typically a services.CreateProductInput or a decoded
// product file.
func (c *CatalogClient) Create(ctx context.Context, payload any) (*services.ProductResponse, error) {
	var out productEnvelope
	resp, err := c.request(ctx).SetBody(payload).SetResult(&out).Post("/products")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

// Update sends a partial update. Keys absent from payload are left alone and
// null values clear optional fields.
func (c *CatalogClient) Update(ctx context.Context, id uint, payload any) (*services.ProductResponse, error) {
	var out productEnvelope
	resp, err := c.request(ctx).
		SetPathParam("id", strconv.FormatUint(uint64(id), 10)).
		SetBody(payload).
		SetResult(&out).
		Put("/products/{id}")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

func (c *CatalogClient) Delete(ctx context.Context, id uint) error {
	resp, err := c.request(ctx).
		SetPathParam("id", strconv.FormatUint(uint64(id), 10)).
		Delete("/products/{id}")
	return check(resp, err)
}

// UploadImages sends files as the "images" multipart field.
func (c *CatalogClient) UploadImages(ctx context.Context, files ...UploadFile) (*UploadResult, error) {
	req := c.request(ctx)
	for _, f := range files {
		req.SetFileReader("images", f.Name, f.Reader)
	}
	var out UploadResult
	resp, err := req.SetResult(&out).Post("/products/images")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}
