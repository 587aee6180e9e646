package controllers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/Kariqs/silkstitch-api/apperrors"
	"github.com/Kariqs/silkstitch-api/logger"
	"github.com/Kariqs/silkstitch-api/services"
	"github.com/Kariqs/silkstitch-api/storage"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

const maxUploadFiles = 10

// respondWithError writes {error: message}. Errors that are not
// *apperrors.Error are logged and reported as a generic 500.
func respondWithError(ctx *gin.Context, err error) {
	appErr := apperrors.From(err)
	if appErr.Code >= http.StatusInternalServerError {
		logger.Error(ctx.Request.Context(), appErr.Message, appErr.Err)
	}
	ctx.AbortWithStatusJSON(appErr.Code, gin.H{"error": appErr.Message})
}

// bindJSON decodes the request body into dst, keeping the raw bytes so a
// decoding failure can name the offending field.
func bindJSON(ctx *gin.Context, dst any) error {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		return apperrors.InvalidInput("Invalid request body")
	}
	if err := binding.JSON.BindBody(body, dst); err != nil {
		return services.DecodeBodyError(err, body, dst)
	}
	return nil
}

func queryInt(ctx *gin.Context, name string) int {
	value, err := strconv.Atoi(ctx.Query(name))
	if err != nil {
		return 0
	}
	return value
}

type ProductController struct {
	catalog  *services.CatalogService
	uploader storage.ImageUploader
}

// NewProductController wires the catalog handlers. uploader may be nil, in
// which case image uploads answer 503.
func NewProductController(catalog *services.CatalogService, uploader storage.ImageUploader) *ProductController {
	return &ProductController{catalog: catalog, uploader: uploader}
}

func (pc *ProductController) GetProducts(ctx *gin.Context) {
	page, err := pc.catalog.List(ctx.Request.Context(), services.ListParams{
		Category: ctx.Query("category"),
		Search:   ctx.Query("search"),
		Sort:     ctx.Query("sort"),
		Page:     queryInt(ctx, "page"),
		Limit:    queryInt(ctx, "limit"),
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, page)
}

func (pc *ProductController) GetProduct(ctx *gin.Context) {
	id, err := services.ParseID(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	product, err := pc.catalog.GetByID(ctx.Request.Context(), id)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, product)
}

func (pc *ProductController) CreateProduct(ctx *gin.Context) {
	var input services.CreateProductInput
	if err := bindJSON(ctx, &input); err != nil {
		respondWithError(ctx, err)
		return
	}
	product, err := pc.catalog.Create(ctx.Request.Context(), input)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"message": "Product created successfully", "product": product})
}

func (pc *ProductController) UpdateProduct(ctx *gin.Context) {
	id, err := services.ParseID(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	var input services.UpdateProductInput
	if err := bindJSON(ctx, &input); err != nil {
		respondWithError(ctx, err)
		return
	}
	product, err := pc.catalog.Update(ctx.Request.Context(), id, input)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

func (pc *ProductController) DeleteProduct(ctx *gin.Context) {
	id, err := services.ParseID(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	if err := pc.catalog.Delete(ctx.Request.Context(), id); err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// UploadProductImages stores every file of the "images" form field and
// returns the URLs to pass as a product's images.
func (pc *ProductController) UploadProductImages(ctx *gin.Context) {
	if pc.uploader == nil {
		respondWithError(ctx, apperrors.New(http.StatusServiceUnavailable, "Image storage is not configured", nil))
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		respondWithError(ctx, apperrors.InvalidInput("Invalid form data"))
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		respondWithError(ctx, apperrors.InvalidInput("No files uploaded"))
		return
	}
	if len(files) > maxUploadFiles {
		respondWithError(ctx, apperrors.InvalidInput(fmt.Sprintf("At most %d files per upload", maxUploadFiles)))
		return
	}

	uploadedUrls := []string{}
	var failedUploads []string
	for _, file := range files {
		f, openErr := file.Open()
		if openErr != nil {
			logger.Warn(ctx.Request.Context(), "error opening upload", zap.String("file", file.Filename), zap.Error(openErr))
			failedUploads = append(failedUploads, file.Filename)
			continue
		}

		url, uploadErr := pc.uploader.Upload(ctx.Request.Context(), file.Filename, file.Header.Get("Content-Type"), f)
		_ = f.Close()
		if uploadErr != nil {
			logger.Warn(ctx.Request.Context(), "error uploading image", zap.String("file", file.Filename), zap.Error(uploadErr))
			failedUploads = append(failedUploads, file.Filename)
			continue
		}
		uploadedUrls = append(uploadedUrls, url)
	}

	if len(uploadedUrls) == 0 {
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "Failed to upload images", "failed": failedUploads})
		return
	}

	response := gin.H{"message": "Images uploaded successfully", "urls": uploadedUrls}
	if len(failedUploads) > 0 {
		response["failed"] = failedUploads
	}
	ctx.JSON(http.StatusOK, response)
}
