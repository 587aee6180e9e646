package controllers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/Kariqs/silkstitch-api/services"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportHeaders = []string{
	"ID", "Name", "Category", "Brand", "Price", "OriginalPrice",
	"Rating", "ReviewsCount", "IsNew", "IsSale",
	"Sizes", "Colors", "Images", "CreatedAt",
}

func buildCatalogWorkbook(products []services.ProductResponse) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, err
	}

	headerRow := sheet.AddRow()
	for _, h := range exportHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(deref(p.Brand))
		row.AddCell().SetValue(p.Price.StringFixed(2))
		if p.OriginalPrice != nil {
			row.AddCell().SetValue(p.OriginalPrice.StringFixed(2))
		} else {
			row.AddCell().SetValue("")
		}
		row.AddCell().SetValue(p.Rating)
		row.AddCell().SetValue(p.ReviewsCount)
		row.AddCell().SetValue(p.IsNew)
		row.AddCell().SetValue(p.IsSale)
		row.AddCell().SetValue(strings.Join(p.Sizes, ", "))
		row.AddCell().SetValue(strings.Join(p.Colors, ", "))
		row.AddCell().SetValue(strings.Join(p.Images, "\n"))
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return file, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (pc *ProductController) ExportProducts(ctx *gin.Context) {
	products, err := pc.catalog.All(ctx.Request.Context())
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	file, err := buildCatalogWorkbook(products)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
		return
	}

	// Render fully before the status line goes out so a failure is still a
	// clean 500.
	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
		return
	}
	ctx.Header("Content-Disposition", "attachment; filename=products.xlsx")
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
