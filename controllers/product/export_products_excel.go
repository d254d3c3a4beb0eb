package productcontroller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/junaidrashid-git/autoparts-api/store"
	"github.com/tealeg/xlsx"
)

func ExportProductsToExcel(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := st.ListProducts(c.Request.Context(), store.ProductFilter{SortBy: "name", Order: "asc"})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		file, err := productsWorkbook(products)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}

func productsWorkbook(products []models.Product) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, err
	}

	headerRow := sheet.AddRow()
	for _, h := range sheetHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		for _, v := range []string{
			p.ID, p.Name, p.Brand, p.Model, strings.Join(p.CompatibleYears, ","),
			p.Category, p.Condition, p.Description, p.Price.StringFixed(2),
			string(p.Currency),
		} {
			row.AddCell().SetString(v)
		}
		row.AddCell().SetInt(p.Stock)
		row.AddCell().SetString(p.Image)
		row.AddCell().SetString(p.Discount.Code)
		row.AddCell().SetString(string(p.Discount.Type))
		discountValue := ""
		if p.Discount.Active() {
			discountValue = p.Discount.Value.String()
		}
		row.AddCell().SetString(discountValue)
		row.AddCell().SetString(p.UploadedBy)
	}
	return file, nil
}
