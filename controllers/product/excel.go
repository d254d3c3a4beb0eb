package productcontroller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/junaidrashid-git/autoparts-api/store"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/tealeg/xlsx"
)

// Column layout shared by import and export.
var sheetHeaders = []string{
	"ID", "Name", "Brand", "Model", "CompatibleYears", "Category", "Condition",
	"Description", "Price", "Currency", "Stock", "Image",
	"DiscountCode", "DiscountType", "DiscountValue", "UploadedBy",
}

// ImportProductsFromExcel creates or updates products from the first sheet
// of an uploaded workbook. Rows with an ID that exists update that product.
func ImportProductsFromExcel(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}
		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, header.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse Excel file"})
			return
		}
		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		ctx := c.Request.Context()
		rows, rowErrs := productsFromSheet(xlFile.Sheets[0])
		created, updated, skipped := 0, 0, len(rowErrs)

		for _, r := range rows {
			if r.ID != "" {
				if _, err := st.UpdateProduct(ctx, r.ID, r); err == nil {
					updated++
					continue
				} else if !errors.Is(err, models.ErrNotFound) {
					rowErrs = append(rowErrs, fmt.Sprintf("%s: %v", r.Name, err))
					skipped++
					continue
				}
			}
			p := r
			if err := st.CreateProduct(ctx, &p); err != nil {
				rowErrs = append(rowErrs, fmt.Sprintf("%s: %v", r.Name, err))
				skipped++
				continue
			}
			created++
		}

		log.WithFields(log.Fields{"created": created, "updated": updated, "skipped": skipped}).Info("Product import finished")
		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": created,
			"updated_count": updated,
			"skipped_count": skipped,
			"errors":        rowErrs,
		})
	}
}

// productsFromSheet parses every data row; unparseable rows are reported by
// row number and left out.
func productsFromSheet(sheet *xlsx.Sheet) ([]models.Product, []string) {
	var (
		out  []models.Product
		errs []string
	)
	for i := 1; i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		get := func(index int) string {
			if row != nil && index < len(row.Cells) {
				return strings.TrimSpace(row.Cells[index].String())
			}
			return ""
		}
		if get(1) == "" && get(8) == "" {
			continue
		}

		p, err := productFromRow(get)
		if err != nil {
			errs = append(errs, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		out = append(out, p)
	}
	return out, errs
}

func productFromRow(get func(int) string) (models.Product, error) {
	price, err := decimal.NewFromString(get(8))
	if err != nil {
		return models.Product{}, fmt.Errorf("invalid price %q", get(8))
	}
	currency, err := models.ParseCurrency(get(9))
	if err != nil {
		return models.Product{}, err
	}
	stock := 0
	if s := get(10); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return models.Product{}, fmt.Errorf("invalid stock %q", s)
		}
		stock = int(f)
	}

	p := models.Product{
		ID:              get(0),
		Name:            get(1),
		Brand:           get(2),
		Model:           get(3),
		CompatibleYears: splitList(get(4)),
		Category:        get(5),
		Condition:       get(6),
		Description:     get(7),
		Price:           price,
		Currency:        currency,
		Stock:           stock,
		Image:           get(11),
		UploadedBy:      get(15),
	}
	if code := get(12); code != "" {
		value, err := decimal.NewFromString(get(14))
		if err != nil {
			return models.Product{}, fmt.Errorf("invalid discount value %q", get(14))
		}
		p.Discount = models.DiscountRule{Code: code, Type: models.DiscountType(strings.ToLower(get(13))), Value: value}
	}
	if p.Name == "" {
		return models.Product{}, errors.New("name is required")
	}
	return p, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
