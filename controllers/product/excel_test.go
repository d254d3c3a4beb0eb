package productcontroller

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/junaidrashid-git/autoparts-api/store"
	"github.com/junaidrashid-git/autoparts-api/store/storetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func init() { gin.SetMode(gin.TestMode) }

func workbookBytes(t *testing.T, file *xlsx.File) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))
	return buf.Bytes()
}

func openWorkbook(t *testing.T, raw []byte) *xlsx.File {
	t.Helper()
	file, err := xlsx.OpenReaderAt(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)
	return file
}

func TestWorkbookRoundTrip(t *testing.T) {
	in := []models.Product{{
		ID:              "p1",
		Name:            "Oil filter",
		Brand:           "Mann",
		Model:           "Corolla",
		CompatibleYears: []string{"2018", "2019"},
		Category:        "Filters",
		Condition:       "new",
		Price:           decimal.RequireFromString("12.50"),
		Currency:        models.CurrencyEUR,
		Stock:           7,
		Discount:        models.DiscountRule{Code: "OIL10", Type: models.DiscountPercentage, Value: decimal.NewFromInt(10)},
		UploadedBy:      "jane@example.com",
	}}
	file, err := productsWorkbook(in)
	require.NoError(t, err)

	out, errs := productsFromSheet(openWorkbook(t, workbookBytes(t, file)).Sheets[0])
	require.Empty(t, errs)
	require.Len(t, out, 1)

	got := out[0]
	assert.Equal(t, "p1", got.ID)
	assert.Equal(t, "Oil filter", got.Name)
	assert.Equal(t, []string{"2018", "2019"}, got.CompatibleYears)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, models.CurrencyEUR, got.Currency)
	assert.Equal(t, 7, got.Stock)
	assert.Equal(t, "OIL10", got.Discount.Code)
	assert.Equal(t, models.DiscountPercentage, got.Discount.Type)
	assert.True(t, got.Discount.Value.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "jane@example.com", got.UploadedBy)
}

func TestSheetRowErrors(t *testing.T) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	require.NoError(t, err)
	header := sheet.AddRow()
	for _, h := range sheetHeaders {
		header.AddCell().SetValue(h)
	}
	addRow := func(cells ...string) {
		row := sheet.AddRow()
		for _, c := range cells {
			row.AddCell().SetString(c)
		}
	}
	addRow("", "Spark plug", "NGK", "", "", "", "", "", "abc", "EUR")
	addRow("", "Wiper", "Bosch", "", "", "", "", "", "9", "XYZ")
	addRow("", "", "", "", "", "", "", "", "", "")
	addRow("", "Bulb", "Osram", "", "", "", "", "", "3", "usd")

	out, errs := productsFromSheet(openWorkbook(t, workbookBytes(t, file)).Sheets[0])
	require.Len(t, out, 1)
	assert.Equal(t, "Bulb", out[0].Name)
	assert.Equal(t, models.CurrencyUSD, out[0].Currency)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "row 2")
	assert.Contains(t, errs[1], "row 3")
}

func TestImportProductsFromExcel(t *testing.T) {
	st, _ := storetest.New(t)
	ctx := context.Background()
	existing := &models.Product{Name: "Old name", Price: decimal.NewFromInt(5), Currency: models.CurrencyEUR}
	require.NoError(t, st.CreateProduct(ctx, existing))

	file, err := productsWorkbook([]models.Product{
		{ID: existing.ID, Name: "New name", Price: decimal.NewFromInt(6), Currency: models.CurrencyEUR},
		{Name: "Fresh part", Price: decimal.NewFromInt(20), Currency: models.CurrencyEUR},
	})
	require.NoError(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "products.xlsx")
	require.NoError(t, err)
	_, err = part.Write(workbookBytes(t, file))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := gin.New()
	r.POST("/import", ImportProductsFromExcel(st))
	req := httptest.NewRequest(http.MethodPost, "/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp["created_count"])
	assert.EqualValues(t, 1, resp["updated_count"])
	assert.EqualValues(t, 0, resp["skipped_count"])

	updated, err := st.GetProduct(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "New name", updated.Name)

	all, err := st.ListProducts(ctx, store.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestImportRequiresFile(t *testing.T) {
	st, _ := storetest.New(t)
	r := gin.New()
	r.POST("/import", ImportProductsFromExcel(st))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/import", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
