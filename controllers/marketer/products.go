package marketerControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	productcontroller "github.com/junaidrashid-git/autoparts-api/controllers/product"
	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/junaidrashid-git/autoparts-api/store"
)

// POST /marketer/products
func UploadProduct(st *store.Store) gin.HandlerFunc {
	create := productcontroller.CreateProduct(st)
	return func(c *gin.Context) {
		m, ok := currentMarketer(c, st)
		if !ok {
			return
		}
		c.Set("uploaded_by", m.Email)
		create(c)
	}
}

// GET /marketer/products
func GetOwnProducts(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok := currentMarketer(c, st)
		if !ok {
			return
		}
		products, err := st.ListProducts(c.Request.Context(), store.ProductFilter{UploadedBy: m.Email})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		if products == nil {
			products = []models.Product{}
		}
		c.JSON(http.StatusOK, products)
	}
}

// POST /marketer/products/:id/request-deletion
func RequestProductDeletion(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok := currentMarketer(c, st)
		if !ok {
			return
		}
		req, err := st.RequestProductDeletion(c.Request.Context(), m, c.Param("id"))
		switch {
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, store.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete products you uploaded"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to file request"})
		default:
			c.JSON(http.StatusCreated, req)
		}
	}
}
