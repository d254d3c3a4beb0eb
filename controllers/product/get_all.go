package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/autoparts-api/store"
	"github.com/shopspring/decimal"
)

// GET /products
func GetProducts(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := store.ProductFilter{
			Search:    c.Query("search"),
			Brand:     c.Query("brand"),
			Model:     c.Query("model"),
			Year:      c.Query("year"),
			Category:  c.Query("category"),
			Condition: c.Query("condition"),
			SortBy:    c.DefaultQuery("sort_by", "created_at"),
			Order:     c.DefaultQuery("order", "desc"),
		}

		for _, p := range []struct {
			name string
			dst  **decimal.Decimal
		}{{"min_price", &filter.MinPrice}, {"max_price", &filter.MaxPrice}} {
			raw := c.Query(p.name)
			if raw == "" {
				continue
			}
			v, err := decimal.NewFromString(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + p.name})
				return
			}
			*p.dst = &v
		}

		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
				return
			}
			filter.Limit = n
			filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
		}

		products, err := st.ListProducts(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}
