package orderControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/junaidrashid-git/autoparts-api/store"
)

// GET /admin/orders?ledger=orders|sales|all&status=
func GetAllOrdersHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		status := models.OrderStatus(c.Query("status"))

		var general, sales []models.Order
		var err error
		switch c.DefaultQuery("ledger", "all") {
		case "orders":
			general, err = st.ListOrders(ctx, models.GeneralLedger(), status)
		case "sales":
			sales, err = st.ListAllSales(ctx, status)
		case "all":
			general, err = st.ListOrders(ctx, models.GeneralLedger(), status)
			if err == nil {
				sales, err = st.ListAllSales(ctx, status)
			}
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "ledger must be orders, sales or all"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"orders":         nonNil(general),
			"marketer_sales": nonNil(sales),
		})
	}
}

// GET /admin/orders/lookup?ledger_path=&order_id=
func GetOrderHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ledger, err := models.ParseLedgerPath(c.Query("ledger_path"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ledger path"})
			return
		}
		order, err := st.GetOrder(c.Request.Context(), ledger, c.Query("order_id"))
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func nonNil(orders []models.Order) []models.Order {
	if orders == nil {
		return []models.Order{}
	}
	return orders
}
