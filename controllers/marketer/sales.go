package marketerControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/junaidrashid-git/autoparts-api/store"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// SalesSummary totals a marketer's ledger. Only settled sales earn
// commission.
type SalesSummary struct {
	Count             int             `json:"count"`
	SettledCount      int             `json:"settled_count"`
	TotalSales        decimal.Decimal `json:"total_sales"`
	SettledSales      decimal.Decimal `json:"settled_sales"`
	EarnedCommission  decimal.Decimal `json:"earned_commission"`
	PendingCommission decimal.Decimal `json:"pending_commission"`
}

func Summarize(sales []models.Order) SalesSummary {
	s := SalesSummary{Count: len(sales)}
	for _, o := range sales {
		s.TotalSales = s.TotalSales.Add(o.Total)
		if o.Status.Settled() || o.Status == models.StatusCompleted {
			s.SettledCount++
			s.SettledSales = s.SettledSales.Add(o.Total)
			s.EarnedCommission = s.EarnedCommission.Add(o.Commission)
		} else {
			s.PendingCommission = s.PendingCommission.Add(o.Commission)
		}
	}
	return s
}

// GET /marketer/sales?status=
func GetSales(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ledger := models.MarketerLedger(c.GetString("marketer_id"))
		sales, err := st.ListOrders(c.Request.Context(), ledger, models.OrderStatus(c.Query("status")))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales"})
			return
		}
		if sales == nil {
			sales = []models.Order{}
		}
		c.JSON(http.StatusOK, gin.H{
			"ledger_path": ledger.Path(),
			"sales":       sales,
			"summary":     Summarize(sales),
		})
	}
}

// POST /marketer/sales/:id/approve confirms payment the marketer collected.
func ApproveSale(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ledger := models.MarketerLedger(c.GetString("marketer_id"))
		saleID := c.Param("id")

		err := st.SettleOrder(c.Request.Context(), ledger, saleID, models.StatusApproved)
		if err != nil {
			writeSaleError(c, err, saleID)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Sale approved", "ledger_path": ledger.Path(), "order_id": saleID})
	}
}

// POST /marketer/sales/:id/request-approval hands the sale to an admin.
func RequestSaleApproval(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok := currentMarketer(c, st)
		if !ok {
			return
		}
		req, err := st.RequestSaleApproval(c.Request.Context(), m, c.Param("id"))
		if err != nil {
			writeSaleError(c, err, c.Param("id"))
			return
		}
		c.JSON(http.StatusCreated, req)
	}
}

func writeSaleError(c *gin.Context, err error, saleID string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
	case errors.Is(err, store.ErrStatusConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.WithError(err).WithField("sale_id", saleID).Error("Sale update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update sale"})
	}
}
