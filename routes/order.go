package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/junaidrashid-git/autoparts-api/controllers/order"
)

// SetupOrderRoutes registers the customer-facing order endpoints.
func SetupOrderRoutes(r *gin.Engine, d Deps) {
	orders := r.Group("/orders")
	{
		// websocket: pushes "approved" once the order's payment is confirmed
		orders.GET("/watch", orderControllers.WatchOrderHandler(d.Watcher))
	}
}
