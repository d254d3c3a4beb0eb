package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/autoparts-api/auth"
	marketerControllers "github.com/junaidrashid-git/autoparts-api/controllers/marketer"
	"github.com/junaidrashid-git/autoparts-api/middleware"
)

// SetupMarketerRoutes registers all "/marketer/*" endpoints.
func SetupMarketerRoutes(r *gin.Engine, d Deps) {
	portal := r.Group("/marketer")
	portal.Use(middleware.ValidateToken(d.Tokens), middleware.RequireRole(auth.RoleMarketer))
	{
		portal.GET("/me", marketerControllers.Me(d.Store))
		portal.GET("/requests", marketerControllers.GetOwnRequests(d.Store))

		sales := portal.Group("/sales")
		{
			sales.GET("", marketerControllers.GetSales(d.Store))
			sales.POST("/:id/approve", marketerControllers.ApproveSale(d.Store))
			sales.POST("/:id/request-approval", marketerControllers.RequestSaleApproval(d.Store))
		}

		products := portal.Group("/products")
		{
			products.GET("", marketerControllers.GetOwnProducts(d.Store))
			products.POST("", marketerControllers.UploadProduct(d.Store))
			products.POST("/:id/request-deletion", marketerControllers.RequestProductDeletion(d.Store))
		}
	}
}
