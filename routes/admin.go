package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/autoparts-api/auth"
	adminController "github.com/junaidrashid-git/autoparts-api/controllers/admin"
	cartControllers "github.com/junaidrashid-git/autoparts-api/controllers/cart"
	orderControllers "github.com/junaidrashid-git/autoparts-api/controllers/order"
	productcontroller "github.com/junaidrashid-git/autoparts-api/controllers/product"
	userControllers "github.com/junaidrashid-git/autoparts-api/controllers/user"
	vehicleControllers "github.com/junaidrashid-git/autoparts-api/controllers/vehicle"
	"github.com/junaidrashid-git/autoparts-api/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires an API key or
// an admin token.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.AdminAccess(d.AdminAPIKey, d.Tokens))
	{
		// ─────────── Admin & User Management ───────────
		adminGroup.GET("/admins", adminController.GetAllAdmins(d.Store))
		adminGroup.GET("/users", userControllers.GetAllUsers(d.Store))
		adminGroup.GET("/user-cart/:user_id", cartControllers.GetAdminUserCart(d.Store))

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.GET("", productcontroller.GetProducts(d.Store))
			productAdmin.POST("", productcontroller.CreateProduct(d.Store))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(d.Store))
			productAdmin.PUT("/:id/discount", productcontroller.SetProductDiscount(d.Store))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(d.Store))
			productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(d.Store))
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(d.Store))
		}

		// ─────────── Vehicle Makes ───────────
		vehicleAdmin := adminGroup.Group("/vehicles")
		{
			vehicleAdmin.POST("", vehicleControllers.AddVehicleMake(d.Store))
			vehicleAdmin.DELETE("/:id", vehicleControllers.DeleteVehicleMake(d.Store))
			vehicleAdmin.POST("/:id/models", vehicleControllers.AddVehicleModel(d.Store))
			vehicleAdmin.DELETE("/:id/models/:model", vehicleControllers.RemoveVehicleModel(d.Store))
		}

		// ─────────── Orders ───────────
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrdersHandler(d.Store))
			orderAdmin.GET("/lookup", orderControllers.GetOrderHandler(d.Store))
			orderAdmin.GET("/feed", orderControllers.OrderFeedHandler(d.Hub))
		}

		// ─────────── Approval Queue ───────────
		requests := adminGroup.Group("/requests")
		{
			requests.GET("", adminController.ListRequests(d.Store))
			requests.POST("/:id/approve", adminController.ApproveRequest(d.Store))
			requests.POST("/:id/reject", adminController.RejectRequest(d.Store))
		}

		// ─────────── Marketers ───────────
		marketers := adminGroup.Group("/marketers")
		{
			marketers.GET("", adminController.GetMarketers(d.Store))
			marketers.POST("", adminController.CreateMarketer(d.Store))
			marketers.DELETE("/:id", adminController.DeleteMarketer(d.Store))
		}

		// ─────────── Admin Approval Workflow ───────────
		adminMgmt := adminGroup.Group("/admin-management")
		adminMgmt.Use(superAdminOnly)
		{
			adminMgmt.GET("/pending", adminController.ListPendingAdmins(d.Store))
			adminMgmt.POST("/approve", adminController.ApproveAdmin(d.Store))
			adminMgmt.POST("/reject", adminController.RejectAdmin(d.Store))
		}
	}
}

// superAdminOnly blocks regular admin tokens. API key callers pass.
func superAdminOnly(c *gin.Context) {
	if claims := middleware.Claims(c); claims != nil && claims.Role != auth.RoleSuperAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Super admin access required"})
		return
	}
	c.Next()
}
