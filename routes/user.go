package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/autoparts-api/auth"
	cartControllers "github.com/junaidrashid-git/autoparts-api/controllers/cart"
	checkoutControllers "github.com/junaidrashid-git/autoparts-api/controllers/checkout"
	marketerControllers "github.com/junaidrashid-git/autoparts-api/controllers/marketer"
	productcontroller "github.com/junaidrashid-git/autoparts-api/controllers/product"
	userControllers "github.com/junaidrashid-git/autoparts-api/controllers/user"
	vehicleControllers "github.com/junaidrashid-git/autoparts-api/controllers/vehicle"
	"github.com/junaidrashid-git/autoparts-api/middleware"
)

// SetupCatalogRoutes registers the public read-only endpoints.
func SetupCatalogRoutes(r *gin.Engine, d Deps) {
	r.GET("/products", productcontroller.GetProducts(d.Store))
	r.GET("/products/:id", productcontroller.GetProductByID(d.Store))
	r.GET("/categories", productcontroller.GetAllCategories(d.Store))
	r.GET("/vehicles", vehicleControllers.GetVehicleMakes(d.Store))

	r.POST("/marketers/register", marketerControllers.Register(d.Store))
}

// SetupUserRoutes registers "/user/*", "/cart/*" and "/checkout/*". All of
// them need a session token; guests get one from /auth/guest.
func SetupUserRoutes(r *gin.Engine, d Deps) {
	shopper := middleware.ValidateToken(d.Tokens)

	userGroup := r.Group("/user")
	userGroup.Use(shopper, middleware.RequireRole(auth.RoleUser))
	{
		userGroup.GET("", userControllers.GetUser(d.Store))
		userGroup.PUT("", userControllers.UpdateUser(d.Store))
	}

	cartGroup := r.Group("/cart")
	cartGroup.Use(shopper)
	{
		cartGroup.GET("", cartControllers.GetCart(d.Store))
		cartGroup.POST("", cartControllers.AddCartItem(d.Store))
		cartGroup.PUT("/items/:index", cartControllers.UpdateCartItem(d.Store))
		cartGroup.DELETE("/items/:index", cartControllers.DeleteCartItem(d.Store))
		cartGroup.DELETE("", cartControllers.ClearCart(d.Store))
	}

	checkoutGroup := r.Group("/checkout")
	checkoutGroup.Use(shopper)
	{
		checkoutGroup.POST("/quote", checkoutControllers.QuoteCart(d.Store, d.Assembler))
		checkoutGroup.POST("/orders", checkoutControllers.PlaceOrder(d.Store, d.Assembler))
		checkoutGroup.POST("/paypal/orders", checkoutControllers.CreatePayPalOrder(d.Store, d.Assembler, d.Payments))
		checkoutGroup.POST("/paypal/orders/:id/capture", checkoutControllers.CapturePayPalOrder(d.Store, d.Assembler, d.Payments))
	}
}
