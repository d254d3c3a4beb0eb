package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/autoparts-api/auth"
	"github.com/junaidrashid-git/autoparts-api/checkout"
	checkoutControllers "github.com/junaidrashid-git/autoparts-api/controllers/checkout"
	"github.com/junaidrashid-git/autoparts-api/events"
	"github.com/junaidrashid-git/autoparts-api/store"
)

// Deps is everything the handlers are built from.
type Deps struct {
	Store     *store.Store
	Tokens    *auth.Tokens
	Verifier  auth.IDTokenVerifier
	Assembler *checkout.Assembler
	Watcher   *checkout.Watcher
	Hub       *events.Hub
	Payments  checkoutControllers.PaymentProcessor

	AdminAPIKey     string
	SuperAdminEmail string
}

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, d Deps) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, d)

	// Catalog browsing and marketer registration
	SetupCatalogRoutes(r, d)

	// User profile, cart and checkout (JWT-protected, guests allowed)
	SetupUserRoutes(r, d)

	// Order lookup and live status
	SetupOrderRoutes(r, d)

	// Marketer portal (marketer JWT)
	SetupMarketerRoutes(r, d)

	// Admin routes (API key or admin JWT)
	SetupAdminRoutes(r, d)
}
