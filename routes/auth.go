package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/autoparts-api/auth"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/google-user", auth.GoogleUserLogin(d.Store, d.Verifier, d.Tokens))
		authGroup.POST("/google-admin", auth.GoogleAdminLogin(d.Store, d.Verifier, d.Tokens, d.SuperAdminEmail))
		authGroup.POST("/guest", auth.CreateGuestUser(d.Store, d.Tokens))
		authGroup.POST("/marketer", auth.MarketerLogin(d.Store, d.Tokens))
	}
}
