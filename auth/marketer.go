package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/autoparts-api/store"
	log "github.com/sirupsen/logrus"
)

// POST /auth/marketer
func MarketerLogin(st *store.Store, tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
			return
		}

		m, err := st.AuthenticateMarketer(c.Request.Context(), req.Email, req.Password)
		if errors.Is(err, store.ErrInvalidCredentials) {
			log.WithField("email", req.Email).Warn("Marketer login rejected")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		token, err := tokens.Issue(Claims{UserID: m.ID, Email: m.Email, Role: RoleMarketer, MarketerID: m.ID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "marketer": m})
	}
}
