package auth

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/autoparts-api/store"
)

const guestTTL = 24 * time.Hour

// POST /auth/guest
func CreateGuestUser(st *store.Store, tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		suffix, err := randomHex(16)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create guest"})
			return
		}
		guestID := "guest_" + suffix

		guest, err := st.CreateGuest(c.Request.Context(), guestID, guestTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create guest"})
			return
		}

		token, err := tokens.Issue(Claims{UserID: guestID, Role: RoleGuest})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"guest_id":   guestID,
			"token":      token,
			"expires_at": guest.ExpiresAt,
		})
	}
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
