package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/autoparts-api/checkout"
	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/junaidrashid-git/autoparts-api/store"
	log "github.com/sirupsen/logrus"
)

type loginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
	GuestID string `json:"guest_id"`
}

// POST /auth/google-user
func GoogleUserLogin(st *store.Store, verifier IDTokenVerifier, tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		id, err := verifier.Verify(c.Request.Context(), req.IDToken)
		if err != nil {
			log.WithError(err).Warn("ID token verification failed")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Firebase ID token"})
			return
		}

		user, err := st.UpsertUser(c.Request.Context(), &models.User{
			ID:       id.UID,
			Email:    id.Email,
			Name:     id.Name,
			Picture:  id.Picture,
			Provider: "google",
		})
		if err != nil {
			log.WithError(err).Error("Failed to store user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		mergeStatus := "no-guest-cart"
		if req.GuestID != "" {
			mergeStatus = mergeGuestCart(c.Request.Context(), st, req.GuestID, user.ID)
		}

		token, err := tokens.Issue(Claims{UserID: user.ID, Email: user.Email, Role: RoleUser})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":      "Login successful",
			"merge_status": mergeStatus,
			"user":         user,
			"token":        token,
		})
	}
}

// mergeGuestCart folds the guest's cart into the user's with the usual
// add-merge rule and removes the guest cart. Lines in another currency than
// the user cart stay behind in the guest cart.
func mergeGuestCart(ctx context.Context, st *store.Store, guestID, userID string) string {
	guestCart, err := checkout.OpenCart(ctx, st, models.GuestCartKey(guestID))
	if err != nil {
		log.WithError(err).WithField("guest_id", guestID).Error("Failed to load guest cart")
		return "merge-failed"
	}
	if guestCart.Len() == 0 {
		return "guest-cart-empty"
	}

	userCart, err := checkout.OpenCart(ctx, st, models.UserCartKey(userID))
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to load user cart")
		return "merge-failed"
	}

	skipped, err := userCart.Merge(ctx, guestCart.Items())
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to merge guest cart")
		return "merge-failed"
	}
	if len(skipped) > 0 {
		log.WithFields(log.Fields{"user_id": userID, "skipped": len(skipped)}).Warn("Guest cart lines left unmerged")
		if err := st.SaveCart(ctx, guestCart.Key(), skipped); err != nil {
			log.WithError(err).WithField("guest_id", guestID).Warn("Failed to trim merged guest cart")
		}
		return "merged-partial"
	}
	if err := guestCart.Clear(ctx); err != nil {
		log.WithError(err).WithField("guest_id", guestID).Warn("Failed to remove merged guest cart")
	}
	return "merged-success"
}

// POST /auth/google-admin
func GoogleAdminLogin(st *store.Store, verifier IDTokenVerifier, tokens *Tokens, superAdminEmail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		id, err := verifier.Verify(c.Request.Context(), req.IDToken)
		if err != nil {
			log.WithError(err).Warn("ID token verification failed")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or revoked ID token"})
			return
		}

		role := RoleAdmin
		if superAdminEmail != "" && strings.EqualFold(id.Email, superAdminEmail) {
			role = RoleSuperAdmin
		} else {
			_, err := st.LoginAdmin(c.Request.Context(), id.Email, id.Name, id.Picture)
			if errors.Is(err, store.ErrAdminPending) {
				log.WithField("email", id.Email).Info("Admin login pending approval")
				c.JSON(http.StatusForbidden, gin.H{"error": "Pending approval by super admin"})
				return
			}
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
				return
			}
		}

		token, err := tokens.Issue(Claims{UserID: id.UID, Email: id.Email, Role: role})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"token":   token,
			"role":    role,
			"email":   id.Email,
			"name":    id.Name,
			"picture": id.Picture,
		})
	}
}
