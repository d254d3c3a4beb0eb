package adminController

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/junaidrashid-git/autoparts-api/store"
	log "github.com/sirupsen/logrus"
)

type emailInput struct {
	Email string `json:"email" binding:"required"`
}

// ListPendingAdmins returns all admins awaiting approval.
func ListPendingAdmins(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		pending, err := st.ListAdmins(c.Request.Context(), true)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending admins"})
			return
		}
		c.JSON(http.StatusOK, pending)
	}
}

func ApproveAdmin(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req emailInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		err := st.ApproveAdmin(c.Request.Context(), req.Email)
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve admin"})
			return
		}
		log.WithField("email", req.Email).Info("Admin approved")
		c.JSON(http.StatusOK, gin.H{"message": "Admin approved"})
	}
}

func RejectAdmin(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req emailInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if err := st.RejectAdmin(c.Request.Context(), req.Email); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject admin"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Admin rejected"})
	}
}
