package adminController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/autoparts-api/store"
)

// GET /admin/admins
func GetAllAdmins(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		admins, err := st.ListAdmins(c.Request.Context(), false)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch admins"})
			return
		}
		c.JSON(http.StatusOK, admins)
	}
}
