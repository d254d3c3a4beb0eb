package adminController

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/junaidrashid-git/autoparts-api/store"
	log "github.com/sirupsen/logrus"
)

// GET /admin/requests?status=&type=
func ListRequests(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		requests, err := st.ListRequests(c.Request.Context(), store.RequestFilter{
			Type:   models.RequestType(c.Query("type")),
			Status: models.RequestStatus(c.Query("status")),
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requests"})
			return
		}
		if requests == nil {
			requests = []models.AdminRequest{}
		}
		c.JSON(http.StatusOK, requests)
	}
}

// POST /admin/requests/:id/approve
func ApproveRequest(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := st.ApproveRequest(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeRequestError(c, err)
			return
		}
		c.JSON(http.StatusOK, req)
	}
}

// POST /admin/requests/:id/reject
func RejectRequest(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := st.RejectRequest(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeRequestError(c, err)
			return
		}
		c.JSON(http.StatusOK, req)
	}
}

func writeRequestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Request or referenced record not found"})
	case errors.Is(err, store.ErrStatusConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.WithError(err).WithField("request_id", c.Param("id")).Error("Admin request action failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
	}
}
