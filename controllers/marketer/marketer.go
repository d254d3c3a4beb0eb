package marketerControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/junaidrashid-git/autoparts-api/store"
	log "github.com/sirupsen/logrus"
)

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6"`
}

// POST /marketers/register
//
// Registration only files a request; the account exists once an admin
// approves it.
func Register(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		reg := models.Registration{Name: input.Name, Email: input.Email, Phone: input.Phone}
		req, err := st.RequestMarketerRegistration(c.Request.Context(), reg, input.Password)
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "A marketer with this email already exists"})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"message": "Registration submitted for approval", "request_id": req.ID})
	}
}

// GET /marketer/me
func Me(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok := currentMarketer(c, st)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, m)
	}
}

// GET /marketer/requests
func GetOwnRequests(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		requests, err := st.ListRequests(c.Request.Context(), store.RequestFilter{
			MarketerID: c.GetString("marketer_id"),
			Status:     models.RequestStatus(c.Query("status")),
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

func currentMarketer(c *gin.Context, st *store.Store) (*models.Marketer, bool) {
	id := c.GetString("marketer_id")
	if id == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Marketer session required"})
		return nil, false
	}
	m, err := st.GetMarketer(c.Request.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Marketer not found"})
		return nil, false
	}
	if err != nil {
		log.WithError(err).WithField("marketer_id", id).Error("Failed to load marketer")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, false
	}
	return m, true
}
