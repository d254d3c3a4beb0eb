package adminController

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/junaidrashid-git/autoparts-api/store"
	"github.com/shopspring/decimal"
)

type MarketerInput struct {
	Name              string           `json:"name" binding:"required"`
	Email             string           `json:"email" binding:"required,email"`
	Phone             string           `json:"phone"`
	Password          string           `json:"password" binding:"required,min=6"`
	CommissionPercent *decimal.Decimal `json:"commission_percent"`
}

// GET /admin/marketers
func GetMarketers(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		marketers, err := st.ListMarketers(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch marketers"})
			return
		}
		if marketers == nil {
			marketers = []models.Marketer{}
		}
		c.JSON(http.StatusOK, marketers)
	}
}

// POST /admin/marketers
func CreateMarketer(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input MarketerInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		m, err := st.CreateMarketer(c.Request.Context(), store.NewMarketer{
			Name:              input.Name,
			Email:             input.Email,
			Phone:             input.Phone,
			Password:          input.Password,
			CommissionPercent: input.CommissionPercent,
		})
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "A marketer with this email already exists"})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, m)
	}
}

// DELETE /admin/marketers/:id
func DeleteMarketer(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := st.DeleteMarketer(c.Request.Context(), c.Param("id"))
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Marketer not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete marketer"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Marketer deleted"})
	}
}
