package vehicleControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/junaidrashid-git/autoparts-api/store"
	log "github.com/sirupsen/logrus"
)

type MakeInput struct {
	Make   string   `json:"make" binding:"required"`
	Models []string `json:"models"`
}

type ModelInput struct {
	Model string `json:"model" binding:"required"`
}

// GET /vehicles
func GetVehicleMakes(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		makes, err := st.ListVehicleMakes(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vehicle makes"})
			return
		}
		if makes == nil {
			makes = []models.VehicleMake{}
		}
		c.JSON(http.StatusOK, makes)
	}
}

// POST /admin/vehicles
func AddVehicleMake(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input MakeInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Make is required"})
			return
		}
		vm, err := st.AddVehicleMake(c.Request.Context(), input.Make, input.Models)
		if err != nil {
			writeVehicleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, vm)
	}
}

// POST /admin/vehicles/:id/models
func AddVehicleModel(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ModelInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Model is required"})
			return
		}
		vm, err := st.AddVehicleModel(c.Request.Context(), c.Param("id"), input.Model)
		if err != nil {
			writeVehicleError(c, err)
			return
		}
		c.JSON(http.StatusOK, vm)
	}
}

// DELETE /admin/vehicles/:id/models/:model
func RemoveVehicleModel(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		vm, err := st.RemoveVehicleModel(c.Request.Context(), c.Param("id"), c.Param("model"))
		if err != nil {
			writeVehicleError(c, err)
			return
		}
		c.JSON(http.StatusOK, vm)
	}
}

// DELETE /admin/vehicles/:id
func DeleteVehicleMake(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := st.DeleteVehicleMake(c.Request.Context(), c.Param("id")); err != nil {
			writeVehicleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Vehicle make deleted"})
	}
}

func writeVehicleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle make or model not found"})
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.WithError(err).Error("Vehicle catalog update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vehicle catalog"})
	}
}
