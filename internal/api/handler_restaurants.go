package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resto-suite-backend/internal/model"
)

type createRestaurantRequest struct {
	Name               string `json:"name" binding:"required"`
	Slug               string `json:"slug" binding:"required"`
	Timezone           string `json:"timezone"`
	AdvanceBookingDays int    `json:"advance_booking_days"`
}

// CreateRestaurant provisions a tenant.
func (h *Handler) CreateRestaurant(c *gin.Context) {
	var req createRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown timezone"})
			return
		}
	}
	if req.AdvanceBookingDays < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "advance_booking_days must not be negative"})
		return
	}

	restaurant := model.Restaurant{
		Name:               req.Name,
		Slug:               req.Slug,
		Timezone:           req.Timezone,
		AdvanceBookingDays: req.AdvanceBookingDays,
	}
	if err := h.store.CreateRestaurant(c.Request.Context(), &restaurant); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create restaurant"})
		return
	}

	c.JSON(http.StatusCreated, restaurant)
}

// ListRestaurants returns all tenants.
func (h *Handler) ListRestaurants(c *gin.Context) {
	restaurants, err := h.store.ListRestaurants(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve restaurants"})
		return
	}
	c.JSON(http.StatusOK, restaurants)
}

// GetRestaurant returns one tenant.
func (h *Handler) GetRestaurant(c *gin.Context) {
	restaurant, ok := h.restaurantFromPath(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, restaurant)
}
