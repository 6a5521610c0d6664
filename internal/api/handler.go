package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"resto-suite-backend/config"
	"resto-suite-backend/internal/model"
	"resto-suite-backend/internal/photo"
	"resto-suite-backend/internal/refresh"
	"resto-suite-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store     store.Store
	cfg       *config.Config
	webpush   *webpush.Options
	refresher *refresh.Refresher
	photos    *photo.Store
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, cfg *config.Config, webpushOptions *webpush.Options, refresher *refresh.Refresher, photos *photo.Store) *Handler {
	return &Handler{
		store:     s,
		cfg:       cfg,
		webpush:   webpushOptions,
		refresher: refresher,
		photos:    photos,
	}
}

// restaurantFromPath resolves the :restaurant_id path parameter. Writes the
// error response itself; callers just return on false.
func (h *Handler) restaurantFromPath(c *gin.Context) (model.Restaurant, bool) {
	id, err := strconv.ParseInt(c.Param("restaurant_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid restaurant ID"})
		return model.Restaurant{}, false
	}

	restaurant, err := h.store.GetRestaurant(c.Request.Context(), id)
	if err != nil {
		if err == store.ErrNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		} else {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve restaurant"})
		}
		return model.Restaurant{}, false
	}
	return restaurant, true
}

// location resolves a restaurant's timezone, falling back to the configured
// default. Day boundaries and "now" comparisons all happen in this location.
func (h *Handler) location(r model.Restaurant) *time.Location {
	tz := r.Timezone
	if tz == "" {
		tz = h.cfg.Booking.Timezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// advanceDays resolves a restaurant's advance-booking bound.
func (h *Handler) advanceDays(r model.Restaurant) int {
	if r.AdvanceBookingDays > 0 {
		return r.AdvanceBookingDays
	}
	return h.cfg.Booking.AdvanceBookingDays
}
