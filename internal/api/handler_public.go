package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resto-suite-backend/internal/booking"
	"resto-suite-backend/internal/model"
	"resto-suite-backend/internal/parse"
)

// restaurantFromSlug resolves the public URL slug. Responds with 404 and
// returns false when no restaurant carries it.
func (h *Handler) restaurantFromSlug(c *gin.Context) (model.Restaurant, bool) {
	restaurant, err := h.store.GetRestaurantBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return model.Restaurant{}, false
	}
	return restaurant, true
}

type availabilityResponse struct {
	Restaurant string                       `json:"restaurant"`
	Date       string                       `json:"date"`
	Windows    []booking.WindowAvailability `json:"windows"`
}

// GetAvailability is the public booking surface: the service windows of one
// date with their open/closed state, remaining covers and bookable slots.
// Dates outside the restaurant's advance-booking horizon come back with no
// windows rather than an error, so the widget can grey them out.
func (h *Handler) GetAvailability(c *gin.Context) {
	restaurant, ok := h.restaurantFromSlug(c)
	if !ok {
		return
	}

	loc := h.location(restaurant)
	now := time.Now().In(loc)

	date := now
	if raw := c.Query("date"); raw != "" {
		parsed, err := parse.ParseDate(raw, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
			return
		}
		date = parsed
	}

	response := availabilityResponse{
		Restaurant: restaurant.Name,
		Date:       parse.FormatDate(date),
		Windows:    []booking.WindowAvailability{},
	}

	if !withinHorizon(date, now, h.advanceDays(restaurant)) {
		c.JSON(http.StatusOK, response)
		return
	}

	windows, err := h.store.ListServiceWindows(c.Request.Context(), restaurant.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve availability"})
		return
	}
	reservations, err := h.store.ListReservationsOn(c.Request.Context(), restaurant.ID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve availability"})
		return
	}

	response.Windows = booking.ForDay(windows, reservations, date, now, h.cfg.Booking.SlotStepMinutes)
	c.JSON(http.StatusOK, response)
}

// withinHorizon reports whether date falls in [today, today+advanceDays).
func withinHorizon(date, now time.Time, advanceDays int) bool {
	for _, d := range booking.BookableDates(now, advanceDays) {
		if d.Year() == date.Year() && d.YearDay() == date.YearDay() {
			return true
		}
	}
	return false
}

// CreatePublicReservation books a table through the public widget. Unlike
// staff bookings it is gated on availability: the requested time must be an
// open slot and the window must have covers left for the party.
func (h *Handler) CreatePublicReservation(c *gin.Context) {
	restaurant, ok := h.restaurantFromSlug(c)
	if !ok {
		return
	}

	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reservation, ok := h.buildReservation(c, restaurant, req)
	if !ok {
		return
	}

	loc := h.location(restaurant)
	now := time.Now().In(loc)
	date := reservation.Date
	// Already validated by buildReservation.
	at, _ := parse.ParseClock(reservation.Time)

	if !withinHorizon(date, now, h.advanceDays(restaurant)) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Date is outside the booking horizon"})
		return
	}

	windows, err := h.store.ListServiceWindows(c.Request.Context(), restaurant.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reservation"})
		return
	}

	window := booking.WindowForTime(windows, date, at)
	if window == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No service at the requested time"})
		return
	}

	bookable := false
	for _, s := range booking.SlotsFor(*window, date, now, h.cfg.Booking.SlotStepMinutes) {
		if s == at {
			bookable = true
			break
		}
	}
	if !bookable {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Requested time is not a bookable slot"})
		return
	}

	reservations, err := h.store.ListReservationsOn(c.Request.Context(), restaurant.ID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reservation"})
		return
	}
	if booking.RemainingCovers(*window, reservations) < reservation.PartySize {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Not enough covers left for this party"})
		return
	}

	if err := h.store.CreateReservation(c.Request.Context(), reservation); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reservation"})
		return
	}

	c.JSON(http.StatusCreated, reservation)
}
