package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"resto-suite-backend/internal/model"
	"resto-suite-backend/internal/parse"
	"resto-suite-backend/internal/store"
)

type createServiceWindowRequest struct {
	Name       string `json:"name" binding:"required"`
	StartTime  string `json:"start_time" binding:"required"`
	EndTime    string `json:"end_time" binding:"required"`
	DaysOfWeek []int  `json:"days_of_week" binding:"required"`
	MaxCovers  int    `json:"max_covers" binding:"required"`
}

// CreateServiceWindow defines a recurring service (lunch, dinner) for the
// restaurant.
func (h *Handler) CreateServiceWindow(c *gin.Context) {
	restaurant, ok := h.restaurantFromPath(c)
	if !ok {
		return
	}

	var req createServiceWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := parse.ParseClock(req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_time"})
		return
	}
	end, err := parse.ParseClock(req.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_time"})
		return
	}
	if end <= start {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_time must be after start_time"})
		return
	}
	for _, d := range req.DaysOfWeek {
		if d < 0 || d > 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days_of_week values must be 0-6"})
			return
		}
	}
	if req.MaxCovers <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max_covers must be positive"})
		return
	}

	window := model.ServiceWindow{
		RestaurantID: restaurant.ID,
		Name:         req.Name,
		StartTime:    start.String(),
		EndTime:      end.String(),
		DaysOfWeek:   req.DaysOfWeek,
		MaxCovers:    req.MaxCovers,
	}
	if err := h.store.CreateServiceWindow(c.Request.Context(), &window); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create service window"})
		return
	}

	c.JSON(http.StatusCreated, window)
}

// ListServiceWindows returns the restaurant's recurring services.
func (h *Handler) ListServiceWindows(c *gin.Context) {
	restaurant, ok := h.restaurantFromPath(c)
	if !ok {
		return
	}

	windows, err := h.store.ListServiceWindows(c.Request.Context(), restaurant.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve service windows"})
		return
	}

	c.JSON(http.StatusOK, windows)
}

type createTableRequest struct {
	Name  string `json:"name" binding:"required"`
	Seats int    `json:"seats" binding:"required"`
}

// CreateTable registers a dining table.
func (h *Handler) CreateTable(c *gin.Context) {
	restaurant, ok := h.restaurantFromPath(c)
	if !ok {
		return
	}

	var req createTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Seats <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "seats must be positive"})
		return
	}

	table := model.DiningTable{
		RestaurantID: restaurant.ID,
		Name:         req.Name,
		Seats:        req.Seats,
	}
	if err := h.store.CreateTable(c.Request.Context(), &table); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create table"})
		return
	}

	c.JSON(http.StatusCreated, table)
}

// ListTables returns the restaurant's dining tables.
func (h *Handler) ListTables(c *gin.Context) {
	restaurant, ok := h.restaurantFromPath(c)
	if !ok {
		return
	}

	tables, err := h.store.ListTables(c.Request.Context(), restaurant.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tables"})
		return
	}

	c.JSON(http.StatusOK, tables)
}

type createReservationRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email"`
	PartySize     int    `json:"party_size" binding:"required"`
	Date          string `json:"date" binding:"required"`
	Time          string `json:"time" binding:"required"`
}

// CreateReservation books a party on behalf of a guest, e.g. one phoning in.
// Staff bookings skip the public availability gate: the restaurant may choose
// to overbook.
func (h *Handler) CreateReservation(c *gin.Context) {
	restaurant, ok := h.restaurantFromPath(c)
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
	if err := h.store.CreateReservation(c.Request.Context(), reservation); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reservation"})
		return
	}

	c.JSON(http.StatusCreated, reservation)
}

// buildReservation validates the shared request fields and assembles the
// model. Responds with 400 and returns false on bad input.
func (h *Handler) buildReservation(c *gin.Context, restaurant model.Restaurant, req createReservationRequest) (*model.Reservation, bool) {
	loc := h.location(restaurant)
	date, err := parse.ParseDate(req.Date, loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
		return nil, false
	}
	clock, err := parse.ParseClock(req.Time)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time"})
		return nil, false
	}
	if req.PartySize <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "party_size must be positive"})
		return nil, false
	}

	return &model.Reservation{
		RestaurantID:  restaurant.ID,
		Date:          date,
		Time:          clock.String(),
		PartySize:     req.PartySize,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
	}, true
}

// ListReservations returns reservations for one service day,
// ?date=YYYY-MM-DD, defaulting to today.
func (h *Handler) ListReservations(c *gin.Context) {
	restaurant, ok := h.restaurantFromPath(c)
	if !ok {
		return
	}

	loc := h.location(restaurant)
	day := time.Now().In(loc)
	if raw := c.Query("date"); raw != "" {
		parsed, err := parse.ParseDate(raw, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
			return
		}
		day = parsed
	}

	reservations, err := h.store.ListReservationsOn(c.Request.Context(), restaurant.ID, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reservations"})
		return
	}

	c.JSON(http.StatusOK, reservations)
}

type updateReservationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateReservationStatus moves a reservation through its lifecycle.
func (h *Handler) UpdateReservationStatus(c *gin.Context) {
	restaurant, ok := h.restaurantFromPath(c)
	if !ok {
		return
	}

	reservationID, err := uuid.Parse(c.Param("reservation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID"})
		return
	}

	reservation, err := h.store.GetReservation(c.Request.Context(), reservationID)
	if err != nil || reservation.RestaurantID != restaurant.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		return
	}

	var req updateReservationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.UpdateReservationStatus(c.Request.Context(), reservationID, req.Status); err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "Invalid status transition"})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update reservation"})
		}
		return
	}

	updated, err := h.store.GetReservation(c.Request.Context(), reservationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reservation"})
		return
	}

	c.JSON(http.StatusOK, updated)
}
