package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"resto-suite-backend/internal/compliance"
	"resto-suite-backend/internal/model"
	"resto-suite-backend/internal/parse"
	"resto-suite-backend/internal/store"
)

type createEquipmentRequest struct {
	Name     string           `json:"name" binding:"required"`
	Kind     string           `json:"kind" binding:"required"`
	BoundMin *decimal.Decimal `json:"bound_min"`
	BoundMax *decimal.Decimal `json:"bound_max"`
}

// CreateEquipment registers a new monitored unit for the restaurant.
func (h *Handler) CreateEquipment(c *gin.Context) {
	restaurant, ok := h.restaurantFromPath(c)
	if !ok {
		return
	}

	var req createEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.BoundMin != nil && req.BoundMax != nil && req.BoundMin.GreaterThan(*req.BoundMax) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bound_min must not exceed bound_max"})
		return
	}

	eq := model.Equipment{
		RestaurantID: restaurant.ID,
		Name:         req.Name,
		Kind:         req.Kind,
		BoundMin:     req.BoundMin,
		BoundMax:     req.BoundMax,
	}
	if err := h.store.CreateEquipment(c.Request.Context(), &eq); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create equipment"})
		return
	}

	c.JSON(http.StatusCreated, eq)
}

// ListEquipment returns the restaurant's monitored units.
func (h *Handler) ListEquipment(c *gin.Context) {
	restaurant, ok := h.restaurantFromPath(c)
	if !ok {
		return
	}

	equipment, err := h.store.ListEquipment(c.Request.Context(), restaurant.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve equipment"})
		return
	}

	c.JSON(http.StatusOK, equipment)
}

type createReadingRequest struct {
	EquipmentID int64           `json:"equipment_id" binding:"required"`
	Value       decimal.Decimal `json:"value" binding:"required"`
	TakenAt     *time.Time      `json:"taken_at"`
	PhotoURL    string          `json:"photo_url"`
}

// readingResponse is a reading with its conformity derived against the
// equipment's bounds at response time.
type readingResponse struct {
	model.TemperatureReading
	Status compliance.Level `json:"status"`
}

// CreateReading logs one temperature measurement. Readings are immutable;
// a correction is a second reading, and the latest one read wins for the
// derived status.
func (h *Handler) CreateReading(c *gin.Context) {
	restaurant, ok := h.restaurantFromPath(c)
	if !ok {
		return
	}

	var req createReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eq, err := h.store.GetEquipment(c.Request.Context(), restaurant.ID, req.EquipmentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Equipment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve equipment"})
		}
		return
	}

	takenAt := time.Now().In(h.location(restaurant))
	if req.TakenAt != nil {
		takenAt = *req.TakenAt
	}

	reading := model.TemperatureReading{
		EquipmentID: req.EquipmentID,
		Value:       req.Value,
		TakenAt:     takenAt,
		PhotoURL:    req.PhotoURL,
	}
	if err := h.store.CreateReading(c.Request.Context(), &reading); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reading"})
		return
	}

	c.JSON(http.StatusCreated, readingResponse{
		TemperatureReading: reading,
		Status:             compliance.Classify(reading.Value, eq.BoundMin, eq.BoundMax),
	})
}

// ListReadings returns one day's readings with their derived conformity.
// Defaults to today in the restaurant's timezone; ?date=YYYY-MM-DD selects
// another day.
func (h *Handler) ListReadings(c *gin.Context) {
	restaurant, ok := h.restaurantFromPath(c)
	if !ok {
		return
	}
	loc := h.location(restaurant)

	day := time.Now().In(loc)
	if raw := c.Query("date"); raw != "" {
		parsed, err := parse.ParseDate(raw, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'date' format. Use YYYY-MM-DD."})
			return
		}
		day = parsed
	}

	readings, err := h.store.ListReadingsOn(c.Request.Context(), restaurant.ID, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve readings"})
		return
	}

	equipment, err := h.store.ListEquipment(c.Request.Context(), restaurant.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve equipment"})
		return
	}
	bounds := make(map[int64]model.Equipment, len(equipment))
	for _, eq := range equipment {
		bounds[eq.ID] = eq
	}

	response := make([]readingResponse, 0, len(readings))
	for _, r := range readings {
		eq := bounds[r.EquipmentID]
		response = append(response, readingResponse{
			TemperatureReading: r,
			Status:             compliance.Classify(r.Value, eq.BoundMin, eq.BoundMax),
		})
	}

	c.JSON(http.StatusOK, response)
}
