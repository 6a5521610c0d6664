package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"resto-suite-backend/internal/compliance"
	"resto-suite-backend/internal/model"
	"resto-suite-backend/internal/parse"
	"resto-suite-backend/internal/store"
)

type createShelfLifeItemRequest struct {
	ProductName string `json:"product_name" binding:"required"`
	OpenedOn    string `json:"opened_on" binding:"required"`
	ExpiresOn   string `json:"expires_on" binding:"required"`
	PhotoURL    string `json:"photo_url"`
}

// CreateShelfLifeItem registers an opened product under shelf-life tracking.
func (h *Handler) CreateShelfLifeItem(c *gin.Context) {
	restaurant, ok := h.restaurantFromPath(c)
	if !ok {
		return
	}

	var req createShelfLifeItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loc := h.location(restaurant)
	openedOn, err := parse.ParseDate(req.OpenedOn, loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid opened_on date"})
		return
	}
	expiresOn, err := parse.ParseDate(req.ExpiresOn, loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expires_on date"})
		return
	}
	if expiresOn.Before(openedOn) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expires_on precedes opened_on"})
		return
	}

	item := model.ShelfLifeItem{
		RestaurantID: restaurant.ID,
		ProductName:  req.ProductName,
		OpenedOn:     openedOn,
		ExpiresOn:    expiresOn,
		PhotoURL:     req.PhotoURL,
		Status:       model.ShelfLifeActive,
	}
	if err := h.store.CreateShelfLifeItem(c.Request.Context(), &item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create shelf-life item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

type shelfLifeItemResponse struct {
	model.ShelfLifeItem
	DaysLeft int              `json:"days_left"`
	Level    compliance.Level `json:"level"`
}

// ListShelfLifeItems returns tracked items. By default only open items
// (active and expired) are listed; ?all=true includes closed ones too.
func (h *Handler) ListShelfLifeItems(c *gin.Context) {
	restaurant, ok := h.restaurantFromPath(c)
	if !ok {
		return
	}

	openOnly := c.Query("all") != "true"
	items, err := h.store.ListShelfLifeItems(c.Request.Context(), restaurant.ID, openOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve shelf-life items"})
		return
	}

	now := time.Now().In(h.location(restaurant))
	response := make([]shelfLifeItemResponse, 0, len(items))
	for _, it := range items {
		days := compliance.DaysUntil(it.ExpiresOn, now)
		response = append(response, shelfLifeItemResponse{
			ShelfLifeItem: it,
			DaysLeft:      days,
			Level:         compliance.ShelfLifeLevel(days),
		})
	}

	c.JSON(http.StatusOK, response)
}

type shelfLifeEventRequest struct {
	Action       string `json:"action" binding:"required"`
	Note         string `json:"note"`
	NewExpiresOn string `json:"new_expires_on"`
}

// CreateShelfLifeEvent appends a handling event to an item's trail and
// applies its side effect (closing the item, extending its date).
func (h *Handler) CreateShelfLifeEvent(c *gin.Context) {
	restaurant, ok := h.restaurantFromPath(c)
	if !ok {
		return
	}

	itemID, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	if _, err := h.store.GetShelfLifeItem(c.Request.Context(), restaurant.ID, itemID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shelf-life item not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve shelf-life item"})
		}
		return
	}

	var req shelfLifeEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loc := h.location(restaurant)
	action := store.ShelfLifeAction{
		Action:     req.Action,
		OccurredAt: time.Now().In(loc),
		Note:       req.Note,
	}
	if req.NewExpiresOn != "" {
		d, err := parse.ParseDate(req.NewExpiresOn, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid new_expires_on date"})
			return
		}
		action.NewExpiresOn = &d
	}

	if err := h.store.ApplyShelfLifeAction(c.Request.Context(), itemID, action); err != nil {
		switch {
		case errors.Is(err, store.ErrUnknownAction):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action"})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Shelf-life item not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply action"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
