package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"resto-suite-backend/internal/compliance"
	"resto-suite-backend/internal/model"
	"resto-suite-backend/internal/store"
)

type createCleaningTaskRequest struct {
	PostName  string `json:"post_name" binding:"required"`
	Frequency string `json:"frequency" binding:"required"`
}

// CreateCleaningTask registers a cleaning plan for one post.
func (h *Handler) CreateCleaningTask(c *gin.Context) {
	restaurant, ok := h.restaurantFromPath(c)
	if !ok {
		return
	}

	var req createCleaningTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !compliance.KnownFrequency(compliance.Frequency(req.Frequency)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown frequency"})
		return
	}

	task := model.CleaningTask{
		RestaurantID: restaurant.ID,
		PostName:     req.PostName,
		Frequency:    req.Frequency,
	}
	if err := h.store.CreateCleaningTask(c.Request.Context(), &task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create cleaning task"})
		return
	}

	c.JSON(http.StatusCreated, task)
}

// cleaningTaskResponse carries the task with its due state derived now.
type cleaningTaskResponse struct {
	model.CleaningTask
	NeedsAction bool `json:"needs_action"`
}

// ListCleaningTasks returns the restaurant's tasks with their derived due
// state.
func (h *Handler) ListCleaningTasks(c *gin.Context) {
	restaurant, ok := h.restaurantFromPath(c)
	if !ok {
		return
	}

	tasks, err := h.store.ListCleaningTasks(c.Request.Context(), restaurant.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cleaning tasks"})
		return
	}

	now := time.Now().In(h.location(restaurant))
	response := make([]cleaningTaskResponse, 0, len(tasks))
	for _, t := range tasks {
		response = append(response, cleaningTaskResponse{
			CleaningTask: t,
			NeedsAction:  compliance.NeedsPeriodicAction(compliance.Frequency(t.Frequency), t.LastCompletedAt, now),
		})
	}

	c.JSON(http.StatusOK, response)
}

type completeCleaningRequest struct {
	CompletedBy string `json:"completed_by"`
}

// CompleteCleaningTask logs a completed cleaning. This is how a cleaning
// alert gets resolved: the task stops being due on the next derivation pass.
func (h *Handler) CompleteCleaningTask(c *gin.Context) {
	restaurant, ok := h.restaurantFromPath(c)
	if !ok {
		return
	}

	taskID, err := strconv.ParseInt(c.Param("task_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	if _, err := h.store.GetCleaningTask(c.Request.Context(), restaurant.ID, taskID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cleaning task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cleaning task"})
		}
		return
	}

	var req completeCleaningRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	done := store.CleaningDone{
		CompletedAt: time.Now().In(h.location(restaurant)),
		CompletedBy: req.CompletedBy,
	}
	if err := h.store.CompleteCleaningTask(c.Request.Context(), taskID, done); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete cleaning task"})
		return
	}

	c.Status(http.StatusNoContent)
}
