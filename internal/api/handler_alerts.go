package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resto-suite-backend/internal/alert"
	"resto-suite-backend/internal/refresh"
)

type alertsResponse struct {
	Alerts      []alert.Alert `json:"alerts"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// report returns the freshest alert report for a restaurant: the refresher's
// cached snapshot when one exists, otherwise a report built on the spot.
func (h *Handler) report(c *gin.Context, restaurantID int64, loc *time.Location) (alert.Report, bool) {
	if h.refresher != nil {
		if snap, ok := h.refresher.Snapshot(restaurantID); ok {
			return snap.Report, true
		}
	}
	report, err := refresh.BuildReport(c.Request.Context(), h.store, restaurantID, time.Now().In(loc))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build alert report"})
		return alert.Report{}, false
	}
	return report, true
}

// GetAlerts returns the current compliance alerts, flattened across
// categories in presentation order.
func (h *Handler) GetAlerts(c *gin.Context) {
	restaurant, ok := h.restaurantFromPath(c)
	if !ok {
		return
	}

	report, ok := h.report(c, restaurant.ID, h.location(restaurant))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, alertsResponse{
		Alerts:      report.All(),
		GeneratedAt: report.GeneratedAt,
	})
}

type nextAlertResponse struct {
	Alert     *alert.Alert `json:"alert"`
	Remaining int          `json:"remaining"`
}

// GetNextAlert returns the first alert not yet handled in the current
// walkthrough. ?resolved= carries the comma-separated keys already dealt
// with, so the walkthrough survives a dashboard reload.
func (h *Handler) GetNextAlert(c *gin.Context) {
	restaurant, ok := h.restaurantFromPath(c)
	if !ok {
		return
	}

	report, ok := h.report(c, restaurant.ID, h.location(restaurant))
	if !ok {
		return
	}

	resolved := make(map[string]bool)
	if raw := c.Query("resolved"); raw != "" {
		for _, key := range strings.Split(raw, ",") {
			if key = strings.TrimSpace(key); key != "" {
				resolved[key] = true
			}
		}
	}

	alerts := report.All()
	next := alert.NextUnresolved(alerts, resolved)

	remaining := 0
	for _, a := range alerts {
		if !resolved[a.Key()] {
			remaining++
		}
	}

	c.JSON(http.StatusOK, nextAlertResponse{Alert: next, Remaining: remaining})
}
