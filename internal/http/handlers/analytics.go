package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"railbook/internal/analytics"
)

type AnalyticsHandler struct {
	Events *analytics.Logger
	Routes *analytics.RouteStats
}

// GET /api/analytics/top-routes?limit=
func (h AnalyticsHandler) TopRoutes(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if limit < 1 || limit > 20 {
		limit = 5
	}

	routes, err := h.Routes.Top(c.Request.Context(), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "analytics unavailable")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(routes),
		"results": routes,
	})
}

// GET /api/analytics/events?limit= (admin)
func (h AnalyticsHandler) RecentEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 500 {
		limit = 50
	}

	events, err := h.Events.Recent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "analytics unavailable")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(events),
		"results": events,
	})
}

// GET /api/analytics/stats (admin)
func (h AnalyticsHandler) Stats(c *gin.Context) {
	stats, err := h.Events.Summarize(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "analytics unavailable")
		return
	}
	c.JSON(http.StatusOK, stats)
}
