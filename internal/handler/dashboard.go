package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetDashboard godoc
// @Summary      Full dashboard view
// @Description  Returns the composite score, stance, scored indicators, commentary, and score history
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  service.DashboardView
// @Failure      503  {object}  map[string]string
// @Router       /api/dashboard [get]
func (h *Handler) GetDashboard(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-dashboard")
	defer span.End()

	view, err := h.dashboard.GetDashboard(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetIndicators godoc
// @Summary      Scored indicators
// @Description  Returns every configured indicator scored against the latest snapshot
// @Tags         dashboard
// @Produce      json
// @Success      200  {array}   domain.IndicatorScore
// @Failure      503  {object}  map[string]string
// @Router       /api/indicators [get]
func (h *Handler) GetIndicators(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-indicators")
	defer span.End()

	indicators, err := h.dashboard.GetIndicators(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, indicators)
}

// GetHistory godoc
// @Summary      Snapshot history
// @Description  Returns the persisted daily snapshots for the trailing window
// @Tags         dashboard
// @Produce      json
// @Param        days  query     int  false  "Trailing window in days"  default(90)
// @Success      200   {array}   domain.MarketHistoryRecord
// @Failure      400   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/history [get]
func (h *Handler) GetHistory(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-history")
	defer span.End()

	days := 90
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = parsed
	}

	records, err := h.dashboard.GetHistory(ctx, days)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}
