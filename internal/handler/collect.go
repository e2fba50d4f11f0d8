package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TriggerCollectRun godoc
// @Summary      Trigger a collection cycle manually
// @Description  Runs one best-effort collection cycle and returns the snapshot summary
// @Tags         collect
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/collect/run [post]
func (h *Handler) TriggerCollectRun(c *gin.Context) {
	if h.collector == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "collector unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.trigger-collect-run")
	defer span.End()

	result, err := h.collector.Run(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":           "ok",
		"date":             result.Date.Format("2006-01-02"),
		"fields_collected": result.FieldsCollected,
		"composite_score":  result.CompositeScore,
		"errors":           result.Errors,
	})
}
