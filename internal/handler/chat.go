package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

// Chat godoc
// @Summary      Ask the market advisor a question
// @Description  Sends a message to the LLM advisor grounded in the latest dashboard snapshot
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        request  body      chatRequest  true  "Chat message"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]string
// @Failure      503      {object}  map[string]string
// @Router       /api/chat [post]
func (h *Handler) Chat(c *gin.Context) {
	if h.advisor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "advisor unavailable"})
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = fmt.Sprintf("anon-%d", time.Now().UnixNano())
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.chat")
	defer span.End()

	reply, err := h.advisor.Ask(ctx, "web:"+sessionID, req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply, "session_id": sessionID})
}
