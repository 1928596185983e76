package handler

import (
	"net/http"

	"github.com/SoJune1023/Dive-Chat-Prototype/internal/pipeline"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chat *pipeline.ChatPipeline
}

func NewChatHandler(chat *pipeline.ChatPipeline) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// OnSend handles POST /onSend.
func (h *ChatHandler) OnSend(c *gin.Context) {
	var payload pipeline.ChatPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeBadPayload(c)
		return
	}

	result, err := h.chat.Handle(c.Request.Context(), &payload)
	if err != nil {
		writeError(c, payload.User.UserID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation": result.Conversation,
		"image":        result.ImageSelected,
		"summary":      result.Summary,
		"session_id":   result.SessionID,
	})
}
