package handler

import (
	"net/http"

	"github.com/SoJune1023/Dive-Chat-Prototype/internal/pipeline"

	"github.com/gin-gonic/gin"
)

type NoteHandler struct {
	summary *pipeline.SummaryPipeline
}

func NewNoteHandler(summary *pipeline.SummaryPipeline) *NoteHandler {
	return &NoteHandler{summary: summary}
}

// OnSummary handles POST /onSummary.
func (h *NoteHandler) OnSummary(c *gin.Context) {
	var payload pipeline.SummaryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeBadPayload(c)
		return
	}

	result, err := h.summary.Summarize(c.Request.Context(), &payload)
	if err != nil {
		writeError(c, payload.UserID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result.Result})
}

// OnUpload handles POST /onUpload.
func (h *NoteHandler) OnUpload(c *gin.Context) {
	var payload pipeline.UploadPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeBadPayload(c)
		return
	}

	if err := h.summary.UploadNote(c.Request.Context(), &payload); err != nil {
		writeError(c, payload.UserID, err)
		return
	}

	c.Status(http.StatusOK)
}

// OnEnter handles POST /onEnter, the session-entry hook.
func (h *NoteHandler) OnEnter(c *gin.Context) {
	var payload struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeBadPayload(c)
		return
	}

	if err := h.summary.Enter(c.Request.Context(), payload.UserID); err != nil {
		writeError(c, payload.UserID, err)
		return
	}

	c.Status(http.StatusOK)
}
