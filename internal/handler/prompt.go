package handler

import (
	"net/http"
	"strconv"

	"github.com/SoJune1023/Dive-Chat-Prototype/internal/store"

	"github.com/gin-gonic/gin"
)

type PromptHandler struct {
	prompts *store.PromptRepository
}

func NewPromptHandler(prompts *store.PromptRepository) *PromptHandler {
	return &PromptHandler{prompts: prompts}
}

// Upload handles POST /promptUpload. New prompts start unapproved.
func (h *PromptHandler) Upload(c *gin.Context) {
	var payload struct {
		Key    string `json:"key" binding:"required"`
		Prompt string `json:"prompt" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeBadPayload(c)
		return
	}

	row, err := h.prompts.UploadPrompt(c.Request.Context(), payload.Key, payload.Prompt)
	if err != nil {
		writeError(c, "", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": row.ID, "key": row.Key})
}

// Approve handles POST /promptApprove/:id.
func (h *PromptHandler) Approve(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		writeBadPayload(c)
		return
	}

	if err := h.prompts.ApprovePrompt(c.Request.Context(), uint(id)); err != nil {
		writeError(c, "", err)
		return
	}

	c.Status(http.StatusOK)
}
