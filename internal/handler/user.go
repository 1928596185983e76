package handler

import (
	"net/http"

	"github.com/SoJune1023/Dive-Chat-Prototype/internal/account"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	accounts *account.Service
}

func NewAccountHandler(accounts *account.Service) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Register handles POST /register.
func (h *AccountHandler) Register(c *gin.Context) {
	var payload account.RegisterPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeBadPayload(c)
		return
	}

	result, err := h.accounts.Register(c.Request.Context(), &payload)
	if err != nil {
		writeError(c, "", err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// SignIn handles POST /signin.
func (h *AccountHandler) SignIn(c *gin.Context) {
	var payload account.SigninPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeBadPayload(c)
		return
	}

	result, err := h.accounts.SignIn(c.Request.Context(), &payload)
	if err != nil {
		writeError(c, "", err)
		return
	}

	c.JSON(http.StatusOK, result)
}
