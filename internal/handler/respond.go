package handler

import (
	"log/slog"
	"net/http"

	"github.com/SoJune1023/Dive-Chat-Prototype/internal/domain"

	"github.com/gin-gonic/gin"
)

// writeError converts the two propagating error kinds into a response body.
// This is the only place a pipeline error crosses into HTTP: client errors
// map to their carried status without error-severity logging, app errors are
// logged with full context and mapped to a generic body, and anything else
// becomes a 500 so no error ever escapes unconverted.
func writeError(c *gin.Context, userID string, err error) {
	if ce, ok := domain.AsClientError(err); ok {
		body := gin.H{"error": ce.Message, "code": ce.Code}
		if ce.Details != nil {
			body["details"] = ce.Details
		}
		c.JSON(ce.HTTPStatus, body)
		return
	}

	if ae, ok := domain.AsAppError(err); ok {
		slog.Error(ae.Message, "user_id", userID, "code", ae.Code, "error", ae.Unwrap())
		body := gin.H{"error": ae.Message, "code": ae.Code}
		if ae.Details != nil {
			body["details"] = ae.Details
		}
		c.JSON(ae.HTTPStatus, body)
		return
	}

	slog.Error("unexpected error", "user_id", userID, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Unexpected error", "code": domain.CodeUnknown})
}

func writeBadPayload(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Wrong payload", "code": domain.CodeWrongPayload})
}
