package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/travel_ledger/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondError writes the status mapped from err. Server-side failures are
// logged at error level and answered with the generic message; client
// errors echo the error text.
func respondError(c *gin.Context, logger *slog.Logger, err error, genericMessage string) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error(genericMessage, slog.String("error", err.Error()))
		body := gin.H{"error": genericMessage}
		if apperrors.IsRetryable(err) {
			body["retryable"] = true
		}
		c.JSON(status, body)
		return
	}

	logger.Warn(genericMessage, slog.String("error", err.Error()))
	message := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}
	c.JSON(status, gin.H{"error": message})
}
