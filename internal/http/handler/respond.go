package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/domain"
)

// respondError maps domain errors to HTTP statuses. Unknown email and wrong
// password share one response so accounts cannot be enumerated; unclassified
// failures become a generic 500 with no internals leaked.
func respondError(c *gin.Context, err error) {
	logger := zap.L()
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": validationErr.Error(), "fields": validationErr.Fields})
	case errors.Is(err, domain.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "email_taken", "error_description": "Email already registered."})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials", "error_description": "Invalid email or password."})
	case errors.Is(err, domain.ErrAccountLocked):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account_locked", "error_description": "Account is locked. Contact an administrator."})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "error_description": "Record not found."})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		logger.Warn("store unavailable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store_unavailable", "error_description": "Data store unavailable, retry later."})
	default:
		logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Internal server error."})
	}
}
