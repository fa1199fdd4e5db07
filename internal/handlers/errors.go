package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirelens/hirelens_backend/internal/apperrors"
	"github.com/hirelens/hirelens_backend/internal/middleware"
)

// respondWithError maps a service error to an HTTP response. Distinct failure
// kinds keep distinct statuses and messages; anything unexpected becomes a 500
// with the detail logged server-side only.
func respondWithError(c *gin.Context, err error, fallbackMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var appErr *apperrors.AppError
	var forbiddenErr *apperrors.ForbiddenError

	switch {
	case errors.Is(err, apperrors.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case errors.Is(err, apperrors.ErrTenantRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "A workspace must be specified"})
	case errors.Is(err, apperrors.ErrNotAMember):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this workspace"})
	case errors.As(err, &forbiddenErr):
		c.JSON(http.StatusForbidden, gin.H{
			"error":    "You do not have access to perform this action",
			"role":     forbiddenErr.Role,
			"required": forbiddenErr.Required,
		})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to perform this action"})
	case errors.Is(err, apperrors.ErrOwnerProtected):
		c.JSON(http.StatusBadRequest, gin.H{"error": "This action is not permitted on the workspace owner"})
	case errors.Is(err, apperrors.ErrAlreadyAccepted):
		c.JSON(http.StatusConflict, gin.H{"error": "This invitation has already been accepted"})
	case errors.Is(err, apperrors.ErrInvitationExpired):
		c.JSON(http.StatusGone, gin.H{"error": "This invitation has expired"})
	case errors.Is(err, apperrors.ErrAlreadyMember):
		c.JSON(http.StatusConflict, gin.H{"error": "Already a member of this workspace"})
	case errors.Is(err, apperrors.ErrEmailMismatch):
		c.JSON(http.StatusForbidden, gin.H{"error": "This invitation was sent to a different email address"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, apperrors.ErrDuplicate):
		msg := "Resource already exists"
		if errors.As(err, &appErr) {
			msg = appErr.Message
		}
		c.JSON(http.StatusConflict, gin.H{"error": msg})
	case errors.Is(err, apperrors.ErrValidation):
		msg := "Invalid input"
		if errors.As(err, &appErr) {
			msg = appErr.Message
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
	default:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
	}
}
