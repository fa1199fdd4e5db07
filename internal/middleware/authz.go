package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hirelens/hirelens_backend/internal/apperrors"
	"github.com/hirelens/hirelens_backend/internal/core/domain"
	portssvc "github.com/hirelens/hirelens_backend/internal/core/ports/services"
)

// WorkspaceSlugHeader carries a workspace slug as a tenant selector.
const WorkspaceSlugHeader = "X-Workspace-Slug"

// RequireAuthz creates the guard middleware for a protected operation. It
// resolves the workspace from the request's candidate selectors, verifies the
// caller's membership against the requirement, attaches the resulting
// AuthzResult to the request context and records one audit entry. Every
// invocation recomputes from current store state.
func RequireAuthz(
	authzService portssvc.AuthzSvcFacade,
	userService portssvc.UserSvcFacade,
	req domain.Requirement,
	action, resource string,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		logger := GetLoggerFromCtx(ctx)

		var caller *domain.User
		if userID, ok := GetUserIDFromContext(c); ok {
			user, err := userService.GetUserByID(ctx, userID)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				logger.Error("Failed to load caller for authorization", slog.String("error", err.Error()))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			caller = user // nil when the token's subject no longer exists
		}

		cand := extractTenantCandidates(c)
		auditAction := portssvc.AuditAction{
			Action:     action,
			Resource:   resource,
			ResourceID: c.Param("workspace_id"),
		}

		result, err := authzService.Authorize(ctx, caller, cand, req, auditAction)
		if err != nil {
			abortWithAuthzError(c, err)
			return
		}

		c.Request = c.Request.WithContext(withAuthzResult(ctx, result))
		c.Next()
	}
}

// extractTenantCandidates collects the optional workspace selectors from the
// request, in the precedence order the resolver expects: path, body, query,
// header slug.
func extractTenantCandidates(c *gin.Context) domain.TenantCandidates {
	return domain.TenantCandidates{
		PathID:     c.Param("workspace_id"),
		BodyID:     peekBodyWorkspaceID(c),
		QueryID:    c.Query("workspace_id"),
		HeaderSlug: c.GetHeader(WorkspaceSlugHeader),
	}
}

// peekBodyWorkspaceID reads an optional workspaceID field from a JSON body
// without consuming it; the body is restored for the handler's own binding.
func peekBodyWorkspaceID(c *gin.Context) string {
	if c.Request.Body == nil || !strings.Contains(c.ContentType(), "application/json") {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil || len(body) == 0 {
		return ""
	}
	var probe struct {
		WorkspaceID string `json:"workspaceID"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return ""
	}
	return probe.WorkspaceID
}

// abortWithAuthzError maps guard failure kinds to HTTP responses. Each kind
// is surfaced distinctly; store details never leak to the client.
func abortWithAuthzError(c *gin.Context, err error) {
	logger := GetLoggerFromCtx(c.Request.Context())

	var forbiddenErr *apperrors.ForbiddenError
	switch {
	case errors.Is(err, apperrors.ErrUnauthenticated):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case errors.Is(err, apperrors.ErrTenantRequired):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "A workspace must be specified"})
	case errors.Is(err, apperrors.ErrNotAMember):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have access to this workspace"})
	case errors.As(err, &forbiddenErr):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":    "You do not have access to perform this action",
			"role":     forbiddenErr.Role,
			"required": forbiddenErr.Required,
		})
	case errors.Is(err, apperrors.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have access to perform this action"})
	default:
		logger.Error("Authorization failed with unexpected error", slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
