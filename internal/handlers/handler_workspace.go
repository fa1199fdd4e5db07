package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirelens/hirelens_backend/internal/core/domain"
	portssvc "github.com/hirelens/hirelens_backend/internal/core/ports/services"
	"github.com/hirelens/hirelens_backend/internal/dto"
	"github.com/hirelens/hirelens_backend/internal/middleware"
)

// workspaceHandler handles HTTP requests related to workspaces and their members.
type workspaceHandler struct {
	workspaceService portssvc.WorkspaceSvcFacade
}

func newWorkspaceHandler(workspaceService portssvc.WorkspaceSvcFacade) *workspaceHandler {
	return &workspaceHandler{workspaceService: workspaceService}
}

// registerWorkspaceRoutes registers workspace and membership routes. Routes
// under /workspaces/:workspace_id run the authorization guard, which resolves
// the workspace, verifies membership, checks the route's capability and
// records an audit entry.
func registerWorkspaceRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newWorkspaceHandler(services.Workspace)
	guard := func(req domain.Requirement, action string) gin.HandlerFunc {
		return middleware.RequireAuthz(services.Authz, services.User, req, action, "workspace")
	}

	workspaces := rg.Group("/workspaces")
	{
		workspaces.POST("", h.createWorkspace)
		workspaces.GET("", h.listUserWorkspaces)

		// Resolves the effective workspace from header slug, query or the
		// caller's default when no explicit selector is present.
		workspaces.GET("/current",
			guard(domain.Requirement{}, "workspace.resolve"), h.getCurrentWorkspace)
	}

	workspace := rg.Group("/workspaces/:workspace_id")
	{
		workspace.GET("",
			guard(domain.Requirement{}, "workspace.view"), h.getWorkspace)
		workspace.PUT("",
			guard(domain.RequireCapability(domain.CapEditWorkspace), "workspace.update"), h.updateWorkspace)

		workspace.GET("/members",
			guard(domain.Requirement{}, "workspace.members.list"), h.listMembers)
		workspace.PUT("/members/:user_id/role",
			guard(domain.RequireCapability(domain.CapChangeRoles), "workspace.members.change_role"), h.changeMemberRole)
		workspace.DELETE("/members/:user_id",
			guard(domain.RequireCapability(domain.CapRemoveMembers), "workspace.members.remove"), h.removeMember)

		workspace.POST("/leave",
			guard(domain.Requirement{}, "workspace.leave"), h.leaveWorkspace)
	}
}

// createWorkspace godoc
// @Summary Create a workspace
// @Description Creates a workspace and makes the caller its owner.
// @Tags workspaces
// @Accept json
// @Produce json
// @Param workspace body dto.CreateWorkspaceRequest true "Workspace details"
// @Success 201 {object} dto.WorkspaceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /workspaces [post]
func (h *workspaceHandler) createWorkspace(c *gin.Context) {
	var req dto.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	workspace, err := h.workspaceService.CreateWorkspace(c.Request.Context(), req.Name, req.Description, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create workspace")
		return
	}
	c.JSON(http.StatusCreated, dto.ToWorkspaceResponse(workspace))
}

// listUserWorkspaces godoc
// @Summary List my workspaces
// @Description Lists the workspaces the authenticated user belongs to, most recently joined first.
// @Tags workspaces
// @Produce json
// @Success 200 {array} dto.WorkspaceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /workspaces [get]
func (h *workspaceHandler) listUserWorkspaces(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	workspaces, err := h.workspaceService.ListUserWorkspaces(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err, "Failed to list workspaces")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkspaceResponses(workspaces))
}

// getCurrentWorkspace godoc
// @Summary Get the effective workspace
// @Description Returns the workspace resolved for this request along with the caller's role and capabilities.
// @Tags workspaces
// @Produce json
// @Param X-Workspace-Slug header string false "Workspace slug selector"
// @Param workspace_id query string false "Workspace ID selector"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string "No workspace could be resolved"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not a member"
// @Security BearerAuth
// @Router /workspaces/current [get]
func (h *workspaceHandler) getCurrentWorkspace(c *gin.Context) {
	result, ok := middleware.GetAuthzResultFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Authorization result missing"})
		return
	}

	workspace, err := h.workspaceService.FindWorkspaceByID(c.Request.Context(), result.WorkspaceID)
	if err != nil {
		respondWithError(c, err, "Failed to load workspace")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workspace":    dto.ToWorkspaceResponse(workspace),
		"role":         result.Role,
		"capabilities": result.Capabilities,
	})
}

// getWorkspace godoc
// @Summary Get a workspace
// @Description Returns workspace details. The caller must be a member.
// @Tags workspaces
// @Produce json
// @Param workspace_id path string true "Workspace ID"
// @Success 200 {object} dto.WorkspaceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not a member"
// @Failure 404 {object} map[string]string "Workspace not found"
// @Security BearerAuth
// @Router /workspaces/{workspace_id} [get]
func (h *workspaceHandler) getWorkspace(c *gin.Context) {
	result, ok := middleware.GetAuthzResultFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Authorization result missing"})
		return
	}

	workspace, err := h.workspaceService.FindWorkspaceByID(c.Request.Context(), result.WorkspaceID)
	if err != nil {
		respondWithError(c, err, "Failed to load workspace")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkspaceResponse(workspace))
}

// updateWorkspace godoc
// @Summary Update workspace details
// @Description Updates name and description. Requires the canEditWorkspace capability.
// @Tags workspaces
// @Accept json
// @Produce json
// @Param workspace_id path string true "Workspace ID"
// @Param workspace body dto.UpdateWorkspaceRequest true "New details"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Insufficient capability"
// @Security BearerAuth
// @Router /workspaces/{workspace_id} [put]
func (h *workspaceHandler) updateWorkspace(c *gin.Context) {
	var req dto.UpdateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	result, ok := middleware.GetAuthzResultFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Authorization result missing"})
		return
	}

	if err := h.workspaceService.UpdateWorkspaceDetails(c.Request.Context(), userID, result.WorkspaceID, req.Name, req.Description); err != nil {
		respondWithError(c, err, "Failed to update workspace")
		return
	}
	c.Status(http.StatusNoContent)
}

// listMembers godoc
// @Summary List workspace members
// @Description Lists all members and their roles. The caller must be a member.
// @Tags workspaces
// @Produce json
// @Param workspace_id path string true "Workspace ID"
// @Success 200 {array} dto.MembershipResponse
// @Failure 403 {object} map[string]string "Not a member"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/members [get]
func (h *workspaceHandler) listMembers(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	result, ok := middleware.GetAuthzResultFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Authorization result missing"})
		return
	}

	members, err := h.workspaceService.ListWorkspaceMembers(c.Request.Context(), userID, result.WorkspaceID)
	if err != nil {
		respondWithError(c, err, "Failed to list members")
		return
	}
	c.JSON(http.StatusOK, dto.ToMembershipResponses(members))
}

// changeMemberRole godoc
// @Summary Change a member's role
// @Description Updates a member's role. Requires canChangeRoles; the owner's role is immutable and only the owner can grant OWNER.
// @Tags workspaces
// @Accept json
// @Produce json
// @Param workspace_id path string true "Workspace ID"
// @Param user_id path string true "Target user ID"
// @Param role body dto.ChangeRoleRequest true "New role"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid role"
// @Failure 403 {object} map[string]string "Insufficient capability"
// @Failure 404 {object} map[string]string "Membership not found"
// @Failure 409 {object} map[string]string "Owner role is protected"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/members/{user_id}/role [put]
func (h *workspaceHandler) changeMemberRole(c *gin.Context) {
	var req dto.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	result, ok := middleware.GetAuthzResultFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Authorization result missing"})
		return
	}

	err := h.workspaceService.ChangeUserRole(c.Request.Context(), userID, c.Param("user_id"), result.WorkspaceID, req.Role)
	if err != nil {
		respondWithError(c, err, "Failed to change member role")
		return
	}
	c.Status(http.StatusNoContent)
}

// removeMember godoc
// @Summary Remove a member
// @Description Removes another member from the workspace. Requires canRemoveMembers; the owner cannot be removed.
// @Tags workspaces
// @Produce json
// @Param workspace_id path string true "Workspace ID"
// @Param user_id path string true "Target user ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Cannot remove yourself"
// @Failure 403 {object} map[string]string "Insufficient capability"
// @Failure 404 {object} map[string]string "Membership not found"
// @Failure 409 {object} map[string]string "Owner is protected"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/members/{user_id} [delete]
func (h *workspaceHandler) removeMember(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	result, ok := middleware.GetAuthzResultFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Authorization result missing"})
		return
	}

	err := h.workspaceService.RemoveUserFromWorkspace(c.Request.Context(), userID, c.Param("user_id"), result.WorkspaceID)
	if err != nil {
		respondWithError(c, err, "Failed to remove member")
		return
	}
	c.Status(http.StatusNoContent)
}

// leaveWorkspace godoc
// @Summary Leave a workspace
// @Description Removes the caller's own membership. The owner must transfer ownership first.
// @Tags workspaces
// @Produce json
// @Param workspace_id path string true "Workspace ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Not a member"
// @Failure 409 {object} map[string]string "Owner cannot leave"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/leave [post]
func (h *workspaceHandler) leaveWorkspace(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	result, ok := middleware.GetAuthzResultFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Authorization result missing"})
		return
	}

	if err := h.workspaceService.LeaveWorkspace(c.Request.Context(), userID, result.WorkspaceID); err != nil {
		respondWithError(c, err, "Failed to leave workspace")
		return
	}
	c.Status(http.StatusNoContent)
}
