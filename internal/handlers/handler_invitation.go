package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirelens/hirelens_backend/internal/apperrors"
	"github.com/hirelens/hirelens_backend/internal/core/domain"
	portssvc "github.com/hirelens/hirelens_backend/internal/core/ports/services"
	"github.com/hirelens/hirelens_backend/internal/dto"
	"github.com/hirelens/hirelens_backend/internal/middleware"
)

// invitationHandler handles HTTP requests for the invitation lifecycle.
type invitationHandler struct {
	invitationService portssvc.InvitationSvcFacade
	userService       portssvc.UserSvcFacade
}

func newInvitationHandler(invitationService portssvc.InvitationSvcFacade, userService portssvc.UserSvcFacade) *invitationHandler {
	return &invitationHandler{
		invitationService: invitationService,
		userService:       userService,
	}
}

// registerInvitationRoutes registers workspace-scoped invitation management
// routes behind the guard.
func registerInvitationRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newInvitationHandler(services.Invitation, services.User)
	guard := func(req domain.Requirement, action string) gin.HandlerFunc {
		return middleware.RequireAuthz(services.Authz, services.User, req, action, "invitation")
	}

	invitations := rg.Group("/workspaces/:workspace_id/invitations")
	{
		invitations.POST("",
			guard(domain.RequireCapability(domain.CapInviteMembers), "invitation.create"), h.inviteUser)
		invitations.GET("",
			guard(domain.RequireCapability(domain.CapManageInvitations), "invitation.list"), h.listInvitations)
		invitations.DELETE("/:invitation_id",
			guard(domain.RequireCapability(domain.CapManageInvitations), "invitation.cancel"), h.cancelInvitation)
	}
}

// registerInvitationLookupRoute registers the public, unauthenticated token
// lookup used to render the accept page.
func registerInvitationLookupRoute(r *gin.Engine, services *portssvc.ServiceContainer) {
	h := newInvitationHandler(services.Invitation, services.User)
	r.GET("/api/v1/invitations/:token", h.lookupInvitation)
}

// registerInvitationAcceptRoute registers the authenticated accept endpoint.
func registerInvitationAcceptRoute(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newInvitationHandler(services.Invitation, services.User)
	rg.POST("/invitations/:token/accept", h.acceptInvitation)
}

// inviteUser godoc
// @Summary Invite a user to a workspace
// @Description Creates an invitation, or refreshes the open one for the same email in place. Requires canInviteMembers.
// @Tags invitations
// @Accept json
// @Produce json
// @Param workspace_id path string true "Workspace ID"
// @Param invitation body dto.InviteUserRequest true "Invitee email and role"
// @Success 201 {object} dto.InvitationResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Insufficient capability"
// @Failure 409 {object} map[string]string "Already a member"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/invitations [post]
func (h *invitationHandler) inviteUser(c *gin.Context) {
	var req dto.InviteUserRequest
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

	invitation, err := h.invitationService.InviteUser(c.Request.Context(), userID, result.WorkspaceID, req.Email, req.Role)
	if err != nil {
		respondWithError(c, err, "Failed to create invitation")
		return
	}
	c.JSON(http.StatusCreated, dto.ToInvitationResponse(invitation))
}

// listInvitations godoc
// @Summary List open invitations
// @Description Lists unaccepted invitations for the workspace. Requires canManageInvitations.
// @Tags invitations
// @Produce json
// @Param workspace_id path string true "Workspace ID"
// @Success 200 {array} dto.InvitationResponse
// @Failure 403 {object} map[string]string "Insufficient capability"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/invitations [get]
func (h *invitationHandler) listInvitations(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	result, ok := middleware.GetAuthzResultFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Authorization result missing"})
		return
	}

	invitations, err := h.invitationService.ListWorkspaceInvitations(c.Request.Context(), userID, result.WorkspaceID)
	if err != nil {
		respondWithError(c, err, "Failed to list invitations")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvitationResponses(invitations))
}

// cancelInvitation godoc
// @Summary Cancel an invitation
// @Description Deletes an open invitation. Cancelling one that is already gone succeeds. Requires canManageInvitations.
// @Tags invitations
// @Produce json
// @Param workspace_id path string true "Workspace ID"
// @Param invitation_id path string true "Invitation ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Insufficient capability"
// @Security BearerAuth
// @Router /workspaces/{workspace_id}/invitations/{invitation_id} [delete]
func (h *invitationHandler) cancelInvitation(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)
	result, ok := middleware.GetAuthzResultFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Authorization result missing"})
		return
	}

	err := h.invitationService.CancelInvitation(c.Request.Context(), userID, result.WorkspaceID, c.Param("invitation_id"))
	if err != nil {
		respondWithError(c, err, "Failed to cancel invitation")
		return
	}
	c.Status(http.StatusNoContent)
}

// lookupInvitation godoc
// @Summary Look up an invitation
// @Description Returns display detail for an invitation token without consuming it. Public.
// @Tags invitations
// @Produce json
// @Param token path string true "Invitation token"
// @Success 200 {object} dto.InvitationDetailResponse
// @Failure 404 {object} map[string]string "Unknown token"
// @Failure 409 {object} map[string]string "Already accepted"
// @Failure 410 {object} map[string]string "Expired"
// @Router /invitations/{token} [get]
func (h *invitationHandler) lookupInvitation(c *gin.Context) {
	detail, err := h.invitationService.LookupInvitation(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondWithError(c, err, "Failed to look up invitation")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvitationDetailResponse(detail))
}

// acceptInvitation godoc
// @Summary Accept an invitation
// @Description Consumes an open invitation for the authenticated user, creating the membership atomically. The caller's email must match the invitee address.
// @Tags invitations
// @Produce json
// @Param token path string true "Invitation token"
// @Success 200 {object} dto.MembershipResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Email mismatch"
// @Failure 404 {object} map[string]string "Unknown token"
// @Failure 409 {object} map[string]string "Already accepted or already a member"
// @Failure 410 {object} map[string]string "Expired"
// @Security BearerAuth
// @Router /invitations/{token}/accept [post]
func (h *invitationHandler) acceptInvitation(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, apperrors.ErrUnauthenticated, "Failed to load user")
		return
	}

	membership, err := h.invitationService.AcceptInvitation(c.Request.Context(), user, c.Param("token"))
	if err != nil {
		respondWithError(c, err, "Failed to accept invitation")
		return
	}
	c.JSON(http.StatusOK, dto.ToMembershipResponse(membership))
}
