package dto

import (
	"time"

	"github.com/hirelens/hirelens_backend/internal/core/domain"
)

// InviteUserRequest defines the payload for inviting a user to a workspace.
type InviteUserRequest struct {
	Email string      `json:"email" binding:"required,email"`
	Role  domain.Role `json:"role" binding:"required"`
}

// InvitationResponse defines the invitation representation returned to
// workspace managers. The token itself is never listed.
type InvitationResponse struct {
	InvitationID  string      `json:"invitationID"`
	WorkspaceID   string      `json:"workspaceID"`
	Email         string      `json:"email"`
	Role          domain.Role `json:"role"`
	InviterUserID string      `json:"inviterUserID"`
	ExpiresAt     time.Time   `json:"expiresAt"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// ToInvitationResponse maps a domain Invitation to its API representation.
func ToInvitationResponse(invitation *domain.Invitation) InvitationResponse {
	return InvitationResponse{
		InvitationID:  invitation.InvitationID,
		WorkspaceID:   invitation.WorkspaceID,
		Email:         invitation.Email,
		Role:          invitation.Role,
		InviterUserID: invitation.InviterUserID,
		ExpiresAt:     invitation.ExpiresAt,
		CreatedAt:     invitation.CreatedAt,
	}
}

// ToInvitationResponses maps a slice of domain Invitations.
func ToInvitationResponses(invitations []domain.Invitation) []InvitationResponse {
	responses := make([]InvitationResponse, len(invitations))
	for i := range invitations {
		responses[i] = ToInvitationResponse(&invitations[i])
	}
	return responses
}

// InvitationDetailResponse is the unauthenticated display view returned by
// token lookup, for rendering the accept page.
type InvitationDetailResponse struct {
	WorkspaceName string      `json:"workspaceName"`
	WorkspaceSlug string      `json:"workspaceSlug"`
	InviterName   string      `json:"inviterName"`
	Email         string      `json:"email"`
	Role          domain.Role `json:"role"`
	ExpiresAt     time.Time   `json:"expiresAt"`
}

// ToInvitationDetailResponse maps a domain InvitationDetail.
func ToInvitationDetailResponse(detail *domain.InvitationDetail) InvitationDetailResponse {
	return InvitationDetailResponse{
		WorkspaceName: detail.WorkspaceName,
		WorkspaceSlug: detail.WorkspaceSlug,
		InviterName:   detail.InviterName,
		Email:         detail.Invitation.Email,
		Role:          detail.Invitation.Role,
		ExpiresAt:     detail.Invitation.ExpiresAt,
	}
}
