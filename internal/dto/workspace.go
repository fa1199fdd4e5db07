package dto

import (
	"time"

	"github.com/hirelens/hirelens_backend/internal/core/domain"
)

// CreateWorkspaceRequest defines the payload for creating a workspace.
type CreateWorkspaceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateWorkspaceRequest defines the payload for updating workspace details.
type UpdateWorkspaceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// ChangeRoleRequest defines the payload for changing a member's role.
type ChangeRoleRequest struct {
	Role domain.Role `json:"role" binding:"required"`
}

// WorkspaceResponse defines the workspace representation returned by the API.
type WorkspaceResponse struct {
	WorkspaceID string    `json:"workspaceID"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	OwnerUserID string    `json:"ownerUserID"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToWorkspaceResponse maps a domain Workspace to its API representation.
func ToWorkspaceResponse(workspace *domain.Workspace) WorkspaceResponse {
	return WorkspaceResponse{
		WorkspaceID: workspace.WorkspaceID,
		Name:        workspace.Name,
		Slug:        workspace.Slug,
		Description: workspace.Description,
		OwnerUserID: workspace.OwnerUserID,
		IsActive:    workspace.IsActive,
		CreatedAt:   workspace.CreatedAt,
	}
}

// ToWorkspaceResponses maps a slice of domain Workspaces.
func ToWorkspaceResponses(workspaces []domain.Workspace) []WorkspaceResponse {
	responses := make([]WorkspaceResponse, len(workspaces))
	for i := range workspaces {
		responses[i] = ToWorkspaceResponse(&workspaces[i])
	}
	return responses
}

// MembershipResponse defines the membership representation returned by the API.
type MembershipResponse struct {
	UserID      string      `json:"userID"`
	UserName    string      `json:"userName,omitempty"`
	WorkspaceID string      `json:"workspaceID"`
	Role        domain.Role `json:"role"`
	JoinedAt    time.Time   `json:"joinedAt"`
}

// ToMembershipResponse maps a domain Membership to its API representation.
func ToMembershipResponse(membership *domain.Membership) MembershipResponse {
	return MembershipResponse{
		UserID:      membership.UserID,
		UserName:    membership.UserName,
		WorkspaceID: membership.WorkspaceID,
		Role:        membership.Role,
		JoinedAt:    membership.JoinedAt,
	}
}

// ToMembershipResponses maps a slice of domain Memberships.
func ToMembershipResponses(memberships []domain.Membership) []MembershipResponse {
	responses := make([]MembershipResponse, len(memberships))
	for i := range memberships {
		responses[i] = ToMembershipResponse(&memberships[i])
	}
	return responses
}
