package services

import (
	"context"

	"github.com/hirelens/hirelens_backend/internal/core/domain"
)

// WorkspaceReaderSvc defines read operations for workspace data
type WorkspaceReaderSvc interface {
	// FindWorkspaceByID retrieves a specific workspace by its ID.
	FindWorkspaceByID(ctx context.Context, workspaceID string) (*domain.Workspace, error)

	// ListUserWorkspaces retrieves the workspaces the user belongs to.
	ListUserWorkspaces(ctx context.Context, userID string) ([]domain.Workspace, error)

	// ListWorkspaceMembers retrieves all members and their roles. The
	// requesting user must be a member of the workspace.
	ListWorkspaceMembers(ctx context.Context, requestingUserID, workspaceID string) ([]domain.Membership, error)
}

// WorkspaceWriterSvc defines write operations for workspace data
type WorkspaceWriterSvc interface {
	// CreateWorkspace persists a new workspace and makes the creator its
	// owner, both the designated owner on the row and an OWNER membership.
	CreateWorkspace(ctx context.Context, name, description, creatorUserID string) (*domain.Workspace, error)

	// CreateDefaultWorkspace creates the auto-named personal workspace for a
	// freshly registered user.
	CreateDefaultWorkspace(ctx context.Context, user *domain.User) (*domain.Workspace, error)

	// UpdateWorkspaceDetails updates name/description. Requires canEditWorkspace.
	UpdateWorkspaceDetails(ctx context.Context, requestingUserID, workspaceID, name, description string) error
}

// WorkspaceMembershipSvc defines membership mutations outside the invitation flow.
type WorkspaceMembershipSvc interface {
	// ChangeUserRole updates a member's role. Requires canChangeRoles. The
	// owner's role is immutable, and promotion to OWNER is restricted to the
	// current owner.
	ChangeUserRole(ctx context.Context, requestingUserID, targetUserID, workspaceID string, newRole domain.Role) error

	// RemoveUserFromWorkspace removes another member. Requires
	// canRemoveMembers; removing oneself or the owner is rejected.
	RemoveUserFromWorkspace(ctx context.Context, requestingUserID, targetUserID, workspaceID string) error

	// LeaveWorkspace removes the caller's own membership. Refused for the
	// owner; ownership must be transferred first.
	LeaveWorkspace(ctx context.Context, userID, workspaceID string) error
}

// WorkspaceSvcFacade combines all workspace-related service interfaces
type WorkspaceSvcFacade interface {
	WorkspaceReaderSvc
	WorkspaceWriterSvc
	WorkspaceMembershipSvc
}
