package services

import (
	"context"

	"github.com/hirelens/hirelens_backend/internal/core/domain"
)

// InvitationSvcFacade manages the lifecycle of workspace invitations.
type InvitationSvcFacade interface {
	// InviteUser creates a new invitation or refreshes the open one for
	// (workspace, email) in place, keeping its token. Requires
	// canInviteMembers. The notification email is dispatched best-effort.
	InviteUser(ctx context.Context, inviterUserID, workspaceID, email string, role domain.Role) (*domain.Invitation, error)

	// LookupInvitation returns display detail for an invitation token without
	// consuming it. Fails with ErrAlreadyAccepted or ErrInvitationExpired.
	LookupInvitation(ctx context.Context, token string) (*domain.InvitationDetail, error)

	// AcceptInvitation consumes an open invitation for the authenticated
	// user, inserting the membership and marking acceptance in one
	// transaction. Failure kinds: ErrEmailMismatch, ErrInvitationExpired,
	// ErrAlreadyAccepted, ErrAlreadyMember.
	AcceptInvitation(ctx context.Context, user *domain.User, token string) (*domain.Membership, error)

	// CancelInvitation deletes an open invitation outright. Requires
	// canManageInvitations. No-op-safe if the invitation is already gone.
	CancelInvitation(ctx context.Context, requestingUserID, workspaceID, invitationID string) error

	// ListWorkspaceInvitations lists unaccepted invitations for a workspace.
	// Requires canManageInvitations.
	ListWorkspaceInvitations(ctx context.Context, requestingUserID, workspaceID string) ([]domain.Invitation, error)
}

// InvitationNotifierSvc dispatches the invitation email. Delivery is
// fire-and-forget; failures never roll back the invitation write.
type InvitationNotifierSvc interface {
	SendInvitationEmail(ctx context.Context, email, inviterName, workspaceName, inviteURL string) error
}
