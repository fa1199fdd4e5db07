package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hirelens/hirelens_backend/internal/apperrors"
	"github.com/hirelens/hirelens_backend/internal/core/domain"
	portsrepo "github.com/hirelens/hirelens_backend/internal/core/ports/repositories"
	portssvc "github.com/hirelens/hirelens_backend/internal/core/ports/services"
	"github.com/hirelens/hirelens_backend/internal/utils"
)

// invitationTokenBytes sizes the opaque invitation token (hex-encoded to
// twice this length).
const invitationTokenBytes = 32

// invitationService implements the InvitationSvcFacade interface
type invitationService struct {
	BaseService
	invitationRepo  portsrepo.InvitationRepositoryWithTx
	membershipRepo  portsrepo.MembershipRepositoryFacade
	workspaceRepo   portsrepo.WorkspaceReader
	userRepo        portsrepo.UserRepository
	notifier        portssvc.InvitationNotifierSvc
	frontendBaseURL string
}

// NewInvitationService creates a new invitation service with the provided dependencies
func NewInvitationService(
	invitationRepo portsrepo.InvitationRepositoryWithTx,
	membershipRepo portsrepo.MembershipRepositoryFacade,
	workspaceRepo portsrepo.WorkspaceReader,
	userRepo portsrepo.UserRepository,
	notifier portssvc.InvitationNotifierSvc,
	frontendBaseURL string,
) portssvc.InvitationSvcFacade {
	return &invitationService{
		invitationRepo:  invitationRepo,
		membershipRepo:  membershipRepo,
		workspaceRepo:   workspaceRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		frontendBaseURL: frontendBaseURL,
	}
}

// Ensure invitationService implements the InvitationSvcFacade interface
var _ portssvc.InvitationSvcFacade = (*invitationService)(nil)

func (s *invitationService) requireCapability(ctx context.Context, userID, workspaceID string, cap domain.Capability) (*domain.Membership, error) {
	membership, err := s.membershipRepo.FindMembership(ctx, userID, workspaceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotAMember
		}
		return nil, err
	}
	if !domain.PermissionsFor(membership.Role).Has(cap) {
		return nil, apperrors.NewForbiddenError(string(membership.Role), string(cap))
	}
	return membership, nil
}

// InviteUser creates an invitation for (workspace, email), or refreshes the
// open one in place. Refreshing keeps the original token so a link already
// sitting in the invitee's inbox stays valid with the new role and expiry.
// An unaccepted row that has already expired is superseded instead: its token
// died with the expiry and must not be revived, so the row is replaced with a
// freshly tokened invitation.
func (s *invitationService) InviteUser(ctx context.Context, inviterUserID, workspaceID, email string, role domain.Role) (*domain.Invitation, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationFailedError("a valid invitee email is required")
	}
	if !role.IsValid() {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("invalid role: %s", role))
	}
	if role == domain.RoleOwner {
		return nil, apperrors.NewValidationFailedError("cannot invite a user as OWNER")
	}

	if _, err := s.requireCapability(ctx, inviterUserID, workspaceID, domain.CapInviteMembers); err != nil {
		return nil, err
	}

	// If the email already belongs to a member there is nothing to invite.
	if invitee, err := s.userRepo.FindUserByEmail(ctx, email); err == nil {
		if _, err := s.membershipRepo.FindMembership(ctx, invitee.UserID, workspaceID); err == nil {
			return nil, apperrors.ErrAlreadyMember
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	expiresAt := now.Add(domain.DefaultInvitationValidity)

	existing, err := s.invitationRepo.FindOpenInvitation(ctx, workspaceID, email)
	switch {
	case err == nil && !existing.IsExpired(now):
		if err := s.invitationRepo.RefreshInvitation(ctx, existing.InvitationID, role, expiresAt, inviterUserID); err != nil {
			return nil, err
		}
		existing.Role = role
		existing.ExpiresAt = expiresAt
		existing.LastUpdatedAt = now
		existing.LastUpdatedBy = inviterUserID
		s.LogInfo(ctx, "Invitation refreshed",
			slog.String("invitation_id", existing.InvitationID),
			slog.String("workspace_id", workspaceID))
		s.dispatchInvitationEmail(ctx, existing, inviterUserID)
		return existing, nil
	case err == nil:
		// Expired; clear the dead row so the fresh insert below is valid.
		if err := s.invitationRepo.DeleteInvitation(ctx, existing.InvitationID); err != nil {
			return nil, err
		}
		s.LogInfo(ctx, "Expired invitation superseded",
			slog.String("invitation_id", existing.InvitationID),
			slog.String("workspace_id", workspaceID))
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	token, err := utils.GenerateSecureRandomString(invitationTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation token: %w", err)
	}

	invitation := domain.Invitation{
		InvitationID:  uuid.NewString(),
		WorkspaceID:   workspaceID,
		Email:         email,
		Role:          role,
		Token:         token,
		InviterUserID: inviterUserID,
		ExpiresAt:     expiresAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     inviterUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: inviterUserID,
		},
	}
	if err := s.invitationRepo.SaveInvitation(ctx, invitation); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Invitation created",
		slog.String("invitation_id", invitation.InvitationID),
		slog.String("workspace_id", workspaceID))

	s.dispatchInvitationEmail(ctx, &invitation, inviterUserID)
	return &invitation, nil
}

// dispatchInvitationEmail sends the notification in the background. Delivery
// failure is logged and never affects the invitation write.
func (s *invitationService) dispatchInvitationEmail(ctx context.Context, invitation *domain.Invitation, inviterUserID string) {
	if s.notifier == nil {
		return
	}

	inviterName := ""
	if inviter, err := s.userRepo.FindUserByID(ctx, inviterUserID); err == nil {
		inviterName = inviter.Name
	}
	workspaceName := ""
	if workspace, err := s.workspaceRepo.FindWorkspaceByID(ctx, invitation.WorkspaceID); err == nil {
		workspaceName = workspace.Name
	}
	inviteURL := fmt.Sprintf("%s/invitations/%s", strings.TrimRight(s.frontendBaseURL, "/"), invitation.Token)

	bgCtx := context.WithoutCancel(ctx)
	email := invitation.Email
	go func() {
		if err := s.notifier.SendInvitationEmail(bgCtx, email, inviterName, workspaceName, inviteURL); err != nil {
			s.LogError(bgCtx, err, "Failed to send invitation email",
				slog.String("invitation_id", invitation.InvitationID))
		}
	}()
}

// LookupInvitation returns display detail for a token without consuming it.
func (s *invitationService) LookupInvitation(ctx context.Context, token string) (*domain.InvitationDetail, error) {
	invitation, err := s.invitationRepo.FindInvitationByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if invitation.IsAccepted() {
		return nil, apperrors.ErrAlreadyAccepted
	}
	if invitation.IsExpired(time.Now()) {
		return nil, apperrors.ErrInvitationExpired
	}

	detail := &domain.InvitationDetail{Invitation: *invitation}
	if workspace, err := s.workspaceRepo.FindWorkspaceByID(ctx, invitation.WorkspaceID); err == nil {
		detail.WorkspaceName = workspace.Name
		detail.WorkspaceSlug = workspace.Slug
	}
	if inviter, err := s.userRepo.FindUserByID(ctx, invitation.InviterUserID); err == nil {
		detail.InviterName = inviter.Name
	}
	return detail, nil
}

// AcceptInvitation consumes an open invitation for the authenticated user.
// The membership insert and the acceptance mark happen in one transaction, so
// two concurrent accepts of the same token admit exactly one membership.
func (s *invitationService) AcceptInvitation(ctx context.Context, user *domain.User, token string) (*domain.Membership, error) {
	if user == nil {
		return nil, apperrors.ErrUnauthenticated
	}

	invitation, err := s.invitationRepo.FindInvitationByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	switch {
	case invitation.IsAccepted():
		return nil, apperrors.ErrAlreadyAccepted
	case invitation.IsExpired(now):
		return nil, apperrors.ErrInvitationExpired
	case invitation.Email != user.Email:
		// Exact match; the invitation is addressed to one mailbox.
		return nil, apperrors.ErrEmailMismatch
	}

	if _, err := s.membershipRepo.FindMembership(ctx, user.UserID, invitation.WorkspaceID); err == nil {
		return nil, apperrors.ErrAlreadyMember
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	membership := domain.Membership{
		UserID:      user.UserID,
		UserName:    user.Name,
		WorkspaceID: invitation.WorkspaceID,
		Role:        invitation.Role,
		JoinedAt:    now,
	}

	tx, err := s.invitationRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rbErr := s.invitationRepo.Rollback(ctx, tx); rbErr != nil {
			s.LogError(ctx, rbErr, "Failed to rollback invitation acceptance")
		}
	}()

	if err := s.membershipRepo.CreateMembershipTx(ctx, tx, membership); err != nil {
		return nil, err
	}
	if err := s.invitationRepo.MarkInvitationAcceptedTx(ctx, tx, invitation.InvitationID, now); err != nil {
		return nil, err
	}
	if err := s.invitationRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Invitation accepted",
		slog.String("invitation_id", invitation.InvitationID),
		slog.String("workspace_id", invitation.WorkspaceID),
		slog.String("user_id", user.UserID))
	return &membership, nil
}

// CancelInvitation deletes an open invitation outright. Cancelling an
// invitation that is already gone succeeds silently.
func (s *invitationService) CancelInvitation(ctx context.Context, requestingUserID, workspaceID, invitationID string) error {
	if _, err := s.requireCapability(ctx, requestingUserID, workspaceID, domain.CapManageInvitations); err != nil {
		return err
	}

	// Scope the delete to the authorized workspace.
	invitations, err := s.invitationRepo.ListInvitationsByWorkspaceID(ctx, workspaceID)
	if err != nil {
		return err
	}
	for _, inv := range invitations {
		if inv.InvitationID == invitationID {
			if err := s.invitationRepo.DeleteInvitation(ctx, invitationID); err != nil {
				return err
			}
			s.LogInfo(ctx, "Invitation cancelled",
				slog.String("invitation_id", invitationID),
				slog.String("workspace_id", workspaceID))
			return nil
		}
	}
	return nil
}

// ListWorkspaceInvitations lists unaccepted invitations for a workspace.
func (s *invitationService) ListWorkspaceInvitations(ctx context.Context, requestingUserID, workspaceID string) ([]domain.Invitation, error) {
	if _, err := s.requireCapability(ctx, requestingUserID, workspaceID, domain.CapManageInvitations); err != nil {
		return nil, err
	}
	return s.invitationRepo.ListInvitationsByWorkspaceID(ctx, workspaceID)
}
