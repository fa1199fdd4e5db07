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

// slugRetryLimit bounds the attempts to find a free slug variant before the
// create fails with the underlying conflict.
const slugRetryLimit = 3

// workspaceService implements the WorkspaceSvcFacade interface
type workspaceService struct {
	BaseService
	workspaceRepo  portsrepo.WorkspaceRepositoryWithTx
	membershipRepo portsrepo.MembershipRepositoryFacade
}

// NewWorkspaceService creates a new workspace service with the provided dependencies
func NewWorkspaceService(
	workspaceRepo portsrepo.WorkspaceRepositoryWithTx,
	membershipRepo portsrepo.MembershipRepositoryFacade,
) portssvc.WorkspaceSvcFacade {
	return &workspaceService{
		workspaceRepo:  workspaceRepo,
		membershipRepo: membershipRepo,
	}
}

// Ensure workspaceService implements the WorkspaceSvcFacade interface
var _ portssvc.WorkspaceSvcFacade = (*workspaceService)(nil)

// requireCapability loads the requesting user's membership and checks one
// capability against the role permission table. Returns ErrNotAMember for
// non-members and a ForbiddenError naming the held role otherwise.
func (s *workspaceService) requireCapability(ctx context.Context, userID, workspaceID string, cap domain.Capability) (*domain.Membership, error) {
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

// CreateWorkspace persists a new workspace and its owner membership in a
// single transaction, so a workspace can never exist without its owner being
// a member.
func (s *workspaceService) CreateWorkspace(ctx context.Context, name, description, creatorUserID string) (*domain.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationFailedError("workspace name is required")
	}

	now := time.Now()
	workspace := domain.Workspace{
		WorkspaceID: uuid.NewString(),
		Name:        name,
		Slug:        utils.GenerateSlug(name),
		Description: description,
		OwnerUserID: creatorUserID,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	ownerMembership := domain.Membership{
		UserID:      creatorUserID,
		WorkspaceID: workspace.WorkspaceID,
		Role:        domain.RoleOwner,
		JoinedAt:    now,
	}

	// Slugs are globally unique; on a collision retry with a random suffix
	// rather than surfacing the conflict to the user.
	var lastErr error
	for attempt := 0; attempt < slugRetryLimit; attempt++ {
		if attempt > 0 {
			suffix, err := utils.GenerateSecureRandomString(4)
			if err != nil {
				return nil, fmt.Errorf("failed to generate slug suffix: %w", err)
			}
			workspace.Slug = utils.GenerateSlug(name) + "-" + strings.ToLower(suffix)
		}

		lastErr = s.createWorkspaceTx(ctx, workspace, ownerMembership)
		if lastErr == nil {
			s.LogInfo(ctx, "Workspace created",
				slog.String("workspace_id", workspace.WorkspaceID),
				slog.String("slug", workspace.Slug),
				slog.String("owner_user_id", creatorUserID))
			return &workspace, nil
		}
		if !errors.Is(lastErr, apperrors.ErrDuplicate) {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

func (s *workspaceService) createWorkspaceTx(ctx context.Context, workspace domain.Workspace, ownerMembership domain.Membership) error {
	tx, err := s.workspaceRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rbErr := s.workspaceRepo.Rollback(ctx, tx); rbErr != nil {
			s.LogError(ctx, rbErr, "Failed to rollback workspace creation")
		}
	}()

	if err := s.workspaceRepo.SaveWorkspaceTx(ctx, tx, workspace); err != nil {
		return err
	}
	if err := s.membershipRepo.CreateMembershipTx(ctx, tx, ownerMembership); err != nil {
		return err
	}
	return s.workspaceRepo.Commit(ctx, tx)
}

// CreateDefaultWorkspace provisions the personal workspace for a freshly
// registered user.
func (s *workspaceService) CreateDefaultWorkspace(ctx context.Context, user *domain.User) (*domain.Workspace, error) {
	name := "My Workspace"
	if strings.TrimSpace(user.Name) != "" {
		name = fmt.Sprintf("%s's Workspace", strings.TrimSpace(user.Name))
	}
	return s.CreateWorkspace(ctx, name, "", user.UserID)
}

// FindWorkspaceByID retrieves a specific workspace by its ID.
func (s *workspaceService) FindWorkspaceByID(ctx context.Context, workspaceID string) (*domain.Workspace, error) {
	return s.workspaceRepo.FindWorkspaceByID(ctx, workspaceID)
}

// ListUserWorkspaces retrieves the workspaces the user belongs to.
func (s *workspaceService) ListUserWorkspaces(ctx context.Context, userID string) ([]domain.Workspace, error) {
	return s.workspaceRepo.ListWorkspacesByUserID(ctx, userID)
}

// ListWorkspaceMembers retrieves all members of a workspace. Any member may
// view the roster; no capability beyond membership is required.
func (s *workspaceService) ListWorkspaceMembers(ctx context.Context, requestingUserID, workspaceID string) ([]domain.Membership, error) {
	if _, err := s.membershipRepo.FindMembership(ctx, requestingUserID, workspaceID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotAMember
		}
		return nil, err
	}
	return s.membershipRepo.ListMembershipsByWorkspaceID(ctx, workspaceID)
}

// UpdateWorkspaceDetails updates name and description.
func (s *workspaceService) UpdateWorkspaceDetails(ctx context.Context, requestingUserID, workspaceID, name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.NewValidationFailedError("workspace name is required")
	}
	if _, err := s.requireCapability(ctx, requestingUserID, workspaceID, domain.CapEditWorkspace); err != nil {
		return err
	}
	return s.workspaceRepo.UpdateWorkspaceDetails(ctx, workspaceID, name, description, requestingUserID)
}

// ChangeUserRole updates a member's role. Any membership holding OWNER is
// immutable, not just the designated owner's, and only the owner may promote
// someone else to OWNER.
func (s *workspaceService) ChangeUserRole(ctx context.Context, requestingUserID, targetUserID, workspaceID string, newRole domain.Role) error {
	if !newRole.IsValid() {
		return apperrors.NewValidationFailedError(fmt.Sprintf("invalid role: %s", newRole))
	}

	requester, err := s.requireCapability(ctx, requestingUserID, workspaceID, domain.CapChangeRoles)
	if err != nil {
		return err
	}

	workspace, err := s.workspaceRepo.FindWorkspaceByID(ctx, workspaceID)
	if err != nil {
		return err
	}
	if targetUserID == workspace.OwnerUserID {
		return apperrors.ErrOwnerProtected
	}
	if newRole == domain.RoleOwner && requestingUserID != workspace.OwnerUserID {
		return apperrors.NewForbiddenError(string(requester.Role), "only the workspace owner can grant OWNER")
	}

	target, err := s.membershipRepo.FindMembership(ctx, targetUserID, workspaceID)
	if err != nil {
		return err
	}
	if target.Role == domain.RoleOwner {
		return apperrors.ErrOwnerProtected
	}

	if err := s.membershipRepo.UpdateMembershipRole(ctx, targetUserID, workspaceID, newRole); err != nil {
		return err
	}
	s.LogInfo(ctx, "Membership role changed",
		slog.String("workspace_id", workspaceID),
		slog.String("target_user_id", targetUserID),
		slog.String("new_role", string(newRole)),
		slog.String("changed_by", requestingUserID))
	return nil
}

// RemoveUserFromWorkspace removes another member. Self-removal goes through
// LeaveWorkspace instead, and an OWNER-role membership can never be removed.
func (s *workspaceService) RemoveUserFromWorkspace(ctx context.Context, requestingUserID, targetUserID, workspaceID string) error {
	if requestingUserID == targetUserID {
		return apperrors.NewValidationFailedError("cannot remove yourself; leave the workspace instead")
	}

	if _, err := s.requireCapability(ctx, requestingUserID, workspaceID, domain.CapRemoveMembers); err != nil {
		return err
	}

	workspace, err := s.workspaceRepo.FindWorkspaceByID(ctx, workspaceID)
	if err != nil {
		return err
	}
	if targetUserID == workspace.OwnerUserID {
		return apperrors.ErrOwnerProtected
	}

	target, err := s.membershipRepo.FindMembership(ctx, targetUserID, workspaceID)
	if err != nil {
		return err
	}
	if target.Role == domain.RoleOwner {
		return apperrors.ErrOwnerProtected
	}

	if err := s.membershipRepo.DeleteMembership(ctx, targetUserID, workspaceID); err != nil {
		return err
	}
	s.LogInfo(ctx, "Member removed from workspace",
		slog.String("workspace_id", workspaceID),
		slog.String("target_user_id", targetUserID),
		slog.String("removed_by", requestingUserID))
	return nil
}

// LeaveWorkspace removes the caller's own membership. Anyone holding the
// OWNER role must transfer ownership before leaving.
func (s *workspaceService) LeaveWorkspace(ctx context.Context, userID, workspaceID string) error {
	workspace, err := s.workspaceRepo.FindWorkspaceByID(ctx, workspaceID)
	if err != nil {
		return err
	}
	if userID == workspace.OwnerUserID {
		return apperrors.ErrOwnerProtected
	}

	membership, err := s.membershipRepo.FindMembership(ctx, userID, workspaceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotAMember
		}
		return err
	}
	if membership.Role == domain.RoleOwner {
		return apperrors.ErrOwnerProtected
	}

	if err := s.membershipRepo.DeleteMembership(ctx, userID, workspaceID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotAMember
		}
		return err
	}
	s.LogInfo(ctx, "User left workspace",
		slog.String("workspace_id", workspaceID),
		slog.String("user_id", userID))
	return nil
}
