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
)

// authzService implements the AuthzSvcFacade interface. It composes tenant
// resolution, membership lookup and the role permission table into the single
// guard step run before every protected operation. The service is stateless;
// every call recomputes from current store state.
type authzService struct {
	BaseService
	workspaceRepo  portsrepo.WorkspaceReader
	membershipRepo portsrepo.MembershipReader
	auditRepo      portsrepo.AuditRepository
}

// NewAuthzService creates a new authorization service with the provided dependencies
func NewAuthzService(
	workspaceRepo portsrepo.WorkspaceReader,
	membershipRepo portsrepo.MembershipReader,
	auditRepo portsrepo.AuditRepository,
) portssvc.AuthzSvcFacade {
	return &authzService{
		workspaceRepo:  workspaceRepo,
		membershipRepo: membershipRepo,
		auditRepo:      auditRepo,
	}
}

// Ensure authzService implements the AuthzSvcFacade interface
var _ portssvc.AuthzSvcFacade = (*authzService)(nil)

// ResolveWorkspace determines the effective workspace for a request.
//
// The candidate sources are consulted in a fixed precedence order and the
// first non-empty one is authoritative: an explicit selector that does not
// resolve yields ErrNotFound rather than silently falling back to a weaker
// source, which could route the request to the wrong tenant. Only when no
// explicit selector is present does resolution fall back to the caller's
// default workspace: the workspace the caller owns, if any, else the one
// most recently joined.
func (s *authzService) ResolveWorkspace(ctx context.Context, cand domain.TenantCandidates, userID string) (string, error) {
	type candidateSource struct {
		name    string
		value   string
		resolve func(ctx context.Context, value string) (string, error)
	}

	sources := []candidateSource{
		{"path", cand.PathID, s.resolveWorkspaceID},
		{"body", cand.BodyID, s.resolveWorkspaceID},
		{"query", cand.QueryID, s.resolveWorkspaceID},
		{"header_slug", cand.HeaderSlug, s.resolveWorkspaceSlug},
	}

	for _, src := range sources {
		if src.value == "" {
			continue
		}
		workspaceID, err := src.resolve(ctx, src.value)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				s.LogDebug(ctx, "Workspace candidate did not resolve",
					slog.String("source", src.name),
					slog.String("value", src.value))
			}
			return "", err
		}
		return workspaceID, nil
	}

	return s.defaultWorkspaceID(ctx, userID)
}

func (s *authzService) resolveWorkspaceID(ctx context.Context, workspaceID string) (string, error) {
	workspace, err := s.workspaceRepo.FindWorkspaceByID(ctx, workspaceID)
	if err != nil {
		return "", err
	}
	return workspace.WorkspaceID, nil
}

func (s *authzService) resolveWorkspaceSlug(ctx context.Context, slug string) (string, error) {
	workspace, err := s.workspaceRepo.FindWorkspaceBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	return workspace.WorkspaceID, nil
}

// defaultWorkspaceID computes the caller's default workspace: the workspace
// they hold an OWNER membership in, else the most recently joined one.
func (s *authzService) defaultWorkspaceID(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", apperrors.ErrNotFound
	}

	memberships, err := s.membershipRepo.ListMembershipsByUserID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to list memberships for default workspace: %w", err)
	}
	if len(memberships) == 0 {
		return "", apperrors.ErrNotFound
	}

	for _, m := range memberships {
		if m.Role == domain.RoleOwner {
			return m.WorkspaceID, nil
		}
	}
	// Memberships are ordered most recently joined first.
	return memberships[0].WorkspaceID, nil
}

// AuthorizeMember verifies the caller's membership in a known workspace
// against the requirement and computes the capability set. Membership is
// re-read on every call; roles can change between requests.
func (s *authzService) AuthorizeMember(ctx context.Context, caller *domain.User, workspaceID string, req domain.Requirement) (*domain.AuthzResult, error) {
	if caller == nil {
		return nil, apperrors.ErrUnauthenticated
	}

	membership, err := s.membershipRepo.FindMembership(ctx, caller.UserID, workspaceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if req.AllowPlatformAdmin && caller.IsPlatformAdmin {
				return s.platformAdminResult(ctx, caller, workspaceID), nil
			}
			s.LogDebug(ctx, "User not a member of workspace",
				slog.String("user_id", caller.UserID),
				slog.String("workspace_id", workspaceID))
			return nil, apperrors.ErrNotAMember
		}
		s.LogError(ctx, err, "Failed to find membership",
			slog.String("user_id", caller.UserID),
			slog.String("workspace_id", workspaceID))
		return nil, err
	}

	capabilities := domain.PermissionsFor(membership.Role)

	if req.Capability != "" {
		if !capabilities.Has(req.Capability) {
			if req.AllowPlatformAdmin && caller.IsPlatformAdmin {
				return s.platformAdminResult(ctx, caller, workspaceID), nil
			}
			s.LogDebug(ctx, "User lacks required capability",
				slog.String("user_id", caller.UserID),
				slog.String("workspace_id", workspaceID),
				slog.String("role", string(membership.Role)),
				slog.String("capability", string(req.Capability)))
			return nil, apperrors.NewForbiddenError(string(membership.Role), string(req.Capability))
		}
	} else if len(req.Roles) > 0 {
		if !roleInSet(membership.Role, req.Roles) {
			if req.AllowPlatformAdmin && caller.IsPlatformAdmin {
				return s.platformAdminResult(ctx, caller, workspaceID), nil
			}
			return nil, apperrors.NewForbiddenError(string(membership.Role), describeRoleSet(req.Roles))
		}
	}

	return &domain.AuthzResult{
		WorkspaceID:  workspaceID,
		Role:         membership.Role,
		Capabilities: capabilities,
	}, nil
}

// platformAdminResult grants the cross-workspace override on endpoints that
// opted in. The result carries the full capability set; the override never
// applies to operations that did not set AllowPlatformAdmin.
func (s *authzService) platformAdminResult(ctx context.Context, caller *domain.User, workspaceID string) *domain.AuthzResult {
	s.LogInfo(ctx, "Platform admin override applied",
		slog.String("user_id", caller.UserID),
		slog.String("workspace_id", workspaceID))
	return &domain.AuthzResult{
		WorkspaceID:  workspaceID,
		Role:         domain.RoleOwner,
		Capabilities: domain.PermissionsFor(domain.RoleOwner),
	}
}

// Authorize runs the full guard for a protected request.
func (s *authzService) Authorize(ctx context.Context, caller *domain.User, cand domain.TenantCandidates, req domain.Requirement, action portssvc.AuditAction) (*domain.AuthzResult, error) {
	// Fail closed before touching any store.
	if caller == nil {
		return nil, apperrors.ErrUnauthenticated
	}

	workspaceID, err := s.ResolveWorkspace(ctx, cand, caller.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrTenantRequired
		}
		return nil, err
	}

	result, err := s.AuthorizeMember(ctx, caller, workspaceID, req)
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, caller.UserID, workspaceID, action)
	return result, nil
}

// recordAudit appends one entry for the guarded action. Audit failures are
// logged and never fail the request itself.
func (s *authzService) recordAudit(ctx context.Context, userID, workspaceID string, action portssvc.AuditAction) {
	if s.auditRepo == nil || action.Action == "" {
		return
	}
	entry := domain.AuditEntry{
		AuditID:     uuid.NewString(),
		UserID:      userID,
		WorkspaceID: workspaceID,
		Action:      action.Action,
		Resource:    action.Resource,
		CreatedAt:   time.Now(),
	}
	if action.ResourceID != "" {
		entry.ResourceID = &action.ResourceID
	}
	if err := s.auditRepo.RecordAction(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to record audit entry",
			slog.String("action", action.Action),
			slog.String("workspace_id", workspaceID))
	}
}

func roleInSet(role domain.Role, set []domain.Role) bool {
	for _, r := range set {
		if r == role {
			return true
		}
	}
	return false
}

func describeRoleSet(roles []domain.Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return "role in {" + strings.Join(names, ", ") + "}"
}
