package services

import (
	"context"

	"github.com/hirelens/hirelens_backend/internal/core/domain"
)

// TenantResolverSvc determines the effective workspace for a request.
type TenantResolverSvc interface {
	// ResolveWorkspace returns the id of the first candidate that resolves to
	// an existing workspace, falling back to the caller's default workspace
	// (owned workspace first, else most recently joined). Returns
	// apperrors.ErrNotFound when no candidate resolves. Performs no writes
	// and no permission checks.
	ResolveWorkspace(ctx context.Context, cand domain.TenantCandidates, userID string) (string, error)
}

// AuthorizerSvc performs membership and capability checks for a known workspace.
type AuthorizerSvc interface {
	// AuthorizeMember verifies the caller's membership in workspaceID against
	// the requirement and returns the computed result. Fails with
	// apperrors.ErrNotAMember or a ForbiddenError carrying the held role and
	// required capability. Membership is re-read on every call.
	AuthorizeMember(ctx context.Context, caller *domain.User, workspaceID string, req domain.Requirement) (*domain.AuthzResult, error)
}

// AuthzSvcFacade is the composed guard invoked per protected operation.
type AuthzSvcFacade interface {
	TenantResolverSvc
	AuthorizerSvc

	// Authorize runs the full guard: authentication presence, tenant
	// resolution, membership lookup, capability check. On success it emits
	// one audit entry describing the action and returns the result for the
	// transport layer to attach to the request context. Failure kinds:
	// ErrUnauthenticated, ErrTenantRequired, ErrNotAMember, ForbiddenError.
	Authorize(ctx context.Context, caller *domain.User, cand domain.TenantCandidates, req domain.Requirement, action AuditAction) (*domain.AuthzResult, error)
}

// AuditAction names the guarded operation for the audit trail.
type AuditAction struct {
	Action     string
	Resource   string
	ResourceID string // optional
}
