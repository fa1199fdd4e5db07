package repositories

import (
	"context"

	"github.com/hirelens/hirelens_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// MembershipReader defines read operations for membership data
type MembershipReader interface {
	// FindMembership retrieves the membership of a user in a workspace, or
	// apperrors.ErrNotFound when the user is not a member.
	FindMembership(ctx context.Context, userID, workspaceID string) (*domain.Membership, error)

	// ListMembershipsByUserID retrieves every membership a user holds,
	// most recently joined first.
	ListMembershipsByUserID(ctx context.Context, userID string) ([]domain.Membership, error)

	// ListMembershipsByWorkspaceID retrieves all members of a workspace with
	// their user names populated.
	ListMembershipsByWorkspaceID(ctx context.Context, workspaceID string) ([]domain.Membership, error)
}

// MembershipWriter defines write operations for membership data
type MembershipWriter interface {
	// CreateMembership inserts a membership row. Returns
	// apperrors.ErrAlreadyMember when a row for (workspace, user) exists.
	CreateMembership(ctx context.Context, membership domain.Membership) error

	// CreateMembershipTx inserts a membership row within an existing
	// transaction, with the same uniqueness semantics.
	CreateMembershipTx(ctx context.Context, tx pgx.Tx, membership domain.Membership) error

	// UpdateMembershipRole changes the role of an existing membership.
	UpdateMembershipRole(ctx context.Context, userID, workspaceID string, newRole domain.Role) error

	// DeleteMembership removes a membership row outright.
	DeleteMembership(ctx context.Context, userID, workspaceID string) error
}

// MembershipRepositoryFacade combines all membership-related repository interfaces
type MembershipRepositoryFacade interface {
	MembershipReader
	MembershipWriter
}
