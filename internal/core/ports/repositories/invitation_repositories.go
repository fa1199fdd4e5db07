package repositories

import (
	"context"
	"time"

	"github.com/hirelens/hirelens_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// InvitationReader defines read operations for invitation data
type InvitationReader interface {
	// FindInvitationByToken retrieves an invitation by its opaque token.
	FindInvitationByToken(ctx context.Context, token string) (*domain.Invitation, error)

	// FindOpenInvitation retrieves the single unaccepted invitation for
	// (workspace, email), or apperrors.ErrNotFound. The row is returned even
	// past its expiry so callers can supersede it.
	FindOpenInvitation(ctx context.Context, workspaceID, email string) (*domain.Invitation, error)

	// ListInvitationsByWorkspaceID retrieves all unaccepted invitations for a
	// workspace, newest first.
	ListInvitationsByWorkspaceID(ctx context.Context, workspaceID string) ([]domain.Invitation, error)
}

// InvitationWriter defines write operations for invitation data
type InvitationWriter interface {
	// SaveInvitation inserts a new invitation row.
	SaveInvitation(ctx context.Context, invitation domain.Invitation) error

	// RefreshInvitation updates role and expiry of an open invitation in
	// place, keeping its token.
	RefreshInvitation(ctx context.Context, invitationID string, role domain.Role, expiresAt time.Time, updatedByUserID string) error

	// MarkInvitationAcceptedTx sets accepted_at within an existing
	// transaction, only if it is still null. Returns
	// apperrors.ErrAlreadyAccepted when the conditional update matches no row.
	MarkInvitationAcceptedTx(ctx context.Context, tx pgx.Tx, invitationID string, acceptedAt time.Time) error

	// DeleteInvitation removes an invitation row. Deleting a row that is
	// already gone is not an error.
	DeleteInvitation(ctx context.Context, invitationID string) error
}

// InvitationRepositoryFacade combines all invitation-related repository interfaces
type InvitationRepositoryFacade interface {
	InvitationReader
	InvitationWriter
}

// InvitationRepositoryWithTx extends InvitationRepositoryFacade with
// transaction capabilities for the accept path.
type InvitationRepositoryWithTx interface {
	InvitationRepositoryFacade
	TransactionManager
}
