package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/hirelens/hirelens_backend/internal/apperrors"
	"github.com/hirelens/hirelens_backend/internal/core/domain"
	portsrepo "github.com/hirelens/hirelens_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxInvitationRepository struct {
	BaseRepository
}

// newPgxInvitationRepository creates a new repository for invitation data.
func newPgxInvitationRepository(pool *pgxpool.Pool) portsrepo.InvitationRepositoryWithTx {
	return &PgxInvitationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxInvitationRepository implements portsrepo.InvitationRepositoryWithTx
var _ portsrepo.InvitationRepositoryWithTx = (*PgxInvitationRepository)(nil)

const invitationSelectQuery = `
SELECT
	i.invitation_id, i.workspace_id, i.email, i.role, i.token, i.inviter_user_id,
	i.expires_at, i.accepted_at,
	i.created_at, i.created_by, i.last_updated_at, i.last_updated_by
FROM invitations i
`

func scanInvitation(row pgx.Row) (*domain.Invitation, error) {
	var inv domain.Invitation
	err := row.Scan(
		&inv.InvitationID,
		&inv.WorkspaceID,
		&inv.Email,
		&inv.Role,
		&inv.Token,
		&inv.InviterUserID,
		&inv.ExpiresAt,
		&inv.AcceptedAt,
		&inv.CreatedAt,
		&inv.CreatedBy,
		&inv.LastUpdatedAt,
		&inv.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *PgxInvitationRepository) FindInvitationByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	query := invitationSelectQuery + `WHERE i.token = $1`
	inv, err := scanInvitation(r.Pool.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find invitation by token", err)
	}
	return inv, nil
}

func (r *PgxInvitationRepository) FindOpenInvitation(ctx context.Context, workspaceID, email string) (*domain.Invitation, error) {
	query := invitationSelectQuery + `
		WHERE i.workspace_id = $1 AND i.email = $2 AND i.accepted_at IS NULL
	`
	inv, err := scanInvitation(r.Pool.QueryRow(ctx, query, workspaceID, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find open invitation for workspace "+workspaceID, err)
	}
	return inv, nil
}

func (r *PgxInvitationRepository) ListInvitationsByWorkspaceID(ctx context.Context, workspaceID string) ([]domain.Invitation, error) {
	query := invitationSelectQuery + `
		WHERE i.workspace_id = $1 AND i.accepted_at IS NULL
		ORDER BY i.created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query invitations for workspace "+workspaceID, err)
	}
	defer rows.Close()

	var invitations []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invitation row", err)
		}
		invitations = append(invitations, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating invitation rows", err)
	}
	return invitations, nil
}

func (r *PgxInvitationRepository) SaveInvitation(ctx context.Context, invitation domain.Invitation) error {
	query := `
		INSERT INTO invitations (
			invitation_id, workspace_id, email, role, token, inviter_user_id,
			expires_at, accepted_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		invitation.InvitationID,
		invitation.WorkspaceID,
		invitation.Email,
		invitation.Role,
		invitation.Token,
		invitation.InviterUserID,
		invitation.ExpiresAt,
		invitation.AcceptedAt,
		invitation.CreatedAt,
		invitation.CreatedBy,
		invitation.LastUpdatedAt,
		invitation.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique open invitation per (workspace, email)
			return apperrors.NewConflictError("an open invitation already exists for " + invitation.Email)
		}
		return apperrors.NewAppError(500, "failed to save invitation "+invitation.InvitationID, err)
	}
	return nil
}

func (r *PgxInvitationRepository) RefreshInvitation(ctx context.Context, invitationID string, role domain.Role, expiresAt time.Time, updatedByUserID string) error {
	query := `
		UPDATE invitations
		SET role = $1, expires_at = $2, last_updated_at = NOW(), last_updated_by = $3
		WHERE invitation_id = $4 AND accepted_at IS NULL;
	`
	result, err := r.Pool.Exec(ctx, query, role, expiresAt, updatedByUserID, invitationID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to refresh invitation "+invitationID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkInvitationAcceptedTx sets accepted_at only when it is still null, so
// two concurrent accepts produce exactly one winner.
func (r *PgxInvitationRepository) MarkInvitationAcceptedTx(ctx context.Context, tx pgx.Tx, invitationID string, acceptedAt time.Time) error {
	query := `
		UPDATE invitations
		SET accepted_at = $1, last_updated_at = $1
		WHERE invitation_id = $2 AND accepted_at IS NULL;
	`
	result, err := tx.Exec(ctx, query, acceptedAt, invitationID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark invitation accepted "+invitationID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrAlreadyAccepted
	}
	return nil
}

func (r *PgxInvitationRepository) DeleteInvitation(ctx context.Context, invitationID string) error {
	query := `DELETE FROM invitations WHERE invitation_id = $1;`
	if _, err := r.Pool.Exec(ctx, query, invitationID); err != nil {
		return apperrors.NewAppError(500, "failed to delete invitation "+invitationID, err)
	}
	return nil
}
