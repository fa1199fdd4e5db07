package pgsql

import (
	"context"
	"errors"

	"github.com/hirelens/hirelens_backend/internal/apperrors"
	"github.com/hirelens/hirelens_backend/internal/core/domain"
	portsrepo "github.com/hirelens/hirelens_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxMembershipRepository struct {
	BaseRepository
}

// newPgxMembershipRepository creates a new repository for membership data.
func newPgxMembershipRepository(pool *pgxpool.Pool) portsrepo.MembershipRepositoryFacade {
	return &PgxMembershipRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxMembershipRepository implements portsrepo.MembershipRepositoryFacade
var _ portsrepo.MembershipRepositoryFacade = (*PgxMembershipRepository)(nil)

func (r *PgxMembershipRepository) FindMembership(ctx context.Context, userID, workspaceID string) (*domain.Membership, error) {
	query := `
		SELECT user_id, workspace_id, role, joined_at
		FROM memberships
		WHERE user_id = $1 AND workspace_id = $2;
	`
	var m domain.Membership
	err := r.Pool.QueryRow(ctx, query, userID, workspaceID).Scan(
		&m.UserID,
		&m.WorkspaceID,
		&m.Role,
		&m.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find membership for user "+userID+" in workspace "+workspaceID, err)
	}
	return &m, nil
}

func (r *PgxMembershipRepository) ListMembershipsByUserID(ctx context.Context, userID string) ([]domain.Membership, error) {
	query := `
		SELECT user_id, workspace_id, role, joined_at
		FROM memberships
		WHERE user_id = $1
		ORDER BY joined_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query memberships for user "+userID, err)
	}
	defer rows.Close()

	var memberships []domain.Membership
	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(&m.UserID, &m.WorkspaceID, &m.Role, &m.JoinedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan membership row", err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating membership rows", err)
	}
	return memberships, nil
}

func (r *PgxMembershipRepository) ListMembershipsByWorkspaceID(ctx context.Context, workspaceID string) ([]domain.Membership, error) {
	query := `
		SELECT m.user_id, u.name AS user_name, m.workspace_id, m.role, m.joined_at
		FROM memberships m
		JOIN users u ON m.user_id = u.user_id
		WHERE m.workspace_id = $1
		ORDER BY m.joined_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query members for workspace "+workspaceID, err)
	}
	defer rows.Close()

	var memberships []domain.Membership
	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(&m.UserID, &m.UserName, &m.WorkspaceID, &m.Role, &m.JoinedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan membership row", err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating membership rows", err)
	}
	return memberships, nil
}

func (r *PgxMembershipRepository) CreateMembership(ctx context.Context, membership domain.Membership) error {
	return r.createMembership(ctx, r.Pool, membership)
}

func (r *PgxMembershipRepository) CreateMembershipTx(ctx context.Context, tx pgx.Tx, membership domain.Membership) error {
	return r.createMembership(ctx, tx, membership)
}

func (r *PgxMembershipRepository) createMembership(ctx context.Context, q querier, membership domain.Membership) error {
	query := `
		INSERT INTO memberships (user_id, workspace_id, role, joined_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err := q.Exec(ctx, query,
		membership.UserID,
		membership.WorkspaceID,
		membership.Role,
		membership.JoinedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation on (workspace_id, user_id)
			return apperrors.ErrAlreadyMember
		}
		return apperrors.NewAppError(500, "failed to add user "+membership.UserID+" to workspace "+membership.WorkspaceID, err)
	}
	return nil
}

func (r *PgxMembershipRepository) UpdateMembershipRole(ctx context.Context, userID, workspaceID string, newRole domain.Role) error {
	query := `
		UPDATE memberships
		SET role = $3
		WHERE user_id = $1 AND workspace_id = $2;
	`
	result, err := r.Pool.Exec(ctx, query, userID, workspaceID, newRole)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update role for user "+userID+" in workspace "+workspaceID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxMembershipRepository) DeleteMembership(ctx context.Context, userID, workspaceID string) error {
	query := `
		DELETE FROM memberships
		WHERE user_id = $1 AND workspace_id = $2;
	`
	result, err := r.Pool.Exec(ctx, query, userID, workspaceID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete membership of user "+userID+" in workspace "+workspaceID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
