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

type PgxWorkspaceRepository struct {
	BaseRepository
}

// newPgxWorkspaceRepository creates a new repository for workspace data.
func newPgxWorkspaceRepository(pool *pgxpool.Pool) portsrepo.WorkspaceRepositoryWithTx {
	return &PgxWorkspaceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxWorkspaceRepository implements portsrepo.WorkspaceRepositoryWithTx
var _ portsrepo.WorkspaceRepositoryWithTx = (*PgxWorkspaceRepository)(nil)

const workspaceSelectQuery = `
SELECT
	w.workspace_id, w.name, w.slug, w.description, w.owner_user_id, w.is_active,
	w.created_at, w.created_by, w.last_updated_at, w.last_updated_by
FROM workspaces w
`

func scanWorkspace(row pgx.Row) (*domain.Workspace, error) {
	var w domain.Workspace
	err := row.Scan(
		&w.WorkspaceID,
		&w.Name,
		&w.Slug,
		&w.Description,
		&w.OwnerUserID,
		&w.IsActive,
		&w.CreatedAt,
		&w.CreatedBy,
		&w.LastUpdatedAt,
		&w.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *PgxWorkspaceRepository) SaveWorkspace(ctx context.Context, workspace domain.Workspace) error {
	return r.saveWorkspace(ctx, r.Pool, workspace)
}

func (r *PgxWorkspaceRepository) SaveWorkspaceTx(ctx context.Context, tx pgx.Tx, workspace domain.Workspace) error {
	return r.saveWorkspace(ctx, tx, workspace)
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *PgxWorkspaceRepository) saveWorkspace(ctx context.Context, q querier, workspace domain.Workspace) error {
	query := `
		INSERT INTO workspaces (
			workspace_id, name, slug, description, owner_user_id, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := q.Exec(ctx, query,
		workspace.WorkspaceID,
		workspace.Name,
		workspace.Slug,
		workspace.Description,
		workspace.OwnerUserID,
		workspace.IsActive,
		workspace.CreatedAt,
		workspace.CreatedBy,
		workspace.LastUpdatedAt,
		workspace.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				if pgErr.ConstraintName == "workspaces_slug_key" {
					return apperrors.NewConflictError("workspace slug " + workspace.Slug + " already exists")
				}
				return apperrors.NewConflictError("workspace ID " + workspace.WorkspaceID + " already exists")
			}
		}
		return apperrors.NewAppError(500, "failed to save workspace "+workspace.WorkspaceID, err)
	}
	return nil
}

func (r *PgxWorkspaceRepository) FindWorkspaceByID(ctx context.Context, workspaceID string) (*domain.Workspace, error) {
	query := workspaceSelectQuery + `WHERE w.workspace_id = $1`
	w, err := scanWorkspace(r.Pool.QueryRow(ctx, query, workspaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find workspace "+workspaceID, err)
	}
	return w, nil
}

func (r *PgxWorkspaceRepository) FindWorkspaceBySlug(ctx context.Context, slug string) (*domain.Workspace, error) {
	query := workspaceSelectQuery + `WHERE w.slug = $1`
	w, err := scanWorkspace(r.Pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find workspace by slug "+slug, err)
	}
	return w, nil
}

func (r *PgxWorkspaceRepository) ListWorkspacesByUserID(ctx context.Context, userID string) ([]domain.Workspace, error) {
	query := workspaceSelectQuery + `
		JOIN memberships m ON w.workspace_id = m.workspace_id
		WHERE m.user_id = $1 AND w.is_active = true
		ORDER BY m.joined_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query workspaces for user "+userID, err)
	}
	defer rows.Close()

	var workspaces []domain.Workspace
	for rows.Next() {
		w, err := scanWorkspace(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan workspace row", err)
		}
		workspaces = append(workspaces, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating workspace rows", err)
	}
	return workspaces, nil
}

// UpdateWorkspaceDetails updates the name and description of a workspace.
func (r *PgxWorkspaceRepository) UpdateWorkspaceDetails(ctx context.Context, workspaceID, name, description, updatedByUserID string) error {
	query := `
		UPDATE workspaces
		SET name = $1, description = $2, last_updated_at = NOW(), last_updated_by = $3
		WHERE workspace_id = $4;
	`
	result, err := r.Pool.Exec(ctx, query, name, description, updatedByUserID, workspaceID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update workspace "+workspaceID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("workspace not found")
	}
	return nil
}
