package repositories

import (
	"context"

	"github.com/hirelens/hirelens_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// WorkspaceReader defines read operations for workspace data
type WorkspaceReader interface {
	// FindWorkspaceByID retrieves a specific workspace by its ID.
	FindWorkspaceByID(ctx context.Context, workspaceID string) (*domain.Workspace, error)

	// FindWorkspaceBySlug retrieves a workspace by its globally unique slug.
	FindWorkspaceBySlug(ctx context.Context, slug string) (*domain.Workspace, error)

	// ListWorkspacesByUserID retrieves all workspaces a user belongs to.
	ListWorkspacesByUserID(ctx context.Context, userID string) ([]domain.Workspace, error)
}

// WorkspaceWriter defines write operations for workspace data
type WorkspaceWriter interface {
	// SaveWorkspace persists a new workspace.
	SaveWorkspace(ctx context.Context, workspace domain.Workspace) error

	// SaveWorkspaceTx persists a new workspace within an existing transaction.
	SaveWorkspaceTx(ctx context.Context, tx pgx.Tx, workspace domain.Workspace) error

	// UpdateWorkspaceDetails updates the name and description of a workspace.
	UpdateWorkspaceDetails(ctx context.Context, workspaceID, name, description, updatedByUserID string) error
}

// WorkspaceRepositoryFacade combines all workspace-related repository interfaces
type WorkspaceRepositoryFacade interface {
	WorkspaceReader
	WorkspaceWriter
}

// WorkspaceRepositoryWithTx extends WorkspaceRepositoryFacade with transaction capabilities
type WorkspaceRepositoryWithTx interface {
	WorkspaceRepositoryFacade
	TransactionManager
}
