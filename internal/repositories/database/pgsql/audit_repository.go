package pgsql

import (
	"context"
	"encoding/json"

	"github.com/hirelens/hirelens_backend/internal/apperrors"
	"github.com/hirelens/hirelens_backend/internal/core/domain"
	portsrepo "github.com/hirelens/hirelens_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for the append-only audit log.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepository {
	return &PgxAuditRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxAuditRepository implements portsrepo.AuditRepository
var _ portsrepo.AuditRepository = (*PgxAuditRepository)(nil)

func (r *PgxAuditRepository) RecordAction(ctx context.Context, entry domain.AuditEntry) error {
	var metadata []byte
	if entry.Metadata != nil {
		var err error
		metadata, err = json.Marshal(entry.Metadata)
		if err != nil {
			return apperrors.NewAppError(500, "failed to marshal audit metadata", err)
		}
	}

	query := `
		INSERT INTO audit_log (audit_id, user_id, workspace_id, action, resource, resource_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		entry.AuditID,
		entry.UserID,
		entry.WorkspaceID,
		entry.Action,
		entry.Resource,
		entry.ResourceID,
		metadata,
		entry.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to record audit entry", err)
	}
	return nil
}
