package repositories

import (
	"context"

	"github.com/hirelens/hirelens_backend/internal/core/domain"
)

// AuditRepository appends authorization-relevant actions to the audit log.
// The log is append-only; there are no update or delete operations.
type AuditRepository interface {
	RecordAction(ctx context.Context, entry domain.AuditEntry) error
}
