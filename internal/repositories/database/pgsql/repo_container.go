package pgsql

import (
	portsrepo "github.com/hirelens/hirelens_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:       newPgxUserRepository(dbPool),
		WorkspaceRepo:  newPgxWorkspaceRepository(dbPool),
		MembershipRepo: newPgxMembershipRepository(dbPool),
		InvitationRepo: newPgxInvitationRepository(dbPool),
		AuditRepo:      newPgxAuditRepository(dbPool),
	}
}
