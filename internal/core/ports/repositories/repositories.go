package repositories

// RepositoryProvider bundles every repository implementation for injection
// into the service container.
type RepositoryProvider struct {
	UserRepo       UserRepository
	WorkspaceRepo  WorkspaceRepositoryWithTx
	MembershipRepo MembershipRepositoryFacade
	InvitationRepo InvitationRepositoryWithTx
	AuditRepo      AuditRepository
}
