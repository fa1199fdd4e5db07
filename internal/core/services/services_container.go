package services

import (
	portsrepo "github.com/hirelens/hirelens_backend/internal/core/ports/repositories"
	portssvc "github.com/hirelens/hirelens_backend/internal/core/ports/services"
	"github.com/hirelens/hirelens_backend/internal/platform/config"
)

// NewServiceContainer wires all services with their repository dependencies.
func NewServiceContainer(
	repos *portsrepo.RepositoryProvider,
	notifier portssvc.InvitationNotifierSvc,
	cfg *config.AppConfig,
) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		User:      NewUserService(repos.UserRepo),
		Workspace: NewWorkspaceService(repos.WorkspaceRepo, repos.MembershipRepo),
		Authz:     NewAuthzService(repos.WorkspaceRepo, repos.MembershipRepo, repos.AuditRepo),
		Invitation: NewInvitationService(
			repos.InvitationRepo,
			repos.MembershipRepo,
			repos.WorkspaceRepo,
			repos.UserRepo,
			notifier,
			cfg.FrontendBaseURL,
		),
		TokenService: NewTokenService(repos.UserRepo, cfg),
		GoogleOAuth:  NewGoogleOAuthService(cfg),
	}
}
