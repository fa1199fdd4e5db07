package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hirelens/hirelens_backend/internal/apperrors"
	"github.com/hirelens/hirelens_backend/internal/core/domain"
	portssvc "github.com/hirelens/hirelens_backend/internal/core/ports/services"
	"github.com/hirelens/hirelens_backend/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AuthzServiceTestSuite struct {
	suite.Suite
	mockWorkspaceRepo  *MockWorkspaceRepository
	mockMembershipRepo *MockMembershipRepository
	mockAuditRepo      *MockAuditRepository
	service            portssvc.AuthzSvcFacade
}

func (suite *AuthzServiceTestSuite) SetupTest() {
	suite.mockWorkspaceRepo = new(MockWorkspaceRepository)
	suite.mockMembershipRepo = new(MockMembershipRepository)
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.service = services.NewAuthzService(suite.mockWorkspaceRepo, suite.mockMembershipRepo, suite.mockAuditRepo)
}

func (suite *AuthzServiceTestSuite) workspace(id string) *domain.Workspace {
	return &domain.Workspace{WorkspaceID: id, Name: "Acme Hiring", Slug: "acme-hiring", OwnerUserID: uuid.NewString()}
}

// --- Authorize: authentication ---

func (suite *AuthzServiceTestSuite) TestAuthorize_NilCallerFailsBeforeAnyStoreAccess() {
	ctx := context.Background()

	result, err := suite.service.Authorize(ctx, nil, domain.TenantCandidates{PathID: "ws-1"}, domain.RequireCapability(domain.CapViewDesigners), portssvc.AuditAction{Action: "designer.view", Resource: "designer"})

	suite.Require().ErrorIs(err, apperrors.ErrUnauthenticated)
	suite.Nil(result)
	suite.mockWorkspaceRepo.AssertNotCalled(suite.T(), "FindWorkspaceByID", mock.Anything, mock.Anything)
	suite.mockMembershipRepo.AssertNotCalled(suite.T(), "FindMembership", mock.Anything, mock.Anything, mock.Anything)
	suite.mockAuditRepo.AssertNotCalled(suite.T(), "RecordAction", mock.Anything, mock.Anything)
}

// --- ResolveWorkspace: precedence ---

func (suite *AuthzServiceTestSuite) TestResolveWorkspace_PathWinsOverAllOtherCandidates() {
	ctx := context.Background()
	pathWS := suite.workspace("ws-path")

	suite.mockWorkspaceRepo.On("FindWorkspaceByID", ctx, "ws-path").Return(pathWS, nil).Once()

	cand := domain.TenantCandidates{
		PathID:     "ws-path",
		BodyID:     "ws-body",
		QueryID:    "ws-query",
		HeaderSlug: "other-slug",
	}
	workspaceID, err := suite.service.ResolveWorkspace(ctx, cand, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal("ws-path", workspaceID)
	suite.mockWorkspaceRepo.AssertNotCalled(suite.T(), "FindWorkspaceBySlug", mock.Anything, mock.Anything)
	suite.mockWorkspaceRepo.AssertExpectations(suite.T())
}

func (suite *AuthzServiceTestSuite) TestResolveWorkspace_BodyBeatsQuery() {
	ctx := context.Background()
	suite.mockWorkspaceRepo.On("FindWorkspaceByID", ctx, "ws-body").Return(suite.workspace("ws-body"), nil).Once()

	workspaceID, err := suite.service.ResolveWorkspace(ctx, domain.TenantCandidates{BodyID: "ws-body", QueryID: "ws-query"}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal("ws-body", workspaceID)
}

func (suite *AuthzServiceTestSuite) TestResolveWorkspace_HeaderSlugResolvesWhenNoIDCandidates() {
	ctx := context.Background()
	ws := suite.workspace("ws-slug")
	suite.mockWorkspaceRepo.On("FindWorkspaceBySlug", ctx, "acme-hiring").Return(ws, nil).Once()

	workspaceID, err := suite.service.ResolveWorkspace(ctx, domain.TenantCandidates{HeaderSlug: "acme-hiring"}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal("ws-slug", workspaceID)
	suite.mockWorkspaceRepo.AssertNotCalled(suite.T(), "FindWorkspaceByID", mock.Anything, mock.Anything)
}

func (suite *AuthzServiceTestSuite) TestResolveWorkspace_ExplicitSelectorUnknownDoesNotFallBack() {
	ctx := context.Background()
	suite.mockWorkspaceRepo.On("FindWorkspaceByID", ctx, "ws-missing").Return(nil, apperrors.ErrNotFound).Once()

	workspaceID, err := suite.service.ResolveWorkspace(ctx, domain.TenantCandidates{PathID: "ws-missing", QueryID: "ws-real"}, uuid.NewString())

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.Empty(workspaceID)
	// The weaker query candidate must not be consulted.
	suite.mockWorkspaceRepo.AssertNumberOfCalls(suite.T(), "FindWorkspaceByID", 1)
	suite.mockMembershipRepo.AssertNotCalled(suite.T(), "ListMembershipsByUserID", mock.Anything, mock.Anything)
}

func (suite *AuthzServiceTestSuite) TestResolveWorkspace_DefaultPrefersOwnedWorkspace() {
	ctx := context.Background()
	userID := uuid.NewString()
	memberships := []domain.Membership{
		{UserID: userID, WorkspaceID: "ws-recent", Role: domain.RoleMember, JoinedAt: time.Now()},
		{UserID: userID, WorkspaceID: "ws-owned", Role: domain.RoleOwner, JoinedAt: time.Now().Add(-48 * time.Hour)},
	}
	suite.mockMembershipRepo.On("ListMembershipsByUserID", ctx, userID).Return(memberships, nil).Once()

	workspaceID, err := suite.service.ResolveWorkspace(ctx, domain.TenantCandidates{}, userID)

	suite.Require().NoError(err)
	suite.Equal("ws-owned", workspaceID)
}

func (suite *AuthzServiceTestSuite) TestResolveWorkspace_DefaultFallsBackToMostRecentlyJoined() {
	ctx := context.Background()
	userID := uuid.NewString()
	memberships := []domain.Membership{
		{UserID: userID, WorkspaceID: "ws-newest", Role: domain.RoleMember, JoinedAt: time.Now()},
		{UserID: userID, WorkspaceID: "ws-older", Role: domain.RoleViewer, JoinedAt: time.Now().Add(-24 * time.Hour)},
	}
	suite.mockMembershipRepo.On("ListMembershipsByUserID", ctx, userID).Return(memberships, nil).Once()

	workspaceID, err := suite.service.ResolveWorkspace(ctx, domain.TenantCandidates{}, userID)

	suite.Require().NoError(err)
	suite.Equal("ws-newest", workspaceID)
}

func (suite *AuthzServiceTestSuite) TestResolveWorkspace_NoCandidatesNoMemberships() {
	ctx := context.Background()
	userID := uuid.NewString()
	suite.mockMembershipRepo.On("ListMembershipsByUserID", ctx, userID).Return([]domain.Membership{}, nil).Once()

	_, err := suite.service.ResolveWorkspace(ctx, domain.TenantCandidates{}, userID)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

// --- AuthorizeMember ---

func (suite *AuthzServiceTestSuite) TestAuthorizeMember_NotAMember() {
	ctx := context.Background()
	caller := &domain.User{UserID: uuid.NewString()}
	suite.mockMembershipRepo.On("FindMembership", ctx, caller.UserID, "ws-1").Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.AuthorizeMember(ctx, caller, "ws-1", domain.RequireCapability(domain.CapViewDesigners))

	suite.Require().ErrorIs(err, apperrors.ErrNotAMember)
	suite.Nil(result)
}

func (suite *AuthzServiceTestSuite) TestAuthorizeMember_ForbiddenCarriesRoleAndCapability() {
	ctx := context.Background()
	caller := &domain.User{UserID: uuid.NewString()}
	membership := &domain.Membership{UserID: caller.UserID, WorkspaceID: "ws-1", Role: domain.RoleViewer}
	suite.mockMembershipRepo.On("FindMembership", ctx, caller.UserID, "ws-1").Return(membership, nil).Once()

	result, err := suite.service.AuthorizeMember(ctx, caller, "ws-1", domain.RequireCapability(domain.CapEditDesigners))

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	var forbiddenErr *apperrors.ForbiddenError
	suite.Require().ErrorAs(err, &forbiddenErr)
	suite.Equal("VIEWER", forbiddenErr.Role)
	suite.Equal("canEditDesigners", forbiddenErr.Required)
}

func (suite *AuthzServiceTestSuite) TestAuthorizeMember_MemberMayUseAIMatchingViewerMayNot() {
	ctx := context.Background()
	caller := &domain.User{UserID: uuid.NewString()}

	member := &domain.Membership{UserID: caller.UserID, WorkspaceID: "ws-1", Role: domain.RoleMember}
	suite.mockMembershipRepo.On("FindMembership", ctx, caller.UserID, "ws-1").Return(member, nil).Once()
	result, err := suite.service.AuthorizeMember(ctx, caller, "ws-1", domain.RequireCapability(domain.CapUseAIMatching))
	suite.Require().NoError(err)
	suite.Equal(domain.RoleMember, result.Role)
	suite.True(result.Capabilities.CanUseAIMatching)

	viewer := &domain.Membership{UserID: caller.UserID, WorkspaceID: "ws-2", Role: domain.RoleViewer}
	suite.mockMembershipRepo.On("FindMembership", ctx, caller.UserID, "ws-2").Return(viewer, nil).Once()
	_, err = suite.service.AuthorizeMember(ctx, caller, "ws-2", domain.RequireCapability(domain.CapUseAIMatching))
	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AuthzServiceTestSuite) TestAuthorizeMember_RoleSetRequirement() {
	ctx := context.Background()
	caller := &domain.User{UserID: uuid.NewString()}
	membership := &domain.Membership{UserID: caller.UserID, WorkspaceID: "ws-1", Role: domain.RoleMember}
	suite.mockMembershipRepo.On("FindMembership", ctx, caller.UserID, "ws-1").Return(membership, nil).Twice()

	result, err := suite.service.AuthorizeMember(ctx, caller, "ws-1", domain.RequireRole(domain.RoleAdmin, domain.RoleMember))
	suite.Require().NoError(err)
	suite.Equal(domain.RoleMember, result.Role)

	_, err = suite.service.AuthorizeMember(ctx, caller, "ws-1", domain.RequireRole(domain.RoleOwner, domain.RoleAdmin))
	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AuthzServiceTestSuite) TestAuthorizeMember_PlatformAdminOverrideOnlyWhenOptedIn() {
	ctx := context.Background()
	admin := &domain.User{UserID: uuid.NewString(), IsPlatformAdmin: true}
	suite.mockMembershipRepo.On("FindMembership", ctx, admin.UserID, "ws-1").Return(nil, apperrors.ErrNotFound).Twice()

	// Ordinary operation: platform admin status does not substitute for membership.
	_, err := suite.service.AuthorizeMember(ctx, admin, "ws-1", domain.RequireCapability(domain.CapViewDesigners))
	suite.Require().ErrorIs(err, apperrors.ErrNotAMember)

	// Opted-in operational endpoint.
	req := domain.Requirement{Capability: domain.CapViewDesigners, AllowPlatformAdmin: true}
	result, err := suite.service.AuthorizeMember(ctx, admin, "ws-1", req)
	suite.Require().NoError(err)
	suite.Equal("ws-1", result.WorkspaceID)
}

// --- Authorize: full guard ---

func (suite *AuthzServiceTestSuite) TestAuthorize_UnresolvedTenantBecomesTenantRequired() {
	ctx := context.Background()
	caller := &domain.User{UserID: uuid.NewString()}
	suite.mockMembershipRepo.On("ListMembershipsByUserID", ctx, caller.UserID).Return([]domain.Membership{}, nil).Once()

	result, err := suite.service.Authorize(ctx, caller, domain.TenantCandidates{}, domain.RequireCapability(domain.CapViewDesigners), portssvc.AuditAction{Action: "designer.view", Resource: "designer"})

	suite.Require().ErrorIs(err, apperrors.ErrTenantRequired)
	suite.Nil(result)
}

func (suite *AuthzServiceTestSuite) TestAuthorize_SuccessRecordsAuditEntry() {
	ctx := context.Background()
	caller := &domain.User{UserID: uuid.NewString()}
	membership := &domain.Membership{UserID: caller.UserID, WorkspaceID: "ws-1", Role: domain.RoleAdmin}

	suite.mockWorkspaceRepo.On("FindWorkspaceByID", ctx, "ws-1").Return(suite.workspace("ws-1"), nil).Once()
	suite.mockMembershipRepo.On("FindMembership", ctx, caller.UserID, "ws-1").Return(membership, nil).Once()
	suite.mockAuditRepo.On("RecordAction", ctx, mock.MatchedBy(func(entry domain.AuditEntry) bool {
		return entry.UserID == caller.UserID &&
			entry.WorkspaceID == "ws-1" &&
			entry.Action == "invitation.create" &&
			entry.Resource == "invitation" &&
			entry.AuditID != ""
	})).Return(nil).Once()

	result, err := suite.service.Authorize(ctx, caller, domain.TenantCandidates{PathID: "ws-1"}, domain.RequireCapability(domain.CapInviteMembers), portssvc.AuditAction{Action: "invitation.create", Resource: "invitation"})

	suite.Require().NoError(err)
	suite.Equal(domain.RoleAdmin, result.Role)
	suite.mockAuditRepo.AssertExpectations(suite.T())
}

func (suite *AuthzServiceTestSuite) TestAuthorize_AuditFailureDoesNotFailRequest() {
	ctx := context.Background()
	caller := &domain.User{UserID: uuid.NewString()}
	membership := &domain.Membership{UserID: caller.UserID, WorkspaceID: "ws-1", Role: domain.RoleOwner}

	suite.mockWorkspaceRepo.On("FindWorkspaceByID", ctx, "ws-1").Return(suite.workspace("ws-1"), nil).Once()
	suite.mockMembershipRepo.On("FindMembership", ctx, caller.UserID, "ws-1").Return(membership, nil).Once()
	suite.mockAuditRepo.On("RecordAction", ctx, mock.AnythingOfType("domain.AuditEntry")).Return(context.DeadlineExceeded).Once()

	result, err := suite.service.Authorize(ctx, caller, domain.TenantCandidates{PathID: "ws-1"}, domain.RequireCapability(domain.CapEditWorkspace), portssvc.AuditAction{Action: "workspace.update", Resource: "workspace"})

	suite.Require().NoError(err)
	suite.NotNil(result)
}

func (suite *AuthzServiceTestSuite) TestAuthorize_DeniedRequestRecordsNoAudit() {
	ctx := context.Background()
	caller := &domain.User{UserID: uuid.NewString()}
	membership := &domain.Membership{UserID: caller.UserID, WorkspaceID: "ws-1", Role: domain.RoleViewer}

	suite.mockWorkspaceRepo.On("FindWorkspaceByID", ctx, "ws-1").Return(suite.workspace("ws-1"), nil).Once()
	suite.mockMembershipRepo.On("FindMembership", ctx, caller.UserID, "ws-1").Return(membership, nil).Once()

	_, err := suite.service.Authorize(ctx, caller, domain.TenantCandidates{PathID: "ws-1"}, domain.RequireCapability(domain.CapInviteMembers), portssvc.AuditAction{Action: "invitation.create", Resource: "invitation"})

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.mockAuditRepo.AssertNotCalled(suite.T(), "RecordAction", mock.Anything, mock.Anything)
}

func TestAuthzServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthzServiceTestSuite))
}
