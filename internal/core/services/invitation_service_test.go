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

type InvitationServiceTestSuite struct {
	suite.Suite
	mockInvitationRepo *MockInvitationRepository
	mockMembershipRepo *MockMembershipRepository
	mockWorkspaceRepo  *MockWorkspaceRepository
	mockUserRepo       *MockUserRepository
	service            portssvc.InvitationSvcFacade

	workspaceID string
	inviterID   string
}

func (suite *InvitationServiceTestSuite) SetupTest() {
	suite.mockInvitationRepo = new(MockInvitationRepository)
	suite.mockMembershipRepo = new(MockMembershipRepository)
	suite.mockWorkspaceRepo = new(MockWorkspaceRepository)
	suite.mockUserRepo = new(MockUserRepository)
	// No notifier: email dispatch is best-effort and not under test here.
	suite.service = services.NewInvitationService(
		suite.mockInvitationRepo,
		suite.mockMembershipRepo,
		suite.mockWorkspaceRepo,
		suite.mockUserRepo,
		nil,
		"https://app.hirelens.test",
	)

	suite.workspaceID = uuid.NewString()
	suite.inviterID = uuid.NewString()
}

func (suite *InvitationServiceTestSuite) expectInviterRole(ctx context.Context, role domain.Role) {
	membership := &domain.Membership{UserID: suite.inviterID, WorkspaceID: suite.workspaceID, Role: role}
	suite.mockMembershipRepo.On("FindMembership", ctx, suite.inviterID, suite.workspaceID).Return(membership, nil).Once()
}

// --- InviteUser ---

func (suite *InvitationServiceTestSuite) TestInviteUser_CreatesNewInvitation() {
	ctx := context.Background()
	email := "designer@example.com"

	suite.expectInviterRole(ctx, domain.RoleAdmin)
	suite.mockUserRepo.On("FindUserByEmail", ctx, email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockInvitationRepo.On("FindOpenInvitation", ctx, suite.workspaceID, email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockInvitationRepo.On("SaveInvitation", ctx, mock.MatchedBy(func(inv domain.Invitation) bool {
		return inv.WorkspaceID == suite.workspaceID &&
			inv.Email == email &&
			inv.Role == domain.RoleMember &&
			inv.Token != "" &&
			inv.InviterUserID == suite.inviterID &&
			inv.AcceptedAt == nil
	})).Return(nil).Once()

	invitation, err := suite.service.InviteUser(ctx, suite.inviterID, suite.workspaceID, email, domain.RoleMember)

	suite.Require().NoError(err)
	suite.Require().NotNil(invitation)
	suite.NotEmpty(invitation.Token)
	suite.WithinDuration(time.Now().Add(domain.DefaultInvitationValidity), invitation.ExpiresAt, time.Minute)
	suite.mockInvitationRepo.AssertExpectations(suite.T())
}

func (suite *InvitationServiceTestSuite) TestInviteUser_RefreshKeepsTokenAndExtendsExpiry() {
	ctx := context.Background()
	email := "designer@example.com"
	originalToken := "original-token-abc"
	existing := &domain.Invitation{
		InvitationID:  uuid.NewString(),
		WorkspaceID:   suite.workspaceID,
		Email:         email,
		Role:          domain.RoleViewer,
		Token:         originalToken,
		InviterUserID: uuid.NewString(),
		ExpiresAt:     time.Now().Add(time.Hour),
	}

	suite.expectInviterRole(ctx, domain.RoleOwner)
	suite.mockUserRepo.On("FindUserByEmail", ctx, email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockInvitationRepo.On("FindOpenInvitation", ctx, suite.workspaceID, email).Return(existing, nil).Once()
	suite.mockInvitationRepo.On("RefreshInvitation", ctx, existing.InvitationID, domain.RoleAdmin, mock.AnythingOfType("time.Time"), suite.inviterID).Return(nil).Once()

	invitation, err := suite.service.InviteUser(ctx, suite.inviterID, suite.workspaceID, email, domain.RoleAdmin)

	suite.Require().NoError(err)
	suite.Equal(originalToken, invitation.Token, "re-inviting must keep the original token")
	suite.Equal(domain.RoleAdmin, invitation.Role)
	suite.WithinDuration(time.Now().Add(domain.DefaultInvitationValidity), invitation.ExpiresAt, time.Minute)
	suite.mockInvitationRepo.AssertNotCalled(suite.T(), "SaveInvitation", mock.Anything, mock.Anything)
}

// Re-inviting after the pending invitation expired must not revive its token;
// the dead row is replaced by a freshly tokened one.
func (suite *InvitationServiceTestSuite) TestInviteUser_ExpiredInvitationSupersededWithFreshToken() {
	ctx := context.Background()
	email := "designer@example.com"
	staleToken := "stale-token-abc"
	expired := &domain.Invitation{
		InvitationID:  uuid.NewString(),
		WorkspaceID:   suite.workspaceID,
		Email:         email,
		Role:          domain.RoleMember,
		Token:         staleToken,
		InviterUserID: uuid.NewString(),
		ExpiresAt:     time.Now().Add(-time.Hour),
	}

	suite.expectInviterRole(ctx, domain.RoleAdmin)
	suite.mockUserRepo.On("FindUserByEmail", ctx, email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockInvitationRepo.On("FindOpenInvitation", ctx, suite.workspaceID, email).Return(expired, nil).Once()
	suite.mockInvitationRepo.On("DeleteInvitation", ctx, expired.InvitationID).Return(nil).Once()
	suite.mockInvitationRepo.On("SaveInvitation", ctx, mock.MatchedBy(func(inv domain.Invitation) bool {
		return inv.Token != "" && inv.Token != staleToken && inv.InvitationID != expired.InvitationID
	})).Return(nil).Once()

	invitation, err := suite.service.InviteUser(ctx, suite.inviterID, suite.workspaceID, email, domain.RoleMember)

	suite.Require().NoError(err)
	suite.NotEqual(staleToken, invitation.Token)
	suite.WithinDuration(time.Now().Add(domain.DefaultInvitationValidity), invitation.ExpiresAt, time.Minute)
	suite.mockInvitationRepo.AssertNotCalled(suite.T(), "RefreshInvitation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockInvitationRepo.AssertExpectations(suite.T())
}

func (suite *InvitationServiceTestSuite) TestInviteUser_ViewerForbidden() {
	ctx := context.Background()
	suite.expectInviterRole(ctx, domain.RoleViewer)

	invitation, err := suite.service.InviteUser(ctx, suite.inviterID, suite.workspaceID, "designer@example.com", domain.RoleMember)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(invitation)
	var forbiddenErr *apperrors.ForbiddenError
	suite.Require().ErrorAs(err, &forbiddenErr)
	suite.Equal("VIEWER", forbiddenErr.Role)
	suite.Equal("canInviteMembers", forbiddenErr.Required)
}

func (suite *InvitationServiceTestSuite) TestInviteUser_InviteeAlreadyMember() {
	ctx := context.Background()
	email := "designer@example.com"
	invitee := &domain.User{UserID: uuid.NewString(), Email: email}

	suite.expectInviterRole(ctx, domain.RoleAdmin)
	suite.mockUserRepo.On("FindUserByEmail", ctx, email).Return(invitee, nil).Once()
	suite.mockMembershipRepo.On("FindMembership", ctx, invitee.UserID, suite.workspaceID).
		Return(&domain.Membership{UserID: invitee.UserID, WorkspaceID: suite.workspaceID, Role: domain.RoleMember}, nil).Once()

	invitation, err := suite.service.InviteUser(ctx, suite.inviterID, suite.workspaceID, email, domain.RoleMember)

	suite.Require().ErrorIs(err, apperrors.ErrAlreadyMember)
	suite.Nil(invitation)
}

func (suite *InvitationServiceTestSuite) TestInviteUser_RejectsOwnerRoleAndBadEmail() {
	ctx := context.Background()

	_, err := suite.service.InviteUser(ctx, suite.inviterID, suite.workspaceID, "designer@example.com", domain.RoleOwner)
	suite.Require().ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.InviteUser(ctx, suite.inviterID, suite.workspaceID, "not-an-email", domain.RoleMember)
	suite.Require().ErrorIs(err, apperrors.ErrValidation)

	suite.mockMembershipRepo.AssertNotCalled(suite.T(), "FindMembership", mock.Anything, mock.Anything, mock.Anything)
}

// --- LookupInvitation ---

func (suite *InvitationServiceTestSuite) TestLookupInvitation_ReturnsDetailWithoutConsuming() {
	ctx := context.Background()
	inv := &domain.Invitation{
		InvitationID:  uuid.NewString(),
		WorkspaceID:   suite.workspaceID,
		Email:         "designer@example.com",
		Role:          domain.RoleMember,
		Token:         "tok-1",
		InviterUserID: suite.inviterID,
		ExpiresAt:     time.Now().Add(time.Hour),
	}
	workspace := &domain.Workspace{WorkspaceID: suite.workspaceID, Name: "Acme Hiring", Slug: "acme-hiring"}
	inviter := &domain.User{UserID: suite.inviterID, Name: "Jordan"}

	suite.mockInvitationRepo.On("FindInvitationByToken", ctx, "tok-1").Return(inv, nil).Once()
	suite.mockWorkspaceRepo.On("FindWorkspaceByID", ctx, suite.workspaceID).Return(workspace, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.inviterID).Return(inviter, nil).Once()

	detail, err := suite.service.LookupInvitation(ctx, "tok-1")

	suite.Require().NoError(err)
	suite.Equal("Acme Hiring", detail.WorkspaceName)
	suite.Equal("acme-hiring", detail.WorkspaceSlug)
	suite.Equal("Jordan", detail.InviterName)
	suite.Nil(detail.Invitation.AcceptedAt)
}

func (suite *InvitationServiceTestSuite) TestLookupInvitation_DistinctFailures() {
	ctx := context.Background()
	accepted := time.Now().Add(-time.Hour)

	suite.mockInvitationRepo.On("FindInvitationByToken", ctx, "tok-accepted").
		Return(&domain.Invitation{Token: "tok-accepted", AcceptedAt: &accepted, ExpiresAt: time.Now().Add(time.Hour)}, nil).Once()
	_, err := suite.service.LookupInvitation(ctx, "tok-accepted")
	suite.Require().ErrorIs(err, apperrors.ErrAlreadyAccepted)

	suite.mockInvitationRepo.On("FindInvitationByToken", ctx, "tok-expired").
		Return(&domain.Invitation{Token: "tok-expired", ExpiresAt: time.Now().Add(-time.Minute)}, nil).Once()
	_, err = suite.service.LookupInvitation(ctx, "tok-expired")
	suite.Require().ErrorIs(err, apperrors.ErrInvitationExpired)

	suite.mockInvitationRepo.On("FindInvitationByToken", ctx, "tok-missing").
		Return(nil, apperrors.ErrNotFound).Once()
	_, err = suite.service.LookupInvitation(ctx, "tok-missing")
	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

// --- AcceptInvitation ---

func (suite *InvitationServiceTestSuite) openInvitation(email string) *domain.Invitation {
	return &domain.Invitation{
		InvitationID:  uuid.NewString(),
		WorkspaceID:   suite.workspaceID,
		Email:         email,
		Role:          domain.RoleMember,
		Token:         "tok-open",
		InviterUserID: suite.inviterID,
		ExpiresAt:     time.Now().Add(time.Hour),
	}
}

func (suite *InvitationServiceTestSuite) TestAcceptInvitation_Success() {
	ctx := context.Background()
	user := &domain.User{UserID: uuid.NewString(), Name: "Sam", Email: "designer@example.com"}
	inv := suite.openInvitation(user.Email)

	suite.mockInvitationRepo.On("FindInvitationByToken", ctx, "tok-open").Return(inv, nil).Once()
	suite.mockMembershipRepo.On("FindMembership", ctx, user.UserID, suite.workspaceID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockInvitationRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockMembershipRepo.On("CreateMembershipTx", ctx, mock.Anything, mock.MatchedBy(func(m domain.Membership) bool {
		return m.UserID == user.UserID && m.WorkspaceID == suite.workspaceID && m.Role == domain.RoleMember
	})).Return(nil).Once()
	suite.mockInvitationRepo.On("MarkInvitationAcceptedTx", ctx, mock.Anything, inv.InvitationID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockInvitationRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()
	suite.mockInvitationRepo.On("Rollback", ctx, mock.Anything).Return(nil).Maybe()

	membership, err := suite.service.AcceptInvitation(ctx, user, "tok-open")

	suite.Require().NoError(err)
	suite.Equal(domain.RoleMember, membership.Role)
	suite.Equal(suite.workspaceID, membership.WorkspaceID)
	suite.mockInvitationRepo.AssertExpectations(suite.T())
	suite.mockMembershipRepo.AssertExpectations(suite.T())
}

func (suite *InvitationServiceTestSuite) TestAcceptInvitation_EmailMismatchIsCaseSensitive() {
	ctx := context.Background()
	user := &domain.User{UserID: uuid.NewString(), Email: "Designer@Example.com"}
	inv := suite.openInvitation("designer@example.com")

	suite.mockInvitationRepo.On("FindInvitationByToken", ctx, "tok-open").Return(inv, nil).Once()

	membership, err := suite.service.AcceptInvitation(ctx, user, "tok-open")

	suite.Require().ErrorIs(err, apperrors.ErrEmailMismatch)
	suite.Nil(membership)
	suite.mockInvitationRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *InvitationServiceTestSuite) TestAcceptInvitation_TerminalAndExpiredStates() {
	ctx := context.Background()
	user := &domain.User{UserID: uuid.NewString(), Email: "designer@example.com"}

	accepted := time.Now().Add(-time.Hour)
	acceptedInv := suite.openInvitation(user.Email)
	acceptedInv.AcceptedAt = &accepted
	suite.mockInvitationRepo.On("FindInvitationByToken", ctx, "tok-open").Return(acceptedInv, nil).Once()
	_, err := suite.service.AcceptInvitation(ctx, user, "tok-open")
	suite.Require().ErrorIs(err, apperrors.ErrAlreadyAccepted)

	expiredInv := suite.openInvitation(user.Email)
	expiredInv.ExpiresAt = time.Now().Add(-time.Minute)
	suite.mockInvitationRepo.On("FindInvitationByToken", ctx, "tok-open").Return(expiredInv, nil).Once()
	_, err = suite.service.AcceptInvitation(ctx, user, "tok-open")
	suite.Require().ErrorIs(err, apperrors.ErrInvitationExpired)
}

func (suite *InvitationServiceTestSuite) TestAcceptInvitation_AlreadyMember() {
	ctx := context.Background()
	user := &domain.User{UserID: uuid.NewString(), Email: "designer@example.com"}
	inv := suite.openInvitation(user.Email)

	suite.mockInvitationRepo.On("FindInvitationByToken", ctx, "tok-open").Return(inv, nil).Once()
	suite.mockMembershipRepo.On("FindMembership", ctx, user.UserID, suite.workspaceID).
		Return(&domain.Membership{UserID: user.UserID, WorkspaceID: suite.workspaceID, Role: domain.RoleViewer}, nil).Once()

	_, err := suite.service.AcceptInvitation(ctx, user, "tok-open")

	suite.Require().ErrorIs(err, apperrors.ErrAlreadyMember)
	suite.mockInvitationRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

// A concurrent accept that loses the conditional update must not commit.
func (suite *InvitationServiceTestSuite) TestAcceptInvitation_ConcurrentLoserRollsBack() {
	ctx := context.Background()
	user := &domain.User{UserID: uuid.NewString(), Email: "designer@example.com"}
	inv := suite.openInvitation(user.Email)

	suite.mockInvitationRepo.On("FindInvitationByToken", ctx, "tok-open").Return(inv, nil).Once()
	suite.mockMembershipRepo.On("FindMembership", ctx, user.UserID, suite.workspaceID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockInvitationRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockMembershipRepo.On("CreateMembershipTx", ctx, mock.Anything, mock.AnythingOfType("domain.Membership")).Return(nil).Once()
	suite.mockInvitationRepo.On("MarkInvitationAcceptedTx", ctx, mock.Anything, inv.InvitationID, mock.AnythingOfType("time.Time")).
		Return(apperrors.ErrAlreadyAccepted).Once()
	suite.mockInvitationRepo.On("Rollback", ctx, mock.Anything).Return(nil).Once()

	membership, err := suite.service.AcceptInvitation(ctx, user, "tok-open")

	suite.Require().ErrorIs(err, apperrors.ErrAlreadyAccepted)
	suite.Nil(membership)
	suite.mockInvitationRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

// --- CancelInvitation ---

func (suite *InvitationServiceTestSuite) TestCancelInvitation_DeletesOpenInvitation() {
	ctx := context.Background()
	invitationID := uuid.NewString()
	suite.expectInviterRole(ctx, domain.RoleAdmin)
	suite.mockInvitationRepo.On("ListInvitationsByWorkspaceID", ctx, suite.workspaceID).
		Return([]domain.Invitation{{InvitationID: invitationID, WorkspaceID: suite.workspaceID}}, nil).Once()
	suite.mockInvitationRepo.On("DeleteInvitation", ctx, invitationID).Return(nil).Once()

	err := suite.service.CancelInvitation(ctx, suite.inviterID, suite.workspaceID, invitationID)

	suite.Require().NoError(err)
	suite.mockInvitationRepo.AssertExpectations(suite.T())
}

func (suite *InvitationServiceTestSuite) TestCancelInvitation_AlreadyGoneIsNoOp() {
	ctx := context.Background()
	suite.expectInviterRole(ctx, domain.RoleAdmin)
	suite.mockInvitationRepo.On("ListInvitationsByWorkspaceID", ctx, suite.workspaceID).
		Return([]domain.Invitation{}, nil).Once()

	err := suite.service.CancelInvitation(ctx, suite.inviterID, suite.workspaceID, uuid.NewString())

	suite.Require().NoError(err)
	suite.mockInvitationRepo.AssertNotCalled(suite.T(), "DeleteInvitation", mock.Anything, mock.Anything)
}

func TestInvitationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvitationServiceTestSuite))
}
