package services_test

import (
	"context"
	"time"

	"github.com/hirelens/hirelens_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// --- Mock WorkspaceRepository (WorkspaceRepositoryWithTx) ---

type MockWorkspaceRepository struct {
	mock.Mock
}

func (m *MockWorkspaceRepository) FindWorkspaceByID(ctx context.Context, workspaceID string) (*domain.Workspace, error) {
	args := m.Called(ctx, workspaceID)
	var workspace *domain.Workspace
	if args.Get(0) != nil {
		workspace = args.Get(0).(*domain.Workspace)
	}
	return workspace, args.Error(1)
}

func (m *MockWorkspaceRepository) FindWorkspaceBySlug(ctx context.Context, slug string) (*domain.Workspace, error) {
	args := m.Called(ctx, slug)
	var workspace *domain.Workspace
	if args.Get(0) != nil {
		workspace = args.Get(0).(*domain.Workspace)
	}
	return workspace, args.Error(1)
}

func (m *MockWorkspaceRepository) ListWorkspacesByUserID(ctx context.Context, userID string) ([]domain.Workspace, error) {
	args := m.Called(ctx, userID)
	var workspaces []domain.Workspace
	if args.Get(0) != nil {
		workspaces = args.Get(0).([]domain.Workspace)
	}
	return workspaces, args.Error(1)
}

func (m *MockWorkspaceRepository) SaveWorkspace(ctx context.Context, workspace domain.Workspace) error {
	args := m.Called(ctx, workspace)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) SaveWorkspaceTx(ctx context.Context, tx pgx.Tx, workspace domain.Workspace) error {
	args := m.Called(ctx, tx, workspace)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) UpdateWorkspaceDetails(ctx context.Context, workspaceID, name, description, updatedByUserID string) error {
	args := m.Called(ctx, workspaceID, name, description, updatedByUserID)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockWorkspaceRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock MembershipRepository (MembershipRepositoryFacade) ---

type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) FindMembership(ctx context.Context, userID, workspaceID string) (*domain.Membership, error) {
	args := m.Called(ctx, userID, workspaceID)
	var membership *domain.Membership
	if args.Get(0) != nil {
		membership = args.Get(0).(*domain.Membership)
	}
	return membership, args.Error(1)
}

func (m *MockMembershipRepository) ListMembershipsByUserID(ctx context.Context, userID string) ([]domain.Membership, error) {
	args := m.Called(ctx, userID)
	var memberships []domain.Membership
	if args.Get(0) != nil {
		memberships = args.Get(0).([]domain.Membership)
	}
	return memberships, args.Error(1)
}

func (m *MockMembershipRepository) ListMembershipsByWorkspaceID(ctx context.Context, workspaceID string) ([]domain.Membership, error) {
	args := m.Called(ctx, workspaceID)
	var memberships []domain.Membership
	if args.Get(0) != nil {
		memberships = args.Get(0).([]domain.Membership)
	}
	return memberships, args.Error(1)
}

func (m *MockMembershipRepository) CreateMembership(ctx context.Context, membership domain.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockMembershipRepository) CreateMembershipTx(ctx context.Context, tx pgx.Tx, membership domain.Membership) error {
	args := m.Called(ctx, tx, membership)
	return args.Error(0)
}

func (m *MockMembershipRepository) UpdateMembershipRole(ctx context.Context, userID, workspaceID string, newRole domain.Role) error {
	args := m.Called(ctx, userID, workspaceID, newRole)
	return args.Error(0)
}

func (m *MockMembershipRepository) DeleteMembership(ctx context.Context, userID, workspaceID string) error {
	args := m.Called(ctx, userID, workspaceID)
	return args.Error(0)
}

// --- Mock InvitationRepository (InvitationRepositoryWithTx) ---

type MockInvitationRepository struct {
	mock.Mock
}

func (m *MockInvitationRepository) FindInvitationByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	args := m.Called(ctx, token)
	var invitation *domain.Invitation
	if args.Get(0) != nil {
		invitation = args.Get(0).(*domain.Invitation)
	}
	return invitation, args.Error(1)
}

func (m *MockInvitationRepository) FindOpenInvitation(ctx context.Context, workspaceID, email string) (*domain.Invitation, error) {
	args := m.Called(ctx, workspaceID, email)
	var invitation *domain.Invitation
	if args.Get(0) != nil {
		invitation = args.Get(0).(*domain.Invitation)
	}
	return invitation, args.Error(1)
}

func (m *MockInvitationRepository) ListInvitationsByWorkspaceID(ctx context.Context, workspaceID string) ([]domain.Invitation, error) {
	args := m.Called(ctx, workspaceID)
	var invitations []domain.Invitation
	if args.Get(0) != nil {
		invitations = args.Get(0).([]domain.Invitation)
	}
	return invitations, args.Error(1)
}

func (m *MockInvitationRepository) SaveInvitation(ctx context.Context, invitation domain.Invitation) error {
	args := m.Called(ctx, invitation)
	return args.Error(0)
}

func (m *MockInvitationRepository) RefreshInvitation(ctx context.Context, invitationID string, role domain.Role, expiresAt time.Time, updatedByUserID string) error {
	args := m.Called(ctx, invitationID, role, expiresAt, updatedByUserID)
	return args.Error(0)
}

func (m *MockInvitationRepository) MarkInvitationAcceptedTx(ctx context.Context, tx pgx.Tx, invitationID string, acceptedAt time.Time) error {
	args := m.Called(ctx, tx, invitationID, acceptedAt)
	return args.Error(0)
}

func (m *MockInvitationRepository) DeleteInvitation(ctx context.Context, invitationID string) error {
	args := m.Called(ctx, invitationID)
	return args.Error(0)
}

func (m *MockInvitationRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockInvitationRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockInvitationRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByProviderDetails(ctx context.Context, authProvider, providerUserID string) (*domain.User, error) {
	args := m.Called(ctx, authProvider, providerUserID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Mock AuditRepository ---

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) RecordAction(ctx context.Context, entry domain.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
