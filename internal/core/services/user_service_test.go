package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hirelens/hirelens_backend/internal/apperrors"
	"github.com/hirelens/hirelens_backend/internal/core/domain"
	portssvc "github.com/hirelens/hirelens_backend/internal/core/ports/services"
	"github.com/hirelens/hirelens_backend/internal/core/services"
	"github.com/hirelens/hirelens_backend/internal/dto"
	"github.com/hirelens/hirelens_backend/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo)
}

func (suite *UserServiceTestSuite) TestCreateUser_HashesPassword() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{Name: " Sam ", Email: "sam@example.com", Password: "s3cret-pass"}

	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Name == "Sam" &&
			u.Email == "sam@example.com" &&
			u.PasswordHash != "" &&
			utils.CheckPasswordHash("s3cret-pass", u.PasswordHash)
	})).Return(nil).Once()

	user, err := suite.service.CreateUser(ctx, req)

	suite.Require().NoError(err)
	suite.NotEmpty(user.UserID)
	suite.Equal(user.UserID, user.CreatedBy)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_DuplicateEmailSurfacesConflict() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{Name: "Sam", Email: "sam@example.com", Password: "s3cret-pass"}

	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).
		Return(apperrors.NewConflictError("user with this email already exists")).Once()

	user, err := suite.service.CreateUser(ctx, req)

	suite.Require().ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(user)
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_MatchesByProviderFirst() {
	ctx := context.Background()
	existing := &domain.User{UserID: uuid.NewString(), Email: "sam@example.com"}
	info := &domain.GoogleUserInfo{ID: "google-sub-1", Email: "sam@example.com", VerifiedEmail: true, Name: "Sam"}

	suite.mockUserRepo.On("FindUserByProviderDetails", ctx, "google", "google-sub-1").Return(existing, nil).Once()

	user, created, err := suite.service.FindOrCreateGoogleUser(ctx, info)

	suite.Require().NoError(err)
	suite.False(created)
	suite.Equal(existing.UserID, user.UserID)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "FindUserByEmail", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_ReusesLocalAccountByEmail() {
	ctx := context.Background()
	existing := &domain.User{UserID: uuid.NewString(), Email: "sam@example.com"}
	info := &domain.GoogleUserInfo{ID: "google-sub-1", Email: "sam@example.com", VerifiedEmail: true, Name: "Sam"}

	suite.mockUserRepo.On("FindUserByProviderDetails", ctx, "google", "google-sub-1").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "sam@example.com").Return(existing, nil).Once()

	user, created, err := suite.service.FindOrCreateGoogleUser(ctx, info)

	suite.Require().NoError(err)
	suite.False(created)
	suite.Equal(existing.UserID, user.UserID)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_CreatesNewAccount() {
	ctx := context.Background()
	info := &domain.GoogleUserInfo{ID: "google-sub-1", Email: "sam@example.com", VerifiedEmail: true, Name: "Sam"}

	suite.mockUserRepo.On("FindUserByProviderDetails", ctx, "google", "google-sub-1").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "sam@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == "sam@example.com" &&
			u.AuthProvider != nil && *u.AuthProvider == "google" &&
			u.ProviderUserID != nil && *u.ProviderUserID == "google-sub-1" &&
			u.PasswordHash == ""
	})).Return(nil).Once()

	user, created, err := suite.service.FindOrCreateGoogleUser(ctx, info)

	suite.Require().NoError(err)
	suite.True(created)
	suite.Equal("Sam", user.Name)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_RejectsUnverifiedOrMissingInfo() {
	ctx := context.Background()

	_, _, err := suite.service.FindOrCreateGoogleUser(ctx, nil)
	suite.Require().ErrorIs(err, apperrors.ErrValidation)

	_, _, err = suite.service.FindOrCreateGoogleUser(ctx, &domain.GoogleUserInfo{ID: "x", Email: "sam@example.com", VerifiedEmail: false})
	suite.Require().ErrorIs(err, apperrors.ErrValidation)

	suite.mockUserRepo.AssertNotCalled(suite.T(), "FindUserByProviderDetails", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
