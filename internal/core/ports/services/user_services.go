package services

import (
	"context"
	"time"

	"github.com/hirelens/hirelens_backend/internal/core/domain"
	"github.com/hirelens/hirelens_backend/internal/dto"
)

// UserSvcFacade defines operations for managing users.
type UserSvcFacade interface {
	// CreateUser registers a new local user with a bcrypt password hash.
	CreateUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// FindOrCreateGoogleUser resolves an externally authenticated Google
	// identity to a local user, creating one on first login. Reports whether
	// the user was newly created so the caller can provision a default
	// workspace.
	FindOrCreateGoogleUser(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, bool, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateRefreshTokenHash stores the hash and expiry of a refresh token.
	UpdateRefreshTokenHash(ctx context.Context, userID, refreshTokenHash string, expiryTime time.Time) error

	// ClearRefreshTokenHash removes the stored refresh token.
	ClearRefreshTokenHash(ctx context.Context, userID string) error
}
