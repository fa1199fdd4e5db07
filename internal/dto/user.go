package dto

import (
	"time"

	"github.com/hirelens/hirelens_backend/internal/core/domain"
)

// RegisterUserRequest defines the payload for registering a new user.
type RegisterUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// UserResponse defines the user representation returned by the API.
// Credential material is never included.
type UserResponse struct {
	UserID          string    `json:"userID"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	IsPlatformAdmin bool      `json:"isPlatformAdmin"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ToUserResponse maps a domain User to its API representation.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:          user.UserID,
		Name:            user.Name,
		Email:           user.Email,
		IsPlatformAdmin: user.IsPlatformAdmin,
		CreatedAt:       user.CreatedAt,
	}
}
