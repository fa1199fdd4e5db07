package domain

import "time"

// User represents a user of the application in the domain.
type User struct {
	UserID       string `json:"userID"` // Primary Key (e.g., UUID)
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`

	// IsPlatformAdmin grants cross-workspace access on designated operational
	// endpoints only. It never substitutes for a membership in ordinary
	// workspace operations.
	IsPlatformAdmin bool `json:"isPlatformAdmin"`

	// External auth provider details (e.g., "google" + provider subject).
	AuthProvider   *string `json:"authProvider,omitempty"`
	ProviderUserID *string `json:"-"`

	// Refresh token details. Only the SHA256 hash is stored.
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`

	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}

// GoogleUserInfo holds the user details returned by Google's userinfo endpoint.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
