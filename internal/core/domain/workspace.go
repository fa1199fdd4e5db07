package domain

import "time"

// Workspace represents an isolated tenant containing designers, lists, jobs, etc.
type Workspace struct {
	WorkspaceID string `json:"workspaceID"` // Primary Key (e.g., UUID)
	Name        string `json:"name"`        // User-defined name for the workspace
	Slug        string `json:"slug"`        // Globally unique, stable human-facing selector
	Description string `json:"description"` // Optional description
	OwnerUserID string `json:"ownerUserID"` // The designated owner identity; always holds an OWNER membership
	IsActive    bool   `json:"isActive"`    // Indicates whether the workspace is active or disabled
	AuditFields        // Embed common audit fields
}

// Membership represents the binding of a User to a Workspace with exactly one role.
// At most one membership row exists per (workspace, user) pair.
type Membership struct {
	UserID      string    `json:"userID"`             // FK -> users.user_id
	UserName    string    `json:"userName,omitempty"` // Name of the user (populated on joined reads)
	WorkspaceID string    `json:"workspaceID"`        // FK -> workspaces.workspace_id
	Role        Role      `json:"role"`               // Role of the user in this specific workspace
	JoinedAt    time.Time `json:"joinedAt"`           // Timestamp when the user joined the workspace
}
