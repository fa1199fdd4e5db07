package domain

import "time"

// AuditEntry is one append-only record of an authorization-relevant action.
type AuditEntry struct {
	AuditID     string         `json:"auditID"`
	UserID      string         `json:"userID"`
	WorkspaceID string         `json:"workspaceID"`
	Action      string         `json:"action"`
	Resource    string         `json:"resource"`
	ResourceID  *string        `json:"resourceID,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}
