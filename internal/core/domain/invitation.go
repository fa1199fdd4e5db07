package domain

import "time"

// DefaultInvitationValidity is how long a fresh (or refreshed) invitation
// remains acceptable.
const DefaultInvitationValidity = 7 * 24 * time.Hour

// Invitation is a time-boxed, single-use grant of future membership,
// addressed to an email rather than an identity. Only one open invitation
// may exist per (workspace, email); re-inviting refreshes role and expiry
// in place and keeps the same token.
type Invitation struct {
	InvitationID  string     `json:"invitationID"` // Primary Key (e.g., UUID)
	WorkspaceID   string     `json:"workspaceID"`  // FK -> workspaces.workspace_id
	Email         string     `json:"email"`        // Invitee email, matched case-sensitively on accept
	Role          Role       `json:"role"`         // Role granted on acceptance
	Token         string     `json:"-"`            // Opaque single-use token; never serialized in listings
	InviterUserID string     `json:"inviterUserID"`
	ExpiresAt     time.Time  `json:"expiresAt"`
	AcceptedAt    *time.Time `json:"acceptedAt,omitempty"` // Terminal once set
	AuditFields
}

// IsAccepted reports whether the invitation has been consumed.
func (i *Invitation) IsAccepted() bool {
	return i.AcceptedAt != nil
}

// IsExpired reports whether the invitation is logically expired at the given
// instant. Expiry blocks acceptance but does not delete the row.
func (i *Invitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// IsOpen reports whether the invitation can still be accepted at the given
// instant.
func (i *Invitation) IsOpen(now time.Time) bool {
	return !i.IsAccepted() && !i.IsExpired(now)
}

// InvitationDetail is the unauthenticated display view of an invitation,
// returned by token lookup without consuming the invitation.
type InvitationDetail struct {
	Invitation    Invitation `json:"invitation"`
	WorkspaceName string     `json:"workspaceName"`
	WorkspaceSlug string     `json:"workspaceSlug"`
	InviterName   string     `json:"inviterName"`
}
