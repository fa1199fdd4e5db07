package domain

// TenantCandidates carries the optional workspace selectors extracted from a
// request by the transport layer. Precedence is fixed: path, then body, then
// query, then header slug, then the caller's default workspace. The core only
// sees this struct, never the request itself.
type TenantCandidates struct {
	PathID     string // explicit workspace id in the route path
	BodyID     string // explicit workspace id in the request body
	QueryID    string // explicit workspace id in the query string
	HeaderSlug string // workspace slug carried in a request header
}

// Requirement describes what a guarded operation demands: either a single
// capability or membership in one of a set of roles. Exactly one of the two
// forms is used per check.
type Requirement struct {
	Capability Capability
	Roles      []Role

	// AllowPlatformAdmin opts the operation into the cross-workspace override
	// for platform admins. Off by default.
	AllowPlatformAdmin bool
}

// RequireCapability builds a capability requirement.
func RequireCapability(cap Capability) Requirement {
	return Requirement{Capability: cap}
}

// RequireRole builds a role-set requirement.
func RequireRole(roles ...Role) Requirement {
	return Requirement{Roles: roles}
}

// AuthzResult is the immutable outcome of a successful authorization check.
// It is attached to the request context so downstream handlers reuse it
// without recomputation within the same request.
type AuthzResult struct {
	WorkspaceID  string       `json:"workspaceID"`
	Role         Role         `json:"role"`
	Capabilities Capabilities `json:"capabilities"`
}
