package domain

// Role defines the possible roles a user can have within a workspace.
// The set is closed; PermissionsFor must be updated whenever a role is added.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
	RoleViewer Role = "VIEWER"
)

// AllRoles lists every defined role, strongest first.
var AllRoles = []Role{RoleOwner, RoleAdmin, RoleMember, RoleViewer}

// IsValid reports whether r is one of the defined roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember, RoleViewer:
		return true
	}
	return false
}

// Capability names a single permission bit, independent of any record instance.
type Capability string

const (
	CapViewDesigners Capability = "canViewDesigners"
	CapEditDesigners Capability = "canEditDesigners"

	CapViewLists Capability = "canViewLists"
	CapEditLists Capability = "canEditLists"

	CapViewJobs Capability = "canViewJobs"
	CapEditJobs Capability = "canEditJobs"

	CapInviteMembers     Capability = "canInviteMembers"
	CapManageInvitations Capability = "canManageInvitations"
	CapRemoveMembers     Capability = "canRemoveMembers"
	CapChangeRoles       Capability = "canChangeRoles"
	CapEditWorkspace     Capability = "canEditWorkspace"

	CapViewAnalytics Capability = "canViewAnalytics"
	CapExportData    Capability = "canExportData"

	CapUseAIMatching Capability = "canUseAIMatching"

	CapManageBilling Capability = "canManageBilling"
)

// AllCapabilities lists every defined capability. Kept in sync with the
// Capabilities struct; the role table tests iterate this list.
var AllCapabilities = []Capability{
	CapViewDesigners, CapEditDesigners,
	CapViewLists, CapEditLists,
	CapViewJobs, CapEditJobs,
	CapInviteMembers, CapManageInvitations, CapRemoveMembers, CapChangeRoles, CapEditWorkspace,
	CapViewAnalytics, CapExportData,
	CapUseAIMatching,
	CapManageBilling,
}

// Capabilities is the fixed set of permission bits derived from a role.
// It is recomputed on every check and never persisted.
type Capabilities struct {
	CanViewDesigners bool `json:"canViewDesigners"`
	CanEditDesigners bool `json:"canEditDesigners"`

	CanViewLists bool `json:"canViewLists"`
	CanEditLists bool `json:"canEditLists"`

	CanViewJobs bool `json:"canViewJobs"`
	CanEditJobs bool `json:"canEditJobs"`

	CanInviteMembers     bool `json:"canInviteMembers"`
	CanManageInvitations bool `json:"canManageInvitations"`
	CanRemoveMembers     bool `json:"canRemoveMembers"`
	CanChangeRoles       bool `json:"canChangeRoles"`
	CanEditWorkspace     bool `json:"canEditWorkspace"`

	CanViewAnalytics bool `json:"canViewAnalytics"`
	CanExportData    bool `json:"canExportData"`

	CanUseAIMatching bool `json:"canUseAIMatching"`

	CanManageBilling bool `json:"canManageBilling"`
}

// Has reports whether the named capability is granted. Unknown names are
// denied, keeping checks fail-closed even if a caller passes a stale name.
func (c Capabilities) Has(cap Capability) bool {
	switch cap {
	case CapViewDesigners:
		return c.CanViewDesigners
	case CapEditDesigners:
		return c.CanEditDesigners
	case CapViewLists:
		return c.CanViewLists
	case CapEditLists:
		return c.CanEditLists
	case CapViewJobs:
		return c.CanViewJobs
	case CapEditJobs:
		return c.CanEditJobs
	case CapInviteMembers:
		return c.CanInviteMembers
	case CapManageInvitations:
		return c.CanManageInvitations
	case CapRemoveMembers:
		return c.CanRemoveMembers
	case CapChangeRoles:
		return c.CanChangeRoles
	case CapEditWorkspace:
		return c.CanEditWorkspace
	case CapViewAnalytics:
		return c.CanViewAnalytics
	case CapExportData:
		return c.CanExportData
	case CapUseAIMatching:
		return c.CanUseAIMatching
	case CapManageBilling:
		return c.CanManageBilling
	}
	return false
}

// PermissionsFor maps a role to its capability set. It is pure and total:
// every defined role yields a value for every capability, and an unrecognized
// or empty role yields the all-false set rather than an error.
//
// Capability strength is not a simple rank: AI matching is granted to MEMBER
// but not VIEWER, so each row is spelled out per capability instead of being
// derived from a numeric ordering.
func PermissionsFor(role Role) Capabilities {
	switch role {
	case RoleOwner:
		return Capabilities{
			CanViewDesigners: true, CanEditDesigners: true,
			CanViewLists: true, CanEditLists: true,
			CanViewJobs: true, CanEditJobs: true,
			CanInviteMembers: true, CanManageInvitations: true,
			CanRemoveMembers: true, CanChangeRoles: true, CanEditWorkspace: true,
			CanViewAnalytics: true, CanExportData: true,
			CanUseAIMatching: true,
			CanManageBilling: true,
		}
	case RoleAdmin:
		return Capabilities{
			CanViewDesigners: true, CanEditDesigners: true,
			CanViewLists: true, CanEditLists: true,
			CanViewJobs: true, CanEditJobs: true,
			CanInviteMembers: true, CanManageInvitations: true,
			CanRemoveMembers: true, CanChangeRoles: true, CanEditWorkspace: true,
			CanViewAnalytics: true, CanExportData: true,
			CanUseAIMatching: true,
			CanManageBilling: false,
		}
	case RoleMember:
		return Capabilities{
			CanViewDesigners: true, CanEditDesigners: true,
			CanViewLists: true, CanEditLists: true,
			CanViewJobs: true, CanEditJobs: false,
			CanInviteMembers: false, CanManageInvitations: false,
			CanRemoveMembers: false, CanChangeRoles: false, CanEditWorkspace: false,
			CanViewAnalytics: true, CanExportData: false,
			CanUseAIMatching: true,
			CanManageBilling: false,
		}
	case RoleViewer:
		return Capabilities{
			CanViewDesigners: true, CanEditDesigners: false,
			CanViewLists: true, CanEditLists: false,
			CanViewJobs: true, CanEditJobs: false,
			CanInviteMembers: false, CanManageInvitations: false,
			CanRemoveMembers: false, CanChangeRoles: false, CanEditWorkspace: false,
			CanViewAnalytics: false, CanExportData: false,
			CanUseAIMatching: false,
			CanManageBilling: false,
		}
	default:
		// Fail-closed: unknown roles get no capabilities.
		return Capabilities{}
	}
}
