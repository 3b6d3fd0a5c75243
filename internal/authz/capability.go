package authz

import "market-access-platform/internal/identity"

// Feature names a fine-grained functional area (lead, deal, product, ...).
type Feature string

// Permission is a fine-grained action grant scoped to a feature.
type Permission string

const (
	PermCreate Permission = "create"
	PermRead   Permission = "read"
	PermUpdate Permission = "update"
	PermDelete Permission = "delete"
	PermExport Permission = "export"
)

const (
	FeatureLead         Feature = "lead"
	FeatureDeal         Feature = "deal"
	FeatureOrganization Feature = "organization"
	FeatureProduct      Feature = "product"
	FeatureCampaign     Feature = "campaign"
	FeatureReport       Feature = "report"
	FeatureUser         Feature = "user"
)

// FeatureWildcard grants its permission set on every feature. Per role, the
// wildcard entry is consulted before the specific feature entry.
const FeatureWildcard Feature = "*"

// PermissionSet is the set of actions a role may perform on a feature.
type PermissionSet map[Permission]bool

// FeatureGrants maps feature names (or FeatureWildcard) to allowed actions.
type FeatureGrants map[Feature]PermissionSet

// Table is the static capability table: what each role code unlocks per
// feature, and which route prefixes each page-access tag makes reachable.
// Loaded at process start; never mutated at runtime.
type Table struct {
	Grants map[identity.RoleCode]FeatureGrants
	Routes map[identity.PageAccess][]string
}

func perms(ps ...Permission) PermissionSet {
	out := make(PermissionSet, len(ps))
	for _, p := range ps {
		out[p] = true
	}
	return out
}

// DefaultTable returns the built-in capability table.
//
// SUPER_ADMIN has no entry on purpose: HasPermission short-circuits before any
// table lookup for that role, so an entry would be dead weight.
func DefaultTable() Table {
	return Table{
		Grants: map[identity.RoleCode]FeatureGrants{
			identity.RoleAdmin: {
				FeatureWildcard: perms(PermCreate, PermRead, PermUpdate, PermDelete, PermExport),
			},
			identity.RoleManager: {
				FeatureLead:         perms(PermCreate, PermRead, PermUpdate),
				FeatureDeal:         perms(PermCreate, PermRead, PermUpdate),
				FeatureOrganization: perms(PermCreate, PermRead, PermUpdate),
				FeatureProduct:      perms(PermRead),
				FeatureCampaign:     perms(PermCreate, PermRead, PermUpdate),
				FeatureReport:       perms(PermRead, PermExport),
			},
			identity.RoleUser: {
				FeatureLead:         perms(PermRead),
				FeatureDeal:         perms(PermRead),
				FeatureOrganization: perms(PermRead),
				FeatureProduct:      perms(PermRead),
				FeatureReport:       perms(PermRead),
			},
		},
		Routes: map[identity.PageAccess][]string{
			identity.PageDashboard:    {"/dashboard"},
			identity.PageLead:         {"/leads"},
			identity.PageDeal:         {"/deals"},
			identity.PageOrganization: {"/organizations"},
			identity.PageProduct:      {"/products"},
			identity.PageCampaign:     {"/campaigns"},
			identity.PageReport:       {"/reports"},
		},
	}
}
