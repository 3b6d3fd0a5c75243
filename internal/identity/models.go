package identity

// RoleCode is an open enumeration. The CRM backend can introduce new codes at any
// time; predicate logic must treat unknown codes as non-matching, never as errors.
type RoleCode string

// Well-known role codes. Keep these stable; they are part of the auth contract.
const (
	RoleSuperAdmin RoleCode = "SUPER_ADMIN"
	RoleAdmin      RoleCode = "ADMIN"
	RoleManager    RoleCode = "MANAGER"
	RoleUser       RoleCode = "USER"
)

// PageAccess is a coarse route-area grant scoped to a company (e.g. "LEAD"
// unlocks the /leads area). Open enumeration, same tolerance rules as RoleCode.
type PageAccess string

const (
	PageDashboard    PageAccess = "DASHBOARD"
	PageLead         PageAccess = "LEAD"
	PageDeal         PageAccess = "DEAL"
	PageOrganization PageAccess = "ORGANIZATION"
	PageProduct      PageAccess = "PRODUCT"
	PageCampaign     PageAccess = "CAMPAIGN"
	PageReport       PageAccess = "REPORT"
)

// Role is a named permission bundle held within a specific company.
type Role struct {
	ID        string   `json:"roleId"`
	Code      RoleCode `json:"roleCode"`
	IsPrimary bool     `json:"isPrimary"`
}

// Company is the tenant an identity operates within. Roles and page access are
// always company-scoped; authorization must never union grants across companies.
type Company struct {
	ID          string       `json:"companyId"`
	DisplayName string       `json:"displayName"`
	IsDefault   bool         `json:"isDefault"`
	IsPrimary   bool         `json:"isPrimary"`
	PageAccess  []PageAccess `json:"pageAccess"`
	Roles       []Role       `json:"roles"`
}

// Identity is the authenticated user independent of any company context.
// Immutable after credential exchange except for companies-list refresh.
//
// Zero companies is a valid state: the user is authenticated but has no scope.
// The route guard maps that to an unauthorized page, not to a login redirect.
type Identity struct {
	UserID    string    `json:"userId"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Companies []Company `json:"companies"`
}

// CompanyByID returns the company with the given id, if the identity holds it.
func (i Identity) CompanyByID(companyID string) (Company, bool) {
	for _, c := range i.Companies {
		if c.ID == companyID {
			return c, true
		}
	}
	return Company{}, false
}
