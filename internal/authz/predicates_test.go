package authz

import (
	"testing"

	"market-access-platform/internal/identity"
)

func roles(codes ...identity.RoleCode) []identity.Role {
	out := make([]identity.Role, 0, len(codes))
	for _, c := range codes {
		out = append(out, identity.Role{Code: c})
	}
	return out
}

func TestEmptyRoleSetMatchesNothing(t *testing.T) {
	table := DefaultTable()
	var none []identity.Role

	if HasRole(none, identity.RoleAdmin) {
		t.Fatalf("HasRole on empty roles must be false")
	}
	if HasAllRoles(none, identity.RoleAdmin) {
		t.Fatalf("HasAllRoles on empty roles must be false")
	}
	if IsAdmin(none) || IsSuperAdmin(none) {
		t.Fatalf("admin checks on empty roles must be false")
	}
	if HasPermission(table, none, FeatureLead, PermRead) {
		t.Fatalf("HasPermission on empty roles must be false")
	}
}

func TestHasRoleSemantics(t *testing.T) {
	held := roles(identity.RoleManager, identity.RoleUser)

	if !HasAnyRole(held, identity.RoleAdmin, identity.RoleManager) {
		t.Fatalf("expected OR match")
	}
	if HasAnyRole(held, identity.RoleAdmin) {
		t.Fatalf("expected no match")
	}
	if !HasAllRoles(held, identity.RoleManager, identity.RoleUser) {
		t.Fatalf("expected AND match")
	}
	if HasAllRoles(held, identity.RoleManager, identity.RoleAdmin) {
		t.Fatalf("expected AND miss")
	}
}

func TestUnknownRoleCodesSimplyDoNotMatch(t *testing.T) {
	table := DefaultTable()
	held := roles(identity.RoleCode("REGIONAL_LIAISON"))

	if HasRole(held, identity.RoleAdmin) {
		t.Fatalf("unknown code must not match a known one")
	}
	if !HasRole(held, identity.RoleCode("REGIONAL_LIAISON")) {
		t.Fatalf("unknown codes still compare by equality")
	}
	if HasPermission(table, held, FeatureLead, PermRead) {
		t.Fatalf("role without a table entry grants nothing")
	}
}

func TestSuperAdminBypassesCapabilityTable(t *testing.T) {
	table := DefaultTable()
	held := roles(identity.RoleSuperAdmin)

	// Any feature, any permission, including names the table has never seen.
	if !HasPermission(table, held, Feature("made-up"), Permission("obliterate")) {
		t.Fatalf("super admin must bypass the table entirely")
	}
	if !HasPermission(table, roles(identity.RoleUser, identity.RoleSuperAdmin), FeatureLead, PermDelete) {
		t.Fatalf("bypass applies regardless of the other held roles")
	}
}

func TestHasPermissionWildcardBeforeSpecific(t *testing.T) {
	table := DefaultTable()

	// ADMIN only has a wildcard entry; it must still grant specific features.
	if !HasPermission(table, roles(identity.RoleAdmin), FeatureCampaign, PermDelete) {
		t.Fatalf("wildcard grant must cover specific features")
	}

	// MANAGER has specific entries only.
	if !HasPermission(table, roles(identity.RoleManager), FeatureLead, PermUpdate) {
		t.Fatalf("expected specific grant")
	}
	if HasPermission(table, roles(identity.RoleManager), FeatureLead, PermDelete) {
		t.Fatalf("manager cannot delete leads")
	}
	if HasPermission(table, roles(identity.RoleManager), FeatureUser, PermRead) {
		t.Fatalf("manager has no user-management grant")
	}
}

func TestHasPermissionIsOrderIndependentOr(t *testing.T) {
	table := DefaultTable()
	a := roles(identity.RoleUser, identity.RoleManager)
	b := roles(identity.RoleManager, identity.RoleUser)

	for _, held := range [][]identity.Role{a, b} {
		if !HasPermission(table, held, FeatureDeal, PermUpdate) {
			t.Fatalf("any matching role suffices regardless of order")
		}
	}
}

func TestHasPageAccessIntersection(t *testing.T) {
	held := []identity.PageAccess{identity.PageLead, identity.PageDashboard}

	if !HasPageAccess(held, identity.PageLead) {
		t.Fatalf("expected match")
	}
	if !HasPageAccess(held, identity.PageProduct, identity.PageDashboard) {
		t.Fatalf("expected non-empty intersection")
	}
	if HasPageAccess(held, identity.PageProduct) {
		t.Fatalf("expected no match")
	}
	if HasPageAccess(nil, identity.PageLead) {
		t.Fatalf("empty held set matches nothing")
	}
}

func TestCanAccessRouteSegmentBoundary(t *testing.T) {
	table := DefaultTable()
	held := []identity.PageAccess{identity.PageDeal}

	if !CanAccessRoute(table, held, "/deals") {
		t.Fatalf("exact prefix must match")
	}
	if !CanAccessRoute(table, held, "/deals/123") {
		t.Fatalf("child path must match")
	}
	if CanAccessRoute(table, held, "/dealsx") {
		t.Fatalf("prefix match must stop at a segment boundary")
	}
	if CanAccessRoute(table, held, "/products") {
		t.Fatalf("unheld area must not match")
	}
	if CanAccessRoute(table, nil, "/deals") {
		t.Fatalf("no page access means no routes")
	}
}

func TestCompanyScopedAccessScenario(t *testing.T) {
	table := DefaultTable()
	companyA := []identity.PageAccess{identity.PageLead}
	companyB := []identity.PageAccess{identity.PageProduct}

	if !CanAccessRoute(table, companyA, "/leads/123") {
		t.Fatalf("company A reaches leads")
	}
	if CanAccessRoute(table, companyA, "/products") {
		t.Fatalf("company A must not reach products")
	}
	if !CanAccessRoute(table, companyB, "/products") {
		t.Fatalf("company B reaches products")
	}
	if CanAccessRoute(table, companyB, "/leads") {
		t.Fatalf("company B must not reach leads")
	}
}
