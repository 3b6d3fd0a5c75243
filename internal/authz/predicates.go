package authz

import (
	"strings"

	"market-access-platform/internal/identity"
)

// Predicates over the current company's roles and page access. All functions
// are pure: they take their inputs explicitly (roles, page access, table) and
// read no hidden state, which is what keeps them independently testable.
//
// Empty role sets always evaluate to false. Unknown role codes and page-access
// tags simply never match; they are not errors.

// HasRole reports whether any held role carries one of the required codes.
func HasRole(roles []identity.Role, required ...identity.RoleCode) bool {
	if len(roles) == 0 || len(required) == 0 {
		return false
	}
	set := make(map[identity.RoleCode]struct{}, len(required))
	for _, code := range required {
		set[code] = struct{}{}
	}
	for _, r := range roles {
		if _, ok := set[r.Code]; ok {
			return true
		}
	}
	return false
}

// HasAnyRole is HasRole with explicit OR naming.
func HasAnyRole(roles []identity.Role, required ...identity.RoleCode) bool {
	return HasRole(roles, required...)
}

// HasAllRoles reports whether every required code is held (AND semantics).
func HasAllRoles(roles []identity.Role, required ...identity.RoleCode) bool {
	if len(roles) == 0 || len(required) == 0 {
		return false
	}
	held := make(map[identity.RoleCode]struct{}, len(roles))
	for _, r := range roles {
		held[r.Code] = struct{}{}
	}
	for _, code := range required {
		if _, ok := held[code]; !ok {
			return false
		}
	}
	return true
}

func IsSuperAdmin(roles []identity.Role) bool {
	return HasRole(roles, identity.RoleSuperAdmin)
}

func IsAdmin(roles []identity.Role) bool {
	return HasRole(roles, identity.RoleAdmin)
}

// HasPageAccess reports whether the held tags intersect the required set.
func HasPageAccess(held []identity.PageAccess, required ...identity.PageAccess) bool {
	if len(held) == 0 || len(required) == 0 {
		return false
	}
	set := make(map[identity.PageAccess]struct{}, len(required))
	for _, p := range required {
		set[p] = struct{}{}
	}
	for _, p := range held {
		if _, ok := set[p]; ok {
			return true
		}
	}
	return false
}

// HasPermission reports whether the held roles grant the given action on the
// given feature.
//
// Evaluation order:
//  1. SUPER_ADMIN bypasses the table entirely (intentional, not a side effect
//     of a wildcard entry).
//  2. Per held role, the wildcard feature entry is consulted before the
//     specific feature entry.
//  3. Pure OR across roles; role order cannot change the result.
func HasPermission(t Table, roles []identity.Role, feature Feature, perm Permission) bool {
	if len(roles) == 0 {
		return false
	}
	if IsSuperAdmin(roles) {
		return true
	}
	for _, r := range roles {
		grants, ok := t.Grants[r.Code]
		if !ok {
			continue
		}
		if set, ok := grants[FeatureWildcard]; ok && set[perm] {
			return true
		}
		if set, ok := grants[feature]; ok && set[perm] {
			return true
		}
	}
	return false
}

// CanAccessRoute reports whether pathname falls under a route prefix unlocked
// by one of the held page-access tags. Matching is prefix-based with a path
// segment boundary: "/deals" matches "/deals" and "/deals/123", never "/dealsx".
func CanAccessRoute(t Table, held []identity.PageAccess, pathname string) bool {
	if len(held) == 0 || pathname == "" {
		return false
	}
	for _, tag := range held {
		for _, prefix := range t.Routes[tag] {
			if matchesRoutePrefix(pathname, prefix) {
				return true
			}
		}
	}
	return false
}

func matchesRoutePrefix(pathname, prefix string) bool {
	if prefix == "" || !strings.HasPrefix(pathname, prefix) {
		return false
	}
	if len(pathname) == len(prefix) {
		return true
	}
	return pathname[len(prefix)] == '/'
}
