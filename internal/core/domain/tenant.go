package domain

import "strings"

// TenantRole defines what an actor may do inside a tenant's books.
type TenantRole string

const (
	RoleAdmin      TenantRole = "ADMIN"
	RoleAccountant TenantRole = "ACCOUNTANT" // may post, void and reverse
	RoleClerk      TenantRole = "CLERK"      // may prepare drafts
	RoleReadOnly   TenantRole = "READONLY"
	RoleSystem     TenantRole = "SYSTEM" // event-driven callers such as the event consumer
)

var roleRank = map[TenantRole]int{
	RoleReadOnly:   1,
	RoleClerk:      2,
	RoleSystem:     2,
	RoleAccountant: 3,
	RoleAdmin:      4,
}

// Satisfies reports whether r grants at least the permissions of required.
func (r TenantRole) Satisfies(required TenantRole) bool {
	return roleRank[r] >= roleRank[required] && roleRank[r] > 0
}

// ParseTenantRole normalises a role claim. Unknown values map to READONLY.
func ParseTenantRole(s string) TenantRole {
	role := TenantRole(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := roleRank[role]; !ok {
		return RoleReadOnly
	}
	return role
}

// LedgerContext is the explicit tenant/actor scope threaded through every
// ledger call. It is built once at the boundary (HTTP, consumer, batch job).
type LedgerContext struct {
	TenantID string
	ActorID  string
	Role     TenantRole
}

// Valid reports whether the context identifies both a tenant and an actor.
func (lc LedgerContext) Valid() bool {
	return strings.TrimSpace(lc.TenantID) != "" && strings.TrimSpace(lc.ActorID) != ""
}
