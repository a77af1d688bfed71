package models

import (
	dErrors "cartegrise/pkg/domain-errors"
)

// Role is the single capability tag an address holds. Exactly one role per
// address at a time, last-write-wins; there is deliberately no guardrail
// against an Admin revoking their own last Admin role (preserved policy
// choice, flagged for the product owner rather than fixed silently).
type Role string

const (
	RoleNone               Role = "none"
	RoleAdmin              Role = "admin"
	RoleDealer             Role = "dealer"
	RoleInsurer            Role = "insurer"
	RoleTechnicalInspector Role = "technical_inspector"
)

// ParseRole validates a role string at the trust boundary.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleNone, RoleAdmin, RoleDealer, RoleInsurer, RoleTechnicalInspector:
		return Role(s), nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown role: "+s)
	}
}

// String returns the wire form of the role.
func (r Role) String() string {
	return string(r)
}

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	switch r {
	case RoleNone, RoleAdmin, RoleDealer, RoleInsurer, RoleTechnicalInspector:
		return true
	default:
		return false
	}
}

// CanMint reports whether the role may create new vehicle tokens. The switch
// is exhaustive on purpose: adding a role forces a decision here.
func (r Role) CanMint() bool {
	switch r {
	case RoleDealer:
		return true
	case RoleNone, RoleAdmin, RoleInsurer, RoleTechnicalInspector:
		return false
	default:
		return false
	}
}

// CanAdministerRoles reports whether the role may assign roles to others.
func (r Role) CanAdministerRoles() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleNone, RoleDealer, RoleInsurer, RoleTechnicalInspector:
		return false
	default:
		return false
	}
}
