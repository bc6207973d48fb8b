// Package rbac maps staff roles onto the console's capabilities.
package rbac

import (
	"strings"
)

// Role represents a staff access tier.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleOps     Role = "ops"
	RoleSupport Role = "support"
)

// Capability represents a discrete console action which can be checked in handlers.
type Capability string

const (
	CapOrdersList       Capability = "orders.list"
	CapOrdersReview     Capability = "orders.review"
	CapOrdersStatus     Capability = "orders.status"
	CapProductionStatus Capability = "production.status"
	CapSyncRefresh      Capability = "sync.refresh"
)

// capabilityRoles maps each capability to the roles permitted to use it.
// Support staff can look but not touch.
var capabilityRoles = map[Capability]Roles{
	CapOrdersList:       {RoleAdmin, RoleOps, RoleSupport},
	CapOrdersReview:     {RoleAdmin},
	CapOrdersStatus:     {RoleAdmin, RoleOps},
	CapProductionStatus: {RoleAdmin, RoleOps, RoleSupport},
	CapSyncRefresh:      {RoleAdmin, RoleOps},
}

// Roles captures a list of roles and exposes intersection checks.
type Roles []Role

// Has returns true if the provided role exists in the set.
func (rs Roles) Has(role Role) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

// Intersects returns true if any role in the candidate slice is also present in the set.
func (rs Roles) Intersects(candidate Roles) bool {
	for _, role := range candidate {
		if rs.Has(role) {
			return true
		}
	}
	return false
}

// NormaliseRoles converts raw role strings into canonical Role values.
func NormaliseRoles(raw []string) Roles {
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[Role]struct{}, len(raw))
	roles := make(Roles, 0, len(raw))
	for _, val := range raw {
		role := Role(strings.ToLower(strings.TrimSpace(val)))
		if role == "" {
			continue
		}
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		roles = append(roles, role)
	}
	return roles
}

// RolesForCapability returns the configured roles able to use the capability.
func RolesForCapability(capability Capability) Roles {
	if roles, ok := capabilityRoles[capability]; ok {
		return roles
	}
	return nil
}

// HasCapability reports whether any of the user's roles grants the capability.
// Unknown capabilities are denied for everyone, admins included.
func HasCapability(userRoles []string, capability Capability) bool {
	allowed := RolesForCapability(capability)
	if len(allowed) == 0 {
		return false
	}
	return allowed.Intersects(NormaliseRoles(userRoles))
}

// HasAnyRole reports whether the user holds at least one of the required roles.
func HasAnyRole(userRoles []string, required Roles) bool {
	return NormaliseRoles(userRoles).Intersects(required)
}
