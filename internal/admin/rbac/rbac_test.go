package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCapability(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		roles      []string
		capability Capability
		want       bool
	}{
		{name: "admin can list", roles: []string{"admin"}, capability: CapOrdersList, want: true},
		{name: "support can list", roles: []string{"support"}, capability: CapOrdersList, want: true},
		{name: "support cannot review", roles: []string{"support"}, capability: CapOrdersReview, want: false},
		{name: "ops cannot review", roles: []string{"ops"}, capability: CapOrdersReview, want: false},
		{name: "admin can review", roles: []string{"admin"}, capability: CapOrdersReview, want: true},
		{name: "ops can update status", roles: []string{"ops"}, capability: CapOrdersStatus, want: true},
		{name: "support cannot refresh", roles: []string{"support"}, capability: CapSyncRefresh, want: false},
		{name: "support can read production status", roles: []string{"support"}, capability: CapProductionStatus, want: true},
		{name: "mixed roles use the strongest", roles: []string{"support", "admin"}, capability: CapOrdersReview, want: true},
		{name: "case and whitespace normalised", roles: []string{" Admin "}, capability: CapOrdersReview, want: true},
		{name: "no roles", roles: nil, capability: CapOrdersList, want: false},
		{name: "unknown role", roles: []string{"viewer"}, capability: CapOrdersList, want: false},
		{name: "unknown capability denied for admins", roles: []string{"admin"}, capability: Capability("orders.delete"), want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, HasCapability(tc.roles, tc.capability))
		})
	}
}

func TestNormaliseRoles(t *testing.T) {
	t.Parallel()

	roles := NormaliseRoles([]string{"Admin", "ops", "ADMIN", "", "  "})
	assert.Equal(t, Roles{RoleAdmin, RoleOps}, roles)
	assert.Nil(t, NormaliseRoles(nil))
}

func TestRolesIntersects(t *testing.T) {
	t.Parallel()

	set := Roles{RoleAdmin, RoleOps}
	assert.True(t, set.Intersects(Roles{RoleOps}))
	assert.False(t, set.Intersects(Roles{RoleSupport}))
	assert.False(t, set.Intersects(nil))
}

func TestHasAnyRole(t *testing.T) {
	t.Parallel()

	assert.True(t, HasAnyRole([]string{"support"}, Roles{RoleAdmin, RoleSupport}))
	assert.False(t, HasAnyRole([]string{"support"}, Roles{RoleAdmin}))
}
