package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoleRejectsUnknown(t *testing.T) {
	for _, role := range AllRoles {
		parsed, err := ParseRole(string(role))
		require.NoError(t, err)
		assert.Equal(t, role, parsed)
	}

	for _, raw := range []string{"", "admin", "root", "head_master"} {
		_, err := ParseRole(raw)
		assert.Error(t, err, "role %q must not parse", raw)
	}

	// Normalization is tolerant of case and padding.
	parsed, err := ParseRole("  SUPER_ADMIN ")
	require.NoError(t, err)
	assert.Equal(t, RoleSuperAdmin, parsed)
}

func TestSuperAdminAccessesEveryModule(t *testing.T) {
	for _, m := range Modules() {
		assert.True(t, HasModuleAccess(m.Key, RoleSuperAdmin), "module %s", m.Key)
	}
}

func TestModuleAccessIsDeterministic(t *testing.T) {
	cases := []struct {
		module  string
		role    Role
		allowed bool
	}{
		{"dashboard", RoleStudent, true},
		{"dashboard", RoleParent, true},
		{"students", RoleTeacher, true},
		{"students", RoleStudent, false},
		{"students", RoleReceptionist, true},
		{"staff", RoleTeacher, false},
		{"staff", RoleSchoolAdmin, true},
		{"attendance", RoleTeacher, true},
		{"attendance", RoleParent, false},
		{"fees", RoleAccountant, true},
		{"fees", RoleLibrarian, false},
		{"library", RoleLibrarian, true},
		{"transport", RoleTransportManager, true},
		{"transport", RoleTeacher, false},
		{"users", RoleSchoolAdmin, true},
		{"users", RoleTeacher, false},
		{"settings", RoleReceptionist, false},
	}
	for _, tc := range cases {
		got := HasModuleAccess(tc.module, tc.role)
		assert.Equal(t, tc.allowed, got, "module=%s role=%s", tc.module, tc.role)
	}
}

func TestUnknownModuleOrRoleDeniesAccess(t *testing.T) {
	assert.False(t, HasModuleAccess("payroll", RoleSuperAdmin))
	assert.False(t, HasModuleAccess("students", Role("intruder")))

	_, ok := FindModule("payroll")
	assert.False(t, ok)
}

func TestAccessibleModulesMatchesTable(t *testing.T) {
	for _, role := range AllRoles {
		accessible := AccessibleModules(role)
		seen := make(map[string]bool, len(accessible))
		for _, m := range accessible {
			seen[m.Key] = true
		}
		for _, m := range Modules() {
			assert.Equal(t, HasModuleAccess(m.Key, role), seen[m.Key],
				"module=%s role=%s", m.Key, role)
		}
	}
}
