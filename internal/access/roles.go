// Package access holds the static role registry, the module access table
// and the HTTP guards built on top of them.
package access

import (
	"fmt"
	"strings"
)

// Role is one of the nine fixed user classes.
type Role string

const (
	RoleSuperAdmin       Role = "super_admin"
	RoleSchoolAdmin      Role = "school_admin"
	RoleTeacher          Role = "teacher"
	RoleStudent          Role = "student"
	RoleParent           Role = "parent"
	RoleAccountant       Role = "accountant"
	RoleLibrarian        Role = "librarian"
	RoleReceptionist     Role = "receptionist"
	RoleTransportManager Role = "transport_manager"
)

// AllRoles lists every known role.
var AllRoles = []Role{
	RoleSuperAdmin,
	RoleSchoolAdmin,
	RoleTeacher,
	RoleStudent,
	RoleParent,
	RoleAccountant,
	RoleLibrarian,
	RoleReceptionist,
	RoleTransportManager,
}

// ParseRole converts a raw string into a Role. Unknown strings are
// rejected, never silently trusted.
func ParseRole(raw string) (Role, error) {
	candidate := Role(strings.ToLower(strings.TrimSpace(raw)))
	for _, r := range AllRoles {
		if candidate == r {
			return r, nil
		}
	}
	return "", fmt.Errorf("access: unknown role %q", raw)
}

// Valid reports whether the role is part of the fixed enumeration.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}
