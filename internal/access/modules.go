package access

// Module is a named feature area of the application gated by role.
type Module struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Path  string `json:"path"`
	Roles []Role `json:"roles"`
}

// registry is the build-time module access table. Access is a pure
// function of (module, role); there are no per-user overrides.
var registry = []Module{
	{
		Key:   "dashboard",
		Name:  "Dashboard",
		Path:  "/dashboard",
		Roles: AllRoles,
	},
	{
		Key:   "students",
		Name:  "Student Management",
		Path:  "/students",
		Roles: []Role{RoleSuperAdmin, RoleSchoolAdmin, RoleTeacher, RoleReceptionist},
	},
	{
		Key:   "staff",
		Name:  "Staff Management",
		Path:  "/staff",
		Roles: []Role{RoleSuperAdmin, RoleSchoolAdmin},
	},
	{
		Key:   "attendance",
		Name:  "Attendance",
		Path:  "/attendance",
		Roles: []Role{RoleSuperAdmin, RoleSchoolAdmin, RoleTeacher},
	},
	{
		Key:   "academics",
		Name:  "Academics",
		Path:  "/academics",
		Roles: []Role{RoleSuperAdmin, RoleSchoolAdmin, RoleTeacher, RoleStudent, RoleParent},
	},
	{
		Key:   "admissions",
		Name:  "Admissions",
		Path:  "/admissions",
		Roles: []Role{RoleSuperAdmin, RoleSchoolAdmin, RoleReceptionist},
	},
	{
		Key:   "fees",
		Name:  "Fees & Billing",
		Path:  "/fees",
		Roles: []Role{RoleSuperAdmin, RoleSchoolAdmin, RoleAccountant, RoleParent},
	},
	{
		Key:   "library",
		Name:  "Library Management",
		Path:  "/library",
		Roles: []Role{RoleSuperAdmin, RoleSchoolAdmin, RoleLibrarian, RoleTeacher, RoleStudent},
	},
	{
		Key:   "frontoffice",
		Name:  "Front Office",
		Path:  "/frontoffice",
		Roles: []Role{RoleSuperAdmin, RoleSchoolAdmin, RoleReceptionist},
	},
	{
		Key:   "transport",
		Name:  "Transport",
		Path:  "/transport",
		Roles: []Role{RoleSuperAdmin, RoleSchoolAdmin, RoleTransportManager, RoleParent},
	},
	{
		Key:   "settings",
		Name:  "School Settings",
		Path:  "/settings",
		Roles: []Role{RoleSuperAdmin, RoleSchoolAdmin},
	},
	{
		Key:   "users",
		Name:  "User Administration",
		Path:  "/users",
		Roles: []Role{RoleSuperAdmin, RoleSchoolAdmin},
	},
}

// Modules returns a copy of the full module registry.
func Modules() []Module {
	out := make([]Module, len(registry))
	copy(out, registry)
	return out
}

// FindModule looks a module up by key.
func FindModule(key string) (Module, bool) {
	for _, m := range registry {
		if m.Key == key {
			return m, true
		}
	}
	return Module{}, false
}

// HasModuleAccess reports whether role is on the module's allow-list.
// Unknown modules or roles answer false.
func HasModuleAccess(moduleKey string, role Role) bool {
	m, ok := FindModule(moduleKey)
	if !ok {
		return false
	}
	for _, r := range m.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AccessibleModules returns every module whose allow-list contains role.
func AccessibleModules(role Role) []Module {
	var out []Module
	for _, m := range registry {
		if HasModuleAccess(m.Key, role) {
			out = append(out, m)
		}
	}
	return out
}
