package models

// Role identifies who an account belongs to and what it may do.
type Role string

const (
	RoleAdmin         Role = "ADMIN"
	RoleHOD           Role = "HOD"
	RolePrincipal     Role = "PRINCIPAL"
	RoleVicePrincipal Role = "VICE_PRINCIPAL"
	RoleStudent       Role = "STUDENT"
)

// IsStaff reports whether the role logs in with a username or email and password.
func (r Role) IsStaff() bool {
	switch r {
	case RoleAdmin, RoleHOD, RolePrincipal, RoleVicePrincipal:
		return true
	}
	return false
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleStudent || r.IsStaff()
}

// ParseRole maps the lower-case route names used by the web client
// ("hod", "vice-principal") onto roles.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "admin", "ADMIN":
		return RoleAdmin, true
	case "hod", "HOD":
		return RoleHOD, true
	case "principal", "PRINCIPAL":
		return RolePrincipal, true
	case "vice-principal", "vicePrincipal", "VICE_PRINCIPAL":
		return RoleVicePrincipal, true
	case "student", "STUDENT":
		return RoleStudent, true
	}
	return "", false
}
