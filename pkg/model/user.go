package model

import "fmt"

// Role identifies what kind of account a user holds on the platform.
type Role string

const (
	// RoleAdmin manages curriculum and platform settings.
	RoleAdmin Role = "admin"
	// RoleTeacher runs classes and can pair with students.
	RoleTeacher Role = "teacher"
	// RoleParent follows a student's progress and can pair with them.
	RoleParent Role = "parent"
	// RoleStudent logs in with a name and access code.
	RoleStudent Role = "student"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RoleTeacher, RoleParent, RoleStudent}

// ParseRole converts a string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q (want admin, teacher, parent or student)", s)
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleParent, RoleStudent:
		return true
	}
	return false
}

// UsesAccessCode reports whether the role signs in with name + access code
// instead of email + password.
func (r Role) UsesAccessCode() bool {
	return r == RoleStudent
}

// User is the authenticated account as returned by the backend.
type User struct {
	ID    string `json:"id"`
	Role  Role   `json:"role"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasRole reports whether the user's role is in roles.
func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
