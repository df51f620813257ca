package domain

import (
	"fmt"
	"time"
)

// Role is the role claim carried by principals and tokens.
type Role string

const (
	RoleStudent    Role = "student"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// ParseRole maps a raw claim value onto a known Role.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleStudent, RoleAdmin, RoleSuperAdmin:
		return Role(raw), nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// Class returns the principal class a role belongs to.
func (r Role) Class() PrincipalClass {
	if r == RoleStudent {
		return PrincipalStudent
	}
	return PrincipalAdmin
}

// PrincipalClass differentiates the student and admin credential stores.
type PrincipalClass string

const (
	PrincipalStudent PrincipalClass = "student"
	PrincipalAdmin   PrincipalClass = "admin"
)

// Claims is the verified content of a bearer token.
type Claims struct {
	Subject   string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
