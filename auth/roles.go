package auth

import "fmt"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
)

// ParseRole accepts only the closed set of staff roles.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleManager:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// RoleSet is the set of roles allowed through a gate.
type RoleSet map[Role]struct{}

func Roles(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

var (
	Staff     = Roles(RoleAdmin, RoleManager)
	AdminOnly = Roles(RoleAdmin)
)

func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

// Authorize reports whether the identity's role is in the allowed set.
func Authorize(id Identity, allowed RoleSet) bool {
	return id.Role.Valid() && allowed.Has(id.Role)
}
