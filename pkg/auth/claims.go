package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims accepted by the heartrisk API.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// HasAnyRole reports whether the claims include at least one of roles.
// An empty roles list admits every authenticated caller.
func (c Claims) HasAnyRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if c.HasRole(r) {
			return true
		}
	}
	return false
}

// Role constants
const (
	// RoleClinician may submit patients for scoring and read results.
	RoleClinician = "clinician"
	// RoleAuditor may only read stored predictions.
	RoleAuditor = "auditor"
)
