package domain

// Role of the caller as resolved by the identity provider
type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// Actor is the authenticated caller
type Actor struct {
	UserID int64
	Role   Role
}

// IsAdmin returns true for salon administrators
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// ParseRole converts a header value into a Role, defaulting to client
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleClient
}
