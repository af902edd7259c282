package domain

import (
	"strings"
	"time"
)

// Role is the fixed department of an actor. Roles form a closed set with no
// hierarchy; an actor holds exactly one.
type Role string

const (
	RoleSales      Role = "sales"
	RoleSupport    Role = "support"
	RoleManagement Role = "management"
)

// Roles lists every role in a stable order.
func Roles() []Role {
	return []Role{RoleManagement, RoleSales, RoleSupport}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSales, RoleSupport, RoleManagement:
		return true
	}
	return false
}

// ParseRole accepts the role name case-insensitively.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Actor models an internal user of the CRM.
type Actor struct {
	ID           string    `json:"id" bson:"_id"`
	Username     string    `json:"username" bson:"username" validate:"required,min=3,max=50,alphanum"`
	Email        string    `json:"email" bson:"email" validate:"required,email"`
	DisplayName  string    `json:"display_name" bson:"display_name" validate:"required,max=100"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         Role      `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// Principal is the verified identity carried by a session token.
type Principal struct {
	ActorID string
	Role    Role
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ActorID   string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Principal returns the identity the session asserts.
func (s Session) Principal() Principal {
	return Principal{ActorID: s.ActorID, Role: s.Role}
}
