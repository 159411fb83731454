package domain

import "time"

// Role is the closed set of actor kinds. Dashboard selection and action
// authorization dispatch on it exhaustively, never on raw strings.
type Role string

const (
	RoleClient  Role = "client"
	RoleManager Role = "manager"
)

// ParseRole converts a wire value into a Role, reporting whether it is known.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleClient, RoleManager:
		return Role(s), true
	}
	return "", false
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleManager
}

// HomePath returns the role-scoped entry point used after login and by
// role-mismatch redirects.
func (r Role) HomePath() string {
	switch r {
	case RoleManager:
		return "/manager"
	default:
		return "/client"
	}
}

// User models a registered actor. Profile fields are set at registration and
// immutable afterwards. The role is serialized as "user_type" for
// compatibility with the existing front-end.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Username     string    `json:"username" bson:"username"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         Role      `json:"user_type" bson:"role"`
	FirstName    string    `json:"first_name" bson:"first_name"`
	LastName     string    `json:"last_name" bson:"last_name"`
	Patronymic   string    `json:"patronymic,omitempty" bson:"patronymic,omitempty"`
	CompanyName  string    `json:"company_name,omitempty" bson:"company_name,omitempty"`
	PhoneNumber  string    `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	Address      string    `json:"address,omitempty" bson:"address,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// Session is a server-side login record. The token handed to clients is
// opaque; it resolves to a Session only while the session lives, which is
// what makes logout an actual revocation.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
