package domain

import "github.com/google/uuid"

// Role is the platform role of the caller, resolved by the auth gateway.
type Role string

const (
	RoleInfluencer Role = "influencer"
	RoleBrand      Role = "brand"
	RoleAdmin      Role = "admin"
)

// Actor identifies who is calling a use case. A zero UserID means the
// request is unauthenticated.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

// Authenticated reports whether the actor carries an identity.
func (a Actor) Authenticated() bool {
	return a.UserID != uuid.Nil
}
