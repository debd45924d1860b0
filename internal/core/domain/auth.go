package domain

// ActorTypeUser is the actor type carried by admin dashboard tokens
const ActorTypeUser = "user"

// AdminClaims are the claims extracted from an admin bearer token
type AdminClaims struct {
	ActorID   string `json:"actor_id"`
	ActorType string `json:"actor_type"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// IsAdmin reports whether the token belongs to an admin user
func (c *AdminClaims) IsAdmin() bool {
	return c != nil && c.ActorType == ActorTypeUser
}
