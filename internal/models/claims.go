package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the authenticated-caller identity handed to the ledger by
// the HTTP layer's JWT middleware.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// IsAdmin reports whether the caller may use moderation endpoints.
func (c *UserClaims) IsAdmin() bool {
	return c.Role == "admin"
}
