// Package auth provides JWT-based authentication for ofistakip-engine.
// The service is its own token issuer: HS256 tokens signed with a shared
// secret, carrying the user's id, email, and role.
package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims structure for access tokens.
// It embeds RegisteredClaims for standard JWT fields (sub, exp, iat)
// and adds custom claims for the user's identity.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}
