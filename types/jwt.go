package types

import "github.com/golang-jwt/jwt/v5"

// Claims carries the authenticated identity inside a signed token. Role is
// included so handlers never trust a role supplied in a request body.
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
