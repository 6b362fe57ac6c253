package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are the claims of the signed session cookie
type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
	Email     string `json:"email"`
}
