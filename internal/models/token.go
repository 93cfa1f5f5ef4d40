package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are the JWT claims carried by a session token.
type SessionClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}
