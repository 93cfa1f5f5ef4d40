package models

import (
	"time"
)

type User struct {
	ID                  int64
	Name                string
	Email               string
	PasswordHash        string // never serialized to API responses
	IsAdmin             bool
	ResetToken          *string    // nil unless a password reset is pending
	ResetTokenExpiresAt *time.Time // set together with ResetToken, cleared together
	CreatedAt           time.Time
}
