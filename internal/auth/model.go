// Package auth is the authentication core of Gatehouse: credential
// extraction and decoding, strategy-based principal resolution, server-side
// session lifecycle, and password reset tokens. Everything else in the
// application is routing glue around this package.
package auth

import (
	"time"
)

// User represents a registered account. This is the domain model used
// throughout the application. Database scanning and JSON marshaling use
// this struct directly.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON responses.
	SessionID    *string   `json:"-"` // Set only by the database session backend.
	ResetToken   *string   `json:"-"` // At most one live reset token per user.
	CreatedAt    time.Time `json:"created_at"`
}

// --- Request DTOs (bound from HTTP form submissions) ---

// RegisterRequest holds the data submitted to POST /users.
type RegisterRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginRequest holds the data submitted to POST /sessions.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// UpdatePasswordRequest holds the data submitted to PUT /reset_password.
type UpdatePasswordRequest struct {
	Email       string `json:"email" form:"email"`
	ResetToken  string `json:"reset_token" form:"reset_token"`
	NewPassword string `json:"new_password" form:"new_password"`
}
