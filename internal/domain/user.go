package domain

import "time"

// User is a stored account. PasswordHash is empty for accounts provisioned
// through an external provider; such accounts cannot log in with a password.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"` // persisted, never returned by the API
	Name         string    `json:"name,omitempty"`
	Picture      string    `json:"picture,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SignupResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// LoginRequest mirrors SignupRequest's password floor: the login path
// provisions unknown emails, so a weak password must not slip in through it.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}
