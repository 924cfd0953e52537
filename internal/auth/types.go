package auth

import (
	"errors"
	"regexp"
	"time"
)

// namePattern defines the valid format for operator names:
// alphanumeric, dots, hyphens, underscores, 1-64 characters.
var namePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,64}$`)

// maxNameLength is the maximum allowed operator name length.
const maxNameLength = 64

// minPasswordLength is the minimum accepted password length at signup.
const minPasswordLength = 8

// IsValidName checks if an operator name meets format requirements.
// Names must be 1-64 characters, alphanumeric with dots, hyphens, underscores.
func IsValidName(name string) bool {
	return len(name) <= maxNameLength && namePattern.MatchString(name)
}

// IsValidPassword checks if a password meets the minimum length requirement.
func IsValidPassword(password string) bool {
	return len(password) >= minPasswordLength
}

// User represents an operator account.
//
// Accounts are immutable after signup except for the password hash, which is
// not exposed for change in the current API surface.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // never serialised
	CreatedAt    time.Time `json:"created_at"`
}

// Sentinel errors for auth operations.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrNameExists         = errors.New("name already exists")
	ErrTokenInvalid       = errors.New("invalid token")
)
