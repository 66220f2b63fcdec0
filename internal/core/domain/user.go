// Package domain defines the core domain models for the Plume client.
package domain

import (
	"strings"
)

// Input constraints enforced client-side before any network call.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 32
	MinPasswordLength = 8
	MaxPasswordLength = 128

	// RoleAdmin is the role value that grants access to the admin surface.
	RoleAdmin = "admin"

	// RoleUser is the default role for new accounts.
	RoleUser = "user"
)

// User is the authenticated account record as returned by the Plume API.
type User struct {
	// ID is the unique account identifier.
	ID string `json:"id"`

	// Email is the account email address.
	Email string `json:"email"`

	// Username is the public handle shown on posts and comments.
	Username string `json:"username"`

	// AvatarURL points at the account's avatar image, may be empty.
	AvatarURL string `json:"avatar_url"`

	// Role is an opaque role string assigned by the server.
	Role string `json:"role"`
}

// IsAdmin reports whether the user's role grants admin access.
// The role string is otherwise opaque to the client.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// ValidateEmail checks that an email address is plausible enough to send
// to the server. Full address validation is the server's job.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrValidation.WithDetails("email is required")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return ErrValidation.WithDetails("email address is malformed")
	}
	if strings.ContainsAny(email, " \t\n") {
		return ErrValidation.WithDetails("email must not contain whitespace")
	}
	return nil
}

// ValidateUsername checks the username against the client-side constraints.
func ValidateUsername(username string) error {
	if l := len(username); l < MinUsernameLength || l > MaxUsernameLength {
		return ErrValidation.WithDetails("username must be between 3 and 32 characters")
	}
	for _, r := range username {
		if !isUsernameRune(r) {
			return ErrValidation.WithDetails("username may only contain letters, digits, '-' and '_'")
		}
	}
	return nil
}

// ValidatePassword checks the password length constraints.
// The password value itself is never inspected beyond its length.
func ValidatePassword(password string) error {
	if l := len(password); l < MinPasswordLength || l > MaxPasswordLength {
		return ErrValidation.WithDetails("password must be between 8 and 128 characters")
	}
	return nil
}

func isUsernameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_':
		return true
	}
	return false
}
