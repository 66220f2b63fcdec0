// Package domain defines the core domain models for the Plume client.
package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestUser_IsAdmin(t *testing.T) {
	tests := []struct {
		name string
		user *User
		want bool
	}{
		{"admin role", &User{ID: "u1", Role: "admin"}, true},
		{"regular user", &User{ID: "u2", Role: "user"}, false},
		{"empty role", &User{ID: "u3"}, false},
		{"case sensitive", &User{ID: "u4", Role: "Admin"}, false},
		{"nil user", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.IsAdmin(); got != tt.want {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@b.co", "reader@plume.app", "x.y+tag@example.org"}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("ValidateEmail(%q) = %v, want nil", email, err)
		}
	}

	invalid := []string{"", "no-at-sign", "@leading", "trailing@", "two words@x.y"}
	for _, email := range invalid {
		err := ValidateEmail(email)
		if err == nil {
			t.Errorf("ValidateEmail(%q) = nil, want error", email)
			continue
		}
		if !errors.Is(err, ErrValidation) {
			t.Errorf("ValidateEmail(%q) = %v, want validation error", email, err)
		}
	}
}

func TestValidateUsername(t *testing.T) {
	valid := []string{"bob", "quill_writer", "a-b-c", strings.Repeat("x", MaxUsernameLength)}
	for _, name := range valid {
		if err := ValidateUsername(name); err != nil {
			t.Errorf("ValidateUsername(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"ab", strings.Repeat("x", MaxUsernameLength+1), "with space", "émile"}
	for _, name := range invalid {
		if err := ValidateUsername(name); !errors.Is(err, ErrValidation) {
			t.Errorf("ValidateUsername(%q) = %v, want validation error", name, err)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("longenough"); err != nil {
		t.Errorf("ValidatePassword() = %v, want nil", err)
	}
	if err := ValidatePassword("short"); !errors.Is(err, ErrValidation) {
		t.Errorf("ValidatePassword(short) = %v, want validation error", err)
	}
	if err := ValidatePassword(strings.Repeat("p", MaxPasswordLength+1)); !errors.Is(err, ErrValidation) {
		t.Errorf("ValidatePassword(too long) = %v, want validation error", err)
	}
}
