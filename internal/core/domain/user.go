package domain

import (
	"strings"
	"time"
)

const (
	RoleAdmin = "Administrator"
	RoleUser  = "User"
)

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Principal is the identity carried by a verified session token.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// PrincipalOf returns the token identity for u.
func PrincipalOf(u *User) Principal {
	return Principal{ID: u.ID, Email: u.Email, Role: u.Role}
}

// AvatarFor returns the one-letter avatar glyph for a display name.
func AvatarFor(name string) string {
	for _, r := range strings.TrimSpace(name) {
		return strings.ToUpper(string(r))
	}
	return ""
}
