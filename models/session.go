package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleGuest         Role = "guest"
	RolePropertyOwner Role = "property_owner"
	RoleAdmin         Role = "admin"
)

// ParseRole maps backend roles (USER, PROPERTY_OWNER, ADMIN) onto gateway roles.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin
	case "property_owner", "owner", "propertyowner":
		return RolePropertyOwner
	default:
		return RoleGuest
	}
}

// AuthSession is the per-browser authentication state.
type AuthSession struct {
	Authenticated bool      `json:"authenticated"`
	Email         string    `json:"email,omitempty"`
	Name          string    `json:"name,omitempty"`
	Role          Role      `json:"role"`
	Token         string    `json:"token,omitempty"`
	ExpiresAt     time.Time `json:"expiresAt,omitempty"`
}

// Expired reports whether the session carries an expiry that has passed.
func (s AuthSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// UserIdentity is what a successful login yields.
type UserIdentity struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// SessionView is the public projection of an AuthSession; it never carries the token.
type SessionView struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`
	Role          Role   `json:"role"`
}

func (s AuthSession) View() SessionView {
	return SessionView{
		Authenticated: s.Authenticated,
		Email:         s.Email,
		Name:          s.Name,
		Role:          s.Role,
	}
}
