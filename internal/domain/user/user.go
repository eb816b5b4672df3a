package user

import (
	"fmt"
	"strings"
	"time"
)

// User is an admin console user.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Role controls what the console lets a user do.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

// Status represents user status.
type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleViewer
}

// New creates a user with validation. The password hash is set separately by
// the auth service.
func New(email, displayName string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("valid email is required")
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = email[:strings.IndexByte(email, '@')]
	}
	if !ValidRole(role) {
		return nil, fmt.Errorf("unknown role: %s", role)
	}
	return &User{
		Email:       email,
		DisplayName: displayName,
		Role:        role,
		Status:      StatusActive,
	}, nil
}

// CanWrite reports whether the user may mutate gateway state.
func (u *User) CanWrite() bool {
	return u.Role == RoleAdmin && u.Status == StatusActive
}
