// Package models contains domain types for ofistakip-engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account in the system.
type User struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Surname   string     `json:"surname"`
	Email     string     `json:"email"`
	Password  string     `json:"-"` // bcrypt hash, never serialized
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Role constants.
const (
	RoleAdmin    = "Admin"
	RoleManager  = "Manager"
	RoleEmployee = "Employee"
)

// User status constants.
const (
	UserStatusActive   = "Aktif"
	UserStatusInactive = "Pasif"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleAdmin, RoleManager, RoleEmployee}

// ValidUserStatuses contains all valid user status values.
var ValidUserStatuses = []string{UserStatusActive, UserStatusInactive}

// IsValidRole checks if the given role is valid.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsValidUserStatus checks if the given user status is valid.
func IsValidUserStatus(status string) bool {
	for _, s := range ValidUserStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsActiveEmployee reports whether the user can be assigned work.
func (u *User) IsActiveEmployee() bool {
	return u.Role == RoleEmployee && u.Status == UserStatusActive
}
