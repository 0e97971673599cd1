package models

import "github.com/google/uuid"

// Actor is the authenticated identity performing an operation. It is passed
// explicitly into every service call rather than carried as ambient state.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// IsAdmin reports whether the actor holds the Admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsManagerial reports whether the actor may create, reshape, and delete
// projects and tasks.
func (a Actor) IsManagerial() bool {
	return a.Role == RoleAdmin || a.Role == RoleManager
}

// IsEmployee reports whether the actor holds the Employee role.
func (a Actor) IsEmployee() bool {
	return a.Role == RoleEmployee
}
