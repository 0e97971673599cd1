package models

import (
	"time"

	"github.com/google/uuid"
)

// Project groups tasks under a shared deadline. Progress and status are
// derived from the project's tasks; Beklemede is only ever set by an explicit
// Admin/Manager override, never by recomputation.
type Project struct {
	ID                uuid.UUID   `json:"id"`
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	Deadline          time.Time   `json:"deadline"`
	Progress          int         `json:"progress"`
	Status            string      `json:"status"`
	AssignedEmployees []uuid.UUID `json:"assignedEmployees"`
	CreatedBy         uuid.UUID   `json:"createdBy"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// Project status constants.
const (
	ProjectStatusActive    = "Aktif"
	ProjectStatusCompleted = "Tamamlandı"
	ProjectStatusOnHold    = "Beklemede"
)

// ValidProjectStatuses contains all valid project status values.
var ValidProjectStatuses = []string{ProjectStatusActive, ProjectStatusCompleted, ProjectStatusOnHold}

// IsValidProjectStatus checks if the given project status is valid.
func IsValidProjectStatus(status string) bool {
	for _, s := range ValidProjectStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// HasEmployee reports whether the given user is a member of the project.
func (p *Project) HasEmployee(userID uuid.UUID) bool {
	for _, id := range p.AssignedEmployees {
		if id == userID {
			return true
		}
	}
	return false
}
