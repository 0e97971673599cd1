package models

import (
	"time"

	"github.com/google/uuid"
)

// Task is a unit of work inside a project, assigned to one or more active
// employees who are members of the owning project.
type Task struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	ProjectID   uuid.UUID   `json:"project"`
	AssignedTo  []uuid.UUID `json:"assignedTo"`
	AssignedBy  uuid.UUID   `json:"assignedBy"`
	Priority    string      `json:"priority"`
	Status      string      `json:"status"`
	Progress    int         `json:"progress"`
	Deadline    time.Time   `json:"deadline"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Task priority constants.
const (
	PriorityLow    = "Düşük"
	PriorityMedium = "Orta"
	PriorityHigh   = "Yüksek"
)

// Task status constants. Status is informational: any assignee or manager may
// set any value directly, including reopening a completed task.
const (
	TaskStatusPending    = "Bekliyor"
	TaskStatusInProgress = "Devam Ediyor"
	TaskStatusCompleted  = "Tamamlandı"
)

// ValidPriorities contains all valid task priority values.
var ValidPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

// ValidTaskStatuses contains all valid task status values.
var ValidTaskStatuses = []string{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}

// IsValidPriority checks if the given priority is valid.
func IsValidPriority(priority string) bool {
	for _, p := range ValidPriorities {
		if p == priority {
			return true
		}
	}
	return false
}

// IsValidTaskStatus checks if the given task status is valid.
func IsValidTaskStatus(status string) bool {
	for _, s := range ValidTaskStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidProgress checks if the given progress value is within range.
func IsValidProgress(progress int) bool {
	return progress >= 0 && progress <= 100
}

// IsAssignee reports whether the given user is assigned to the task.
func (t *Task) IsAssignee(userID uuid.UUID) bool {
	for _, id := range t.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}
