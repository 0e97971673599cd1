package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLog is an append-only audit record. Entries are written as a
// best-effort side effect of mutations and are never read back by core logic.
type ActivityLog struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// Activity log entry types.
const (
	ActivitySuccess = "success"
	ActivityInfo    = "info"
	ActivityWarning = "warning"
	ActivityError   = "error"
)
