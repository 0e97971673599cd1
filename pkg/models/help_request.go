package models

import (
	"time"

	"github.com/google/uuid"
)

// HelpRequest is a plea for peer assistance on a task. Lifecycle:
// Bekliyor → Kabul Edildi → Tamamlandı, no skips, no backward transitions.
// At most one request per task may be active (Bekliyor or Kabul Edildi).
type HelpRequest struct {
	ID          uuid.UUID  `json:"id"`
	TaskID      uuid.UUID  `json:"taskId"`
	RequestedBy uuid.UUID  `json:"requestedBy"`
	HelpedBy    *uuid.UUID `json:"helpedBy,omitempty"`
	Status      string     `json:"status"`
	Message     string     `json:"message,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Help request status constants.
const (
	HelpRequestPending   = "Bekliyor"
	HelpRequestAccepted  = "Kabul Edildi"
	HelpRequestCompleted = "Tamamlandı"
)

// IsActive reports whether the request still blocks new requests on its task.
func (h *HelpRequest) IsActive() bool {
	return h.Status == HelpRequestPending || h.Status == HelpRequestAccepted
}
