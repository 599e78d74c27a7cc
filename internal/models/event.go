package models

import "time"

// EventType classifies what kind of occasion money is collected for.
type EventType string

const (
	EventTypeMatch  EventType = "match"
	EventTypeDinner EventType = "dinner"
	EventTypeOther  EventType = "other"
)

// ValidEventType reports whether t is a known event type.
func ValidEventType(t EventType) bool {
	switch t {
	case EventTypeMatch, EventTypeDinner, EventTypeOther:
		return true
	}
	return false
}

// EventStatus is the event lifecycle state.
// planning -> active -> completed, with cancelled reachable from planning
// or active. completed and cancelled are terminal.
type EventStatus string

const (
	EventPlanning  EventStatus = "planning"
	EventActive    EventStatus = "active"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

// Event represents a collectible occasion with a per-participant amount.
type Event struct {
	// EventID is the unique identifier for the event (UUID format).
	EventID string `json:"eventID"`

	// EventName is the display name (e.g. "Spring friendly match").
	EventName string `json:"eventName"`

	// EventDate is the calendar date of the occasion, YYYY-MM-DD.
	EventDate string `json:"eventDate"`

	EventType EventType `json:"eventType"`

	// RequiredAmount is the amount each participant owes. Snapshotted
	// into every PaymentRecord at creation time.
	RequiredAmount float64 `json:"requiredAmount"`

	Description string      `json:"description,omitempty"`
	Status      EventStatus `json:"status"`

	// CreatedBy is the LINE user ID of the admin who created the event.
	CreatedBy string `json:"createdBy"`

	CreatedDate time.Time `json:"createdDate"`
	UpdatedDate time.Time `json:"updatedDate"`

	// ParticipantCount is fixed at creation from the selected members.
	ParticipantCount int `json:"participantCount"`

	// CollectedAmount is the cached sum of PaidAmount over the event's
	// payment records, recomputed after each payment mutation.
	CollectedAmount float64 `json:"collectedAmount"`

	// CollectionProgress is CollectedAmount over the required total as a
	// percentage (0-100); 0 when nothing is required.
	CollectionProgress float64 `json:"collectionProgress"`
}

// RequiredTotal returns the full amount the event should collect.
func (e *Event) RequiredTotal() float64 {
	return e.RequiredAmount * float64(e.ParticipantCount)
}
