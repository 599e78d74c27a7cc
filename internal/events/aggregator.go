// Package events owns the Event entity: creation, the status state
// machine, and the projection that keeps an event's cached collection
// totals consistent with its payment records.
package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/errs"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/ledger"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/models"
)

// Draft holds the caller-supplied fields of a new event.
type Draft struct {
	Name           string
	Date           string // YYYY-MM-DD
	Type           models.EventType
	RequiredAmount float64
	Description    string
}

// transitions is the event status state machine. completed and cancelled
// have no outgoing edges.
var transitions = map[models.EventStatus][]models.EventStatus{
	models.EventPlanning:  {models.EventActive, models.EventCancelled},
	models.EventActive:    {models.EventCompleted, models.EventCancelled},
	models.EventCompleted: {},
	models.EventCancelled: {},
}

// RecomputeTotals returns a copy of event with CollectedAmount and
// CollectionProgress rebuilt from records. Pure and idempotent: safe to
// call any number of times, including on records belonging to a stale
// read. Records from other events are the caller's bug and are summed
// anyway; pass only the event's own set.
func RecomputeTotals(event models.Event, records []models.PaymentRecord) models.Event {
	var collected float64
	for i := range records {
		collected += records[i].PaidAmount
	}
	event.CollectedAmount = collected

	if total := event.RequiredTotal(); total > 0 {
		event.CollectionProgress = collected / total * 100
	} else {
		event.CollectionProgress = 0
	}
	return event
}

// Transition returns a copy of event moved to target, or an
// InvalidTransitionError when the state machine has no such edge.
func Transition(event models.Event, target models.EventStatus, now time.Time) (models.Event, error) {
	for _, allowed := range transitions[event.Status] {
		if target == allowed {
			event.Status = target
			event.UpdatedDate = now
			return event, nil
		}
	}
	return event, &errs.InvalidTransitionError{From: string(event.Status), To: string(target)}
}

// CreateEvent validates the draft and builds the event together with one
// payment record per participant. Both are returned for the caller to
// persist; creation intent is atomic even though the row store cannot
// make the two appends transactional (records are persisted first, event
// last, so a partial failure never leaves an event whose obligations are
// missing).
func CreateEvent(draft Draft, participants []models.Participant, createdBy string, now time.Time) (models.Event, []models.PaymentRecord, error) {
	var event models.Event

	draft.Name = strings.TrimSpace(draft.Name)
	if draft.Name == "" {
		return event, nil, errs.Validationf("event name is required")
	}
	if draft.Date == "" {
		return event, nil, errs.Validationf("event date is required")
	}
	if _, err := time.Parse("2006-01-02", draft.Date); err != nil {
		return event, nil, errs.Validationf("event date must be YYYY-MM-DD, got %q", draft.Date)
	}
	if !models.ValidEventType(draft.Type) {
		return event, nil, errs.Validationf("unknown event type %q", draft.Type)
	}
	if draft.RequiredAmount < 0 {
		return event, nil, errs.Validationf("required amount cannot be negative")
	}
	if len(participants) == 0 {
		return event, nil, errs.Validationf("select at least one participant")
	}

	eventID := fmt.Sprintf("event_%s", uuid.NewString())
	records, err := ledger.CreateRecordsForEvent(eventID, draft.RequiredAmount, participants, now)
	if err != nil {
		return event, nil, err
	}

	event = models.Event{
		EventID:          eventID,
		EventName:        draft.Name,
		EventDate:        draft.Date,
		EventType:        draft.Type,
		RequiredAmount:   draft.RequiredAmount,
		Description:      draft.Description,
		Status:           models.EventPlanning,
		CreatedBy:        createdBy,
		CreatedDate:      now,
		UpdatedDate:      now,
		ParticipantCount: len(participants),
	}
	return event, records, nil
}
