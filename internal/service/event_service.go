package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/events"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/ledger"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/metrics"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/models"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/policy"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/storage"
)

// EventService owns event lifecycle operations.
type EventService struct {
	store storage.Store
	now   func() time.Time
}

// NewEventService creates a new EventService with the given storage backend.
func NewEventService(store storage.Store) *EventService {
	return &EventService{store: store, now: time.Now}
}

// EventDetail is an event with its payment records and collection summary.
type EventDetail struct {
	Event   models.Event           `json:"event"`
	Records []models.PaymentRecord `json:"records"`
	Summary models.PaymentSummary  `json:"summary"`
}

// ListEvents returns all events, newest first, optionally filtered by
// status. Any registered member may browse the event list.
func (s *EventService) ListEvents(ctx context.Context, user *policy.User, status models.EventStatus) ([]models.Event, error) {
	if err := policy.Require(user, policy.CanBrowseEvents); err != nil {
		return nil, err
	}

	all, err := s.store.ListEvents(ctx)
	if err != nil {
		slog.Error("ListEvents failed", "error", err)
		return nil, err
	}

	list := make([]models.Event, 0, len(all))
	for i := range all {
		if status != "" && all[i].Status != status {
			continue
		}
		list = append(list, all[i])
	}

	// Rows append oldest-first; present newest-first.
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	return list, nil
}

// CreateEvent creates an event and one payment record per participant.
// Records are persisted before the event row so a partial failure never
// yields an event with missing obligations.
func (s *EventService) CreateEvent(ctx context.Context, user *policy.User, draft events.Draft, participants []models.Participant) (*EventDetail, error) {
	if err := policy.Require(user, policy.CanCreateEvent); err != nil {
		return nil, err
	}

	slog.Info("CreateEvent request received",
		"name", draft.Name,
		"type", draft.Type,
		"participants_count", len(participants),
		"created_by", user.LineUserID,
	)

	event, records, err := events.CreateEvent(draft, participants, user.LineUserID, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.store.AppendPaymentRecords(ctx, records); err != nil {
		slog.Error("CreateEvent failed appending records", "event_id", event.EventID, "error", err)
		return nil, err
	}
	if err := s.store.AppendEvent(ctx, &event); err != nil {
		slog.Error("CreateEvent failed appending event", "event_id", event.EventID, "error", err)
		return nil, err
	}

	metrics.EventsCreated.Inc()
	slog.Info("event created", "event_id", event.EventID, "records", len(records))

	return &EventDetail{
		Event:   event,
		Records: records,
		Summary: ledger.Summarize(records),
	}, nil
}

// GetEvent returns an event with its records and summary. Collectors and
// admins see the full roster; plain members get the event alone through
// ListEvents and their own rows through MyPayments.
func (s *EventService) GetEvent(ctx context.Context, user *policy.User, eventID string) (*EventDetail, error) {
	if err := policy.Require(user, policy.CanViewReports); err != nil {
		return nil, err
	}

	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	records, err := s.store.ListPaymentRecordsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return &EventDetail{
		Event:   *event,
		Records: records,
		Summary: ledger.Summarize(records),
	}, nil
}

// TransitionStatus moves an event through its lifecycle. Totals are
// recomputed on the way so a completion snapshot is accurate.
func (s *EventService) TransitionStatus(ctx context.Context, user *policy.User, eventID string, target models.EventStatus) (*models.Event, error) {
	if err := policy.Require(user, policy.CanManageEvents); err != nil {
		return nil, err
	}

	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	updated, err := events.Transition(*event, target, s.now())
	if err != nil {
		return nil, err
	}

	records, err := s.store.ListPaymentRecordsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	updated = events.RecomputeTotals(updated, records)

	if err := s.store.UpdateEvent(ctx, &updated); err != nil {
		slog.Error("TransitionStatus failed persisting event", "event_id", eventID, "error", err)
		return nil, err
	}

	slog.Info("event status changed", "event_id", eventID, "from", event.Status, "to", target, "by", user.LineUserID)
	return &updated, nil
}
