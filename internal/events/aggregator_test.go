package events

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/errs"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/models"
)

func TestTransition(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		from models.EventStatus
		to   models.EventStatus
		ok   bool
	}{
		{models.EventPlanning, models.EventActive, true},
		{models.EventPlanning, models.EventCancelled, true},
		{models.EventPlanning, models.EventCompleted, false},
		{models.EventActive, models.EventCompleted, true},
		{models.EventActive, models.EventCancelled, true},
		{models.EventActive, models.EventPlanning, false},
		{models.EventCompleted, models.EventActive, false},
		{models.EventCompleted, models.EventCancelled, false},
		{models.EventCancelled, models.EventActive, false},
		{models.EventPlanning, models.EventPlanning, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			event := models.Event{EventID: "evt-1", Status: tt.from}
			got, err := Transition(event, tt.to, now)

			if tt.ok {
				if err != nil {
					t.Fatalf("Transition failed: %v", err)
				}
				if got.Status != tt.to {
					t.Errorf("status = %s, want %s", got.Status, tt.to)
				}
				if !got.UpdatedDate.Equal(now) {
					t.Errorf("updatedDate = %v, want %v", got.UpdatedDate, now)
				}
				return
			}

			var itErr *errs.InvalidTransitionError
			if !errors.As(err, &itErr) {
				t.Fatalf("expected InvalidTransitionError, got %v", err)
			}
			if got.Status != tt.from {
				t.Errorf("rejected transition changed status to %s", got.Status)
			}
		})
	}
}

func TestRecomputeTotals(t *testing.T) {
	event := models.Event{
		EventID:          "evt-1",
		RequiredAmount:   500,
		ParticipantCount: 4,
	}
	records := []models.PaymentRecord{
		{PaidAmount: 500},
		{PaidAmount: 200},
		{PaidAmount: 0},
		{PaidAmount: 550},
	}

	t.Run("rebuilds collected amount and progress", func(t *testing.T) {
		got := RecomputeTotals(event, records)
		if got.CollectedAmount != 1250 {
			t.Errorf("collectedAmount = %v, want 1250", got.CollectedAmount)
		}
		if math.Abs(got.CollectionProgress-62.5) > 0.001 {
			t.Errorf("collectionProgress = %v, want 62.5", got.CollectionProgress)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		once := RecomputeTotals(event, records)
		twice := RecomputeTotals(once, records)
		if once != twice {
			t.Errorf("second application changed the event: %+v vs %+v", once, twice)
		}
	})

	t.Run("no records resets totals", func(t *testing.T) {
		stale := event
		stale.CollectedAmount = 999
		stale.CollectionProgress = 50

		got := RecomputeTotals(stale, nil)
		if got.CollectedAmount != 0 || got.CollectionProgress != 0 {
			t.Errorf("totals = %v/%v, want 0/0", got.CollectedAmount, got.CollectionProgress)
		}
	})

	t.Run("zero participant count has zero progress", func(t *testing.T) {
		free := models.Event{RequiredAmount: 500, ParticipantCount: 0}
		got := RecomputeTotals(free, records)
		if got.CollectionProgress != 0 {
			t.Errorf("collectionProgress = %v, want 0 when nothing is required", got.CollectionProgress)
		}
	})
}

func TestCreateEvent(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	participants := []models.Participant{
		{LineUserID: "U001", DisplayName: "Ming"},
		{LineUserID: "U002", DisplayName: "Hua"},
	}
	draft := Draft{
		Name:           "Summer friendly",
		Date:           "2025-07-12",
		Type:           models.EventTypeMatch,
		RequiredAmount: 500,
		Description:    "vs. the harbor club",
	}

	t.Run("creates event and one record per participant", func(t *testing.T) {
		event, records, err := CreateEvent(draft, participants, "U900", now)
		if err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}

		if !strings.HasPrefix(event.EventID, "event_") {
			t.Errorf("eventID = %q, want event_ prefix", event.EventID)
		}
		if event.Status != models.EventPlanning {
			t.Errorf("status = %s, want planning", event.Status)
		}
		if event.ParticipantCount != 2 {
			t.Errorf("participantCount = %d, want 2", event.ParticipantCount)
		}
		if event.CreatedBy != "U900" {
			t.Errorf("createdBy = %q, want U900", event.CreatedBy)
		}
		if event.CollectedAmount != 0 {
			t.Errorf("collectedAmount = %v, want 0", event.CollectedAmount)
		}

		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}
		for _, r := range records {
			if r.EventID != event.EventID {
				t.Errorf("record eventID = %q, want %q", r.EventID, event.EventID)
			}
			if r.PaymentStatus != models.PaymentUnpaid {
				t.Errorf("record status = %s, want unpaid", r.PaymentStatus)
			}
		}
	})

	t.Run("validation failures", func(t *testing.T) {
		cases := []struct {
			name         string
			mutate       func(*Draft)
			participants []models.Participant
		}{
			{"blank name", func(d *Draft) { d.Name = "  " }, participants},
			{"missing date", func(d *Draft) { d.Date = "" }, participants},
			{"malformed date", func(d *Draft) { d.Date = "12/07/2025" }, participants},
			{"unknown type", func(d *Draft) { d.Type = "regatta" }, participants},
			{"negative amount", func(d *Draft) { d.RequiredAmount = -1 }, participants},
			{"no participants", func(d *Draft) {}, nil},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				bad := draft
				tc.mutate(&bad)

				_, _, err := CreateEvent(bad, tc.participants, "U900", now)
				var vErr *errs.ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
			})
		}
	})
}
