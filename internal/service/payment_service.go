package service

import (
	"context"
	"log/slog"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/events"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/ledger"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/models"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/policy"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/storage"
)

// PaymentService sits between the boundary and the ledger: it enforces
// roles, delegates mutation to the ledger, and keeps the owning event's
// cached totals in step after writes.
type PaymentService struct {
	store  storage.Store
	ledger *ledger.Ledger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(store storage.Store, l *ledger.Ledger) *PaymentService {
	return &PaymentService{store: store, ledger: l}
}

// ListEventPayments returns an event's payment roster with its summary.
func (s *PaymentService) ListEventPayments(ctx context.Context, user *policy.User, eventID string) ([]models.PaymentRecord, models.PaymentSummary, error) {
	if err := policy.Require(user, policy.CanViewReports); err != nil {
		return nil, models.PaymentSummary{}, err
	}

	// Listing through the event surfaces a 404 for unknown IDs instead of
	// an empty roster.
	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		return nil, models.PaymentSummary{}, err
	}

	records, err := s.store.ListPaymentRecordsByEvent(ctx, eventID)
	if err != nil {
		return nil, models.PaymentSummary{}, err
	}
	return records, ledger.Summarize(records), nil
}

// RecordPayment applies one payment and refreshes the owning event's
// totals. The payment itself is the source of truth; if the event total
// refresh fails the payment stands and the totals catch up on the next
// write.
func (s *PaymentService) RecordPayment(ctx context.Context, user *policy.User, trackingID string, in ledger.PaymentInput) (*models.PaymentRecord, error) {
	if err := policy.Require(user, policy.CanCollectPayment); err != nil {
		return nil, err
	}

	record, err := s.ledger.RecordPayment(ctx, trackingID, in, ledger.Collector{
		LineUserID: user.LineUserID,
		Name:       user.CollectorName(),
	})
	if err != nil {
		return nil, err
	}

	s.refreshEventTotals(ctx, record.EventID)

	slog.Info("payment recorded",
		"tracking_id", trackingID,
		"event_id", record.EventID,
		"amount", record.PaidAmount,
		"status", record.PaymentStatus,
		"collected_by", user.LineUserID,
	)
	return record, nil
}

// BatchItem is one entry of a batch payment update.
type BatchItem struct {
	TrackingID string
	Input      ledger.PaymentInput
}

// BatchResult reports the outcome of one batch entry. Err is empty on
// success.
type BatchResult struct {
	TrackingID string                `json:"trackingID"`
	Record     *models.PaymentRecord `json:"record,omitempty"`
	Err        string                `json:"error,omitempty"`
}

// BatchRecordPayments applies each item independently: one bad entry
// does not abort the rest, and every outcome is reported. Event totals
// are refreshed once per touched event after the batch.
func (s *PaymentService) BatchRecordPayments(ctx context.Context, user *policy.User, items []BatchItem) ([]BatchResult, error) {
	if err := policy.Require(user, policy.CanCollectPayment); err != nil {
		return nil, err
	}

	collector := ledger.Collector{LineUserID: user.LineUserID, Name: user.CollectorName()}
	results := make([]BatchResult, 0, len(items))
	touched := make(map[string]bool)

	for _, item := range items {
		record, err := s.ledger.RecordPayment(ctx, item.TrackingID, item.Input, collector)
		if err != nil {
			results = append(results, BatchResult{TrackingID: item.TrackingID, Err: err.Error()})
			continue
		}
		results = append(results, BatchResult{TrackingID: item.TrackingID, Record: record})
		touched[record.EventID] = true
	}

	for eventID := range touched {
		s.refreshEventTotals(ctx, eventID)
	}

	slog.Info("batch payments applied", "total", len(items), "events_touched", len(touched), "collected_by", user.LineUserID)
	return results, nil
}

// MyPayments returns the caller's own payment rows across all events.
func (s *PaymentService) MyPayments(ctx context.Context, user *policy.User) ([]models.PaymentRecord, error) {
	if err := policy.Require(user, policy.CanViewOwnPayments); err != nil {
		return nil, err
	}

	all, err := s.store.ListPaymentRecords(ctx)
	if err != nil {
		return nil, err
	}

	var mine []models.PaymentRecord
	for i := range all {
		if all[i].MemberLineUserID == user.LineUserID {
			mine = append(mine, all[i])
		}
	}
	return mine, nil
}

func (s *PaymentService) refreshEventTotals(ctx context.Context, eventID string) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		slog.Warn("event totals refresh skipped", "event_id", eventID, "error", err)
		return
	}
	records, err := s.store.ListPaymentRecordsByEvent(ctx, eventID)
	if err != nil {
		slog.Warn("event totals refresh skipped", "event_id", eventID, "error", err)
		return
	}

	updated := events.RecomputeTotals(*event, records)
	if err := s.store.UpdateEvent(ctx, &updated); err != nil {
		slog.Warn("event totals refresh failed", "event_id", eventID, "error", err)
	}
}
