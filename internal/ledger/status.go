package ledger

import (
	"fmt"
	"time"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/errs"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/models"
)

// ComputeStatus derives the payment status from amounts. This is the only
// way a status is ever produced: callers cannot supply one, and every
// mutation of PaidAmount recomputes it.
//
// A zero RequiredAmount means the obligation is trivially satisfied, so
// any non-negative PaidAmount counts as paid, including zero.
func ComputeStatus(paidAmount, requiredAmount float64) models.PaymentStatus {
	if paidAmount >= requiredAmount {
		return models.PaymentPaid
	}
	if paidAmount == 0 {
		return models.PaymentUnpaid
	}
	return models.PaymentPartial
}

// Summarize aggregates a record set into totals and per-status counts.
// An empty set yields all zeroes, including a 0 collection rate.
func Summarize(records []models.PaymentRecord) models.PaymentSummary {
	var s models.PaymentSummary
	for i := range records {
		s.TotalRequired += records[i].RequiredAmount
		s.TotalCollected += records[i].PaidAmount
		switch records[i].PaymentStatus {
		case models.PaymentPaid:
			s.PaidCount++
		case models.PaymentPartial:
			s.PartialCount++
		default:
			s.UnpaidCount++
		}
	}
	if s.TotalRequired > 0 {
		s.CollectionRate = s.TotalCollected / s.TotalRequired * 100
	}
	return s
}

// CreateRecordsForEvent builds one unpaid record per participant with the
// event's per-person amount snapshotted into each. The snapshot is
// deliberate: changing the event's amount later never rewrites existing
// obligations.
func CreateRecordsForEvent(eventID string, requiredAmount float64, participants []models.Participant, now time.Time) ([]models.PaymentRecord, error) {
	if len(participants) == 0 {
		return nil, errs.Validationf("an event needs at least one participant to track payments")
	}
	if requiredAmount < 0 {
		return nil, errs.Validationf("required amount cannot be negative")
	}

	records := make([]models.PaymentRecord, len(participants))
	for i, p := range participants {
		records[i] = models.PaymentRecord{
			TrackingID:        trackingID(eventID, p.LineUserID, now),
			EventID:           eventID,
			MemberLineUserID:  p.LineUserID,
			MemberDisplayName: p.DisplayName,
			RequiredAmount:    requiredAmount,
			PaidAmount:        0,
			PaymentStatus:     ComputeStatus(0, requiredAmount),
			CreatedDate:       now,
			UpdatedDate:       now,
		}
	}
	return records, nil
}

// trackingID derives a stable record ID from event, member, and creation
// time, matching the IDs already present in the club's sheet.
func trackingID(eventID, lineUserID string, now time.Time) string {
	return fmt.Sprintf("track_%s_%s_%d", eventID, lineUserID, now.UnixMilli())
}
