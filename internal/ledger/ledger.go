// Package ledger is the single source of truth for deriving and mutating
// payment record state. Status is always recomputed from amounts here;
// nothing in the API shape lets a caller assert a status, which closes
// off a whole class of consistency bugs even without locking.
//
// There is no optimistic locking beyond the explicit last-updated check:
// two concurrent payments against the same record race read-compute-write
// and the later write wins. At club scale that is the accepted trade-off.
package ledger

import (
	"context"
	"time"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/errs"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/metrics"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/models"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/storage"
)

// Collector identifies the authenticated actor recording a payment. The
// ledger stamps this onto the record; caller-supplied collector fields in
// request bodies are ignored upstream.
type Collector struct {
	LineUserID string
	Name       string
}

// PaymentInput carries the caller-controlled fields of a payment update.
// Note the absence of a status field.
type PaymentInput struct {
	PaidAmount float64
	Method     models.PaymentMethod
	Notes      string

	// PaymentDate defaults to the current time when zero.
	PaymentDate time.Time

	// ExpectedUpdated, when non-zero, must match the stored record's
	// UpdatedDate or the write is rejected as a conflict.
	ExpectedUpdated time.Time
}

// Ledger owns payment record mutation.
type Ledger struct {
	store storage.Store
	now   func() time.Time
}

// New creates a Ledger over the given store.
func New(store storage.Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// NewWithClock is New with an explicit clock, for tests.
func NewWithClock(store storage.Store, now func() time.Time) *Ledger {
	return &Ledger{store: store, now: now}
}

// RecordPayment applies a payment to the record identified by trackingID
// and returns the full updated record so callers can render it without a
// second read. The owning event's cached totals become stale; recomputing
// them is the event aggregator's job, not the ledger's.
func (l *Ledger) RecordPayment(ctx context.Context, trackingID string, in PaymentInput, collector Collector) (*models.PaymentRecord, error) {
	if in.PaidAmount < 0 {
		return nil, errs.Validationf("paid amount cannot be negative")
	}
	if !models.ValidPaymentMethod(in.Method) {
		return nil, errs.Validationf("unknown payment method %q", in.Method)
	}

	record, err := l.store.GetPaymentRecord(ctx, trackingID)
	if err != nil {
		return nil, err
	}

	if !in.ExpectedUpdated.IsZero() && !record.UpdatedDate.Equal(in.ExpectedUpdated) {
		return nil, &errs.ConflictError{
			Msg: "payment record was modified by someone else; reload and retry",
		}
	}

	now := l.now()
	record.PaidAmount = in.PaidAmount
	record.PaymentStatus = ComputeStatus(in.PaidAmount, record.RequiredAmount)
	record.PaymentMethod = in.Method
	record.Notes = in.Notes
	record.CollectedBy = collector.LineUserID
	record.CollectorName = collector.Name
	record.UpdatedDate = now
	if !in.PaymentDate.IsZero() {
		record.PaymentDate = in.PaymentDate
	} else {
		record.PaymentDate = now
	}

	if err := l.store.UpdatePaymentRecord(ctx, record); err != nil {
		return nil, err
	}

	metrics.PaymentsRecorded.WithLabelValues(string(record.PaymentStatus)).Inc()
	return record, nil
}
