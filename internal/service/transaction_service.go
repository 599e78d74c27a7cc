package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/metrics"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/models"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/policy"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/storage"
)

// TransactionService projects collected payments into the club's finance
// log and keeps its running balance.
type TransactionService struct {
	store storage.Store
	now   func() time.Time
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store storage.Store) *TransactionService {
	return &TransactionService{store: store, now: time.Now}
}

// List returns the finance log in ledger order, oldest first, so the
// running balance reads top to bottom.
func (s *TransactionService) List(ctx context.Context, user *policy.User) ([]models.Transaction, error) {
	if err := policy.Require(user, policy.CanViewFinances); err != nil {
		return nil, err
	}
	return s.store.ListTransactions(ctx)
}

// GenerateFromEvent appends one income transaction per collected payment
// of the event, carrying the running balance forward. Records already
// represented in the log are skipped, so the operation is safe to repeat
// as more payments come in.
func (s *TransactionService) GenerateFromEvent(ctx context.Context, user *policy.User, eventID string) ([]models.Transaction, error) {
	if err := policy.Require(user, policy.CanManageFinances); err != nil {
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

	existing, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	logged := make(map[string]bool, len(existing))
	for i := range existing {
		if existing[i].TrackingID != "" {
			logged[existing[i].TrackingID] = true
		}
	}

	balance := 0.0
	if len(existing) > 0 {
		balance = existing[len(existing)-1].Balance
	}

	var generated []models.Transaction
	for i := range records {
		r := &records[i]
		if r.PaidAmount <= 0 || logged[r.TrackingID] {
			continue
		}

		date := r.PaymentDate
		if date.IsZero() {
			date = s.now()
		}
		balance += r.PaidAmount

		generated = append(generated, models.Transaction{
			TransactionID: fmt.Sprintf("txn_%s", uuid.NewString()),
			Date:          date,
			Description:   fmt.Sprintf("%s - %s", event.EventName, r.MemberDisplayName),
			Type:          models.TransactionIncome,
			Amount:        r.PaidAmount,
			Handler:       r.CollectorName,
			Balance:       balance,
			EventID:       eventID,
			GeneratedFrom: models.GeneratedFromTracking,
			TrackingID:    r.TrackingID,
		})
	}

	if len(generated) == 0 {
		slog.Info("no new transactions to generate", "event_id", eventID)
		return nil, nil
	}

	if err := s.store.AppendTransactions(ctx, generated); err != nil {
		slog.Error("GenerateFromEvent failed", "event_id", eventID, "error", err)
		return nil, err
	}

	metrics.TransactionsGenerated.Add(float64(len(generated)))
	slog.Info("transactions generated", "event_id", eventID, "count", len(generated), "balance", balance)
	return generated, nil
}
