// Package storage provides the typed persistence abstraction for the
// treasury domain. The interface hides the row-oriented backing store so
// the ledger and event layers never deal with cell positions, and so a
// transactional store could replace the spreadsheet-style row store
// without touching them.
package storage

import (
	"context"
	"time"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/models"
)

// Store defines typed operations over the logical tables.
//
// Read methods downgrade backing-store I/O failures to empty results so
// the system stays usable before first write; write methods always
// propagate failures. Get methods return errs.NotFoundError when the
// entity is absent.
type Store interface {
	// Events
	ListEvents(ctx context.Context) ([]models.Event, error)
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)
	AppendEvent(ctx context.Context, event *models.Event) error
	UpdateEvent(ctx context.Context, event *models.Event) error

	// Payment records
	ListPaymentRecords(ctx context.Context) ([]models.PaymentRecord, error)
	ListPaymentRecordsByEvent(ctx context.Context, eventID string) ([]models.PaymentRecord, error)
	GetPaymentRecord(ctx context.Context, trackingID string) (*models.PaymentRecord, error)
	AppendPaymentRecords(ctx context.Context, records []models.PaymentRecord) error
	UpdatePaymentRecord(ctx context.Context, record *models.PaymentRecord) error

	// Members
	ListAuthorizedMembers(ctx context.Context) ([]models.AuthorizedMember, error)
	ListRegisteredMembers(ctx context.Context) ([]models.RegisteredMember, error)
	// FindRegisteredMemberByLineID returns (nil, nil) when no row matches:
	// an unregistered identity is an expected state, not an error.
	FindRegisteredMemberByLineID(ctx context.Context, lineUserID string) (*models.RegisteredMember, error)
	TouchMemberLogin(ctx context.Context, lineUserID string, when time.Time) error

	// Registration requests
	ListPendingRegistrations(ctx context.Context) ([]models.PendingRegistration, error)
	AppendPendingRegistration(ctx context.Context, req *models.PendingRegistration) error

	// Finance transactions
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	AppendTransactions(ctx context.Context, txns []models.Transaction) error

	// Close releases any resources held by the store.
	Close() error
}
