// Package rowdb implements storage.Store on top of the row-oriented
// store, with a read-through cache and schema-validated decoding.
//
// Row updates address rows by the index observed in a prior full read.
// Rows are only ever appended or rewritten in place, never deleted, so a
// decoded slice position is a stable row index. There is no cross-request
// locking: two concurrent writers to the same row race and the later
// write wins, which is acceptable at club scale and is the documented
// behaviour, not an oversight.
package rowdb

import (
	"context"
	"log/slog"
	"time"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/cache"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/errs"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/models"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/rowstore"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Cache keys double as invalidation patterns: every write invalidates the
// patterns of the tables it makes stale.
const (
	keyEvents       = "events"
	keyPayments     = "payment-tracking"
	keyAuthorized   = "authorized-members"
	keyRegistered   = "registered-members"
	keyPending      = "pending-registrations"
	keyTransactions = "transactions"
)

// Store is the row-store-backed implementation of storage.Store.
type Store struct {
	rows  rowstore.Store
	cache *cache.Cache
}

// New creates a Store over the given row store and cache.
func New(rows rowstore.Store, c *cache.Cache) *Store {
	return &Store{rows: rows, cache: c}
}

// Close closes the underlying row store.
func (s *Store) Close() error {
	return s.rows.Close()
}

// listThrough is the read path behind the List methods: cache hit, else
// a full table read decoded under schema validation. Backing-store I/O
// failures downgrade to an empty result (the sheet may simply not exist
// yet); decode failures are real shape drift and propagate.
func listThrough[T any](ctx context.Context, s *Store, key string, table rowstore.Table, decode func(int, []string) (T, error)) ([]T, error) {
	if v, ok := s.cache.Get(key); ok {
		if list, ok := v.([]T); ok {
			return list, nil
		}
	}

	rows, err := s.rows.GetAll(ctx, table)
	if err != nil {
		slog.Warn("row store read failed, serving empty result", "table", table, "error", err)
		return nil, nil
	}
	return decodeRows(s, key, table, rows, decode)
}

// listStrict backs the point lookups and row mutations, where an empty
// result would misreport an unreadable store as a missing row. I/O
// failures propagate as persistence errors instead of downgrading.
func listStrict[T any](ctx context.Context, s *Store, key string, table rowstore.Table, decode func(int, []string) (T, error)) ([]T, error) {
	if v, ok := s.cache.Get(key); ok {
		if list, ok := v.([]T); ok {
			return list, nil
		}
	}

	rows, err := s.rows.GetAll(ctx, table)
	if err != nil {
		return nil, errs.Persistence("read "+string(table), err)
	}
	return decodeRows(s, key, table, rows, decode)
}

func decodeRows[T any](s *Store, key string, table rowstore.Table, rows [][]string, decode func(int, []string) (T, error)) ([]T, error) {
	list := make([]T, 0, len(rows))
	for i, row := range rows {
		item, err := decode(i, row)
		if err != nil {
			return nil, errs.Persistence("decode "+string(table), err)
		}
		list = append(list, item)
	}
	s.cache.Set(key, list)
	return list, nil
}

// ---- Events ----

func (s *Store) ListEvents(ctx context.Context) ([]models.Event, error) {
	return listThrough(ctx, s, keyEvents, rowstore.TableEvents, decodeEvent)
}

func (s *Store) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	events, err := listStrict(ctx, s, keyEvents, rowstore.TableEvents, decodeEvent)
	if err != nil {
		return nil, err
	}
	for i := range events {
		if events[i].EventID == eventID {
			e := events[i]
			return &e, nil
		}
	}
	return nil, &errs.NotFoundError{Resource: "event", ID: eventID}
}

func (s *Store) AppendEvent(ctx context.Context, event *models.Event) error {
	if err := s.rows.Append(ctx, rowstore.TableEvents, [][]string{encodeEvent(event)}); err != nil {
		return errs.Persistence("append event", err)
	}
	s.cache.Invalidate(keyEvents)
	return nil
}

func (s *Store) UpdateEvent(ctx context.Context, event *models.Event) error {
	idx, err := s.eventRowIndex(ctx, event.EventID)
	if err != nil {
		return err
	}
	if err := s.rows.UpdateRange(ctx, rowstore.TableEvents, idx, 0, encodeEvent(event)); err != nil {
		return errs.Persistence("update event", err)
	}
	s.cache.Invalidate(keyEvents)
	return nil
}

func (s *Store) eventRowIndex(ctx context.Context, eventID string) (int, error) {
	events, err := listStrict(ctx, s, keyEvents, rowstore.TableEvents, decodeEvent)
	if err != nil {
		return 0, err
	}
	for i := range events {
		if events[i].EventID == eventID {
			return i, nil
		}
	}
	return 0, &errs.NotFoundError{Resource: "event", ID: eventID}
}

// ---- Payment records ----

func (s *Store) ListPaymentRecords(ctx context.Context) ([]models.PaymentRecord, error) {
	return listThrough(ctx, s, keyPayments, rowstore.TablePaymentTracking, decodePaymentRecord)
}

func (s *Store) ListPaymentRecordsByEvent(ctx context.Context, eventID string) ([]models.PaymentRecord, error) {
	all, err := s.ListPaymentRecords(ctx)
	if err != nil {
		return nil, err
	}
	var records []models.PaymentRecord
	for i := range all {
		if all[i].EventID == eventID {
			records = append(records, all[i])
		}
	}
	return records, nil
}

func (s *Store) GetPaymentRecord(ctx context.Context, trackingID string) (*models.PaymentRecord, error) {
	all, err := listStrict(ctx, s, keyPayments, rowstore.TablePaymentTracking, decodePaymentRecord)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].TrackingID == trackingID {
			r := all[i]
			return &r, nil
		}
	}
	return nil, &errs.NotFoundError{Resource: "payment record", ID: trackingID}
}

func (s *Store) AppendPaymentRecords(ctx context.Context, records []models.PaymentRecord) error {
	rows := make([][]string, len(records))
	for i := range records {
		rows[i] = encodePaymentRecord(&records[i])
	}
	if err := s.rows.Append(ctx, rowstore.TablePaymentTracking, rows); err != nil {
		return errs.Persistence("append payment records", err)
	}
	s.cache.Invalidate(keyPayments)
	return nil
}

func (s *Store) UpdatePaymentRecord(ctx context.Context, record *models.PaymentRecord) error {
	all, err := listStrict(ctx, s, keyPayments, rowstore.TablePaymentTracking, decodePaymentRecord)
	if err != nil {
		return err
	}
	idx := -1
	for i := range all {
		if all[i].TrackingID == record.TrackingID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &errs.NotFoundError{Resource: "payment record", ID: record.TrackingID}
	}

	// Only the mutable tail is rewritten; identity columns and the
	// requiredAmount snapshot stay untouched.
	if err := s.rows.UpdateRange(ctx, rowstore.TablePaymentTracking, idx, trackingColPaid, encodePaymentMutation(record)); err != nil {
		return errs.Persistence("update payment record", err)
	}

	// Event aggregates read through the events cache, which is now stale.
	s.cache.Invalidate(keyPayments)
	s.cache.Invalidate(keyEvents)
	return nil
}

// ---- Members ----

func (s *Store) ListAuthorizedMembers(ctx context.Context) ([]models.AuthorizedMember, error) {
	return listThrough(ctx, s, keyAuthorized, rowstore.TableAuthorizedMembers, decodeAuthorizedMember)
}

func (s *Store) ListRegisteredMembers(ctx context.Context) ([]models.RegisteredMember, error) {
	return listThrough(ctx, s, keyRegistered, rowstore.TableRegisteredMembers, decodeRegisteredMember)
}

func (s *Store) FindRegisteredMemberByLineID(ctx context.Context, lineUserID string) (*models.RegisteredMember, error) {
	members, err := s.ListRegisteredMembers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range members {
		if members[i].LineUserID == lineUserID {
			m := members[i]
			return &m, nil
		}
	}
	return nil, nil
}

func (s *Store) TouchMemberLogin(ctx context.Context, lineUserID string, when time.Time) error {
	members, err := listStrict(ctx, s, keyRegistered, rowstore.TableRegisteredMembers, decodeRegisteredMember)
	if err != nil {
		return err
	}
	idx := -1
	for i := range members {
		if members[i].LineUserID == lineUserID {
			idx = i
			break
		}
	}
	if idx < 0 {
		// Unregistered identities have no row to touch.
		return nil
	}
	if err := s.rows.UpdateRange(ctx, rowstore.TableRegisteredMembers, idx, registeredColLastLogin, []string{formatTime(when)}); err != nil {
		return errs.Persistence("touch member login", err)
	}
	s.cache.Invalidate(keyRegistered)
	return nil
}

// ---- Registration requests ----

func (s *Store) ListPendingRegistrations(ctx context.Context) ([]models.PendingRegistration, error) {
	return listThrough(ctx, s, keyPending, rowstore.TablePendingRegistrations, decodePendingRegistration)
}

func (s *Store) AppendPendingRegistration(ctx context.Context, req *models.PendingRegistration) error {
	if req.RequestID == 0 {
		existing, err := listStrict(ctx, s, keyPending, rowstore.TablePendingRegistrations, decodePendingRegistration)
		if err != nil {
			return err
		}
		next := 1
		for i := range existing {
			if existing[i].RequestID >= next {
				next = existing[i].RequestID + 1
			}
		}
		req.RequestID = next
	}
	if err := s.rows.Append(ctx, rowstore.TablePendingRegistrations, [][]string{encodePendingRegistration(req)}); err != nil {
		return errs.Persistence("append pending registration", err)
	}
	s.cache.Invalidate(keyPending)
	return nil
}

// ---- Finance transactions ----

func (s *Store) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	return listThrough(ctx, s, keyTransactions, rowstore.TableTransactions, decodeTransaction)
}

func (s *Store) AppendTransactions(ctx context.Context, txns []models.Transaction) error {
	rows := make([][]string, len(txns))
	for i := range txns {
		rows[i] = encodeTransaction(&txns[i])
	}
	if err := s.rows.Append(ctx, rowstore.TableTransactions, rows); err != nil {
		return errs.Persistence("append transactions", err)
	}
	s.cache.Invalidate(keyTransactions)
	return nil
}
